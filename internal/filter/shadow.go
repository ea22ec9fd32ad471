package filter

import (
	"image"
	"math"

	"github.com/gogpu/postfx/effect"
)

// Shadow tuning shared with the WGSL kernel.
const (
	shadowDarkerRatio = 0.95 // receiver must be darker than occluder by 5%
	shadowMaxAmount   = 0.5
	shadowTintBlue    = 1.08
	shadowTintRed     = 0.96
)

// ShadowFilter darkens pixels that lie down-right of strong luminance edges,
// as if lit from the top-left. It is an image-space heuristic: the casting
// direction is fixed at 45 degrees.
//
// A pixel Q with edge strength above the threshold is an occluder. Walking
// from a pixel P towards the light, every occluder Q = P-(s,s) with s up to
// Distance that is brighter than P contributes edge(Q) with a linear falloff
// in s. The sum is scaled by Strength and capped at 50% darkening.
type ShadowFilter struct {
	Sensitivity int     // edge threshold is Sensitivity/500
	Strength    float64 // scale applied to the accumulated edge strength
	Distance    int     // ray-march steps
	Softness    int     // radius of the smoothing samples; 1 disables it
	Tint        bool    // cool shadowed pixels: more blue, less red
}

// NewShadowFilter builds the filter from a configuration.
func NewShadowFilter(cfg *effect.Config) *ShadowFilter {
	return &ShadowFilter{
		Sensitivity: cfg.ShadowSensitivity,
		Strength:    cfg.ShadowStrength,
		Distance:    cfg.ShadowDistance,
		Softness:    cfg.ShadowSoftness,
		Tint:        cfg.ShadowColorTint,
	}
}

// Threshold returns the minimum edge strength of an occluder.
func (f *ShadowFilter) Threshold() float64 { return float64(f.Sensitivity) / 500 }

// Apply implements Filter.
func (f *ShadowFilter) Apply(src, dst *effect.Frame, bounds image.Rectangle) {
	soft := 0
	if f.Softness > 1 {
		soft = f.Softness
	}
	luma := newLumaPlane(src, bounds, f.Distance+1+soft)
	defer luma.put()

	sh := shadowSampler{
		luma:      luma,
		interior:  src.Interior(),
		threshold: f.Threshold(),
		strength:  f.Strength,
		distance:  f.Distance,
	}

	forInterior(src, dst, bounds, func(x, y, i int) uint32 {
		amount := sh.amount(x, y)
		if amount <= 0 {
			return effect.RGB(src.Pix[i])
		}
		if soft > 0 {
			amount = sh.soften(x, y, soft, amount)
		}
		c := load(src, i).scale(1 - amount)
		if f.Tint {
			c.b *= shadowTintBlue
			c.r *= shadowTintRed
		}
		return c.pack()
	})
}

type shadowSampler struct {
	luma      *lumaPlane
	interior  image.Rectangle
	threshold float64
	strength  float64
	distance  int
}

func (s *shadowSampler) inside(x, y int) bool {
	return x >= s.interior.Min.X && x < s.interior.Max.X &&
		y >= s.interior.Min.Y && y < s.interior.Max.Y
}

// edge returns the gradient magnitude at an interior pixel.
func (s *shadowSampler) edge(x, y int) float64 {
	gx := s.luma.at(x+1, y) - s.luma.at(x-1, y)
	gy := s.luma.at(x, y+1) - s.luma.at(x, y-1)
	return math.Sqrt(gx*gx + gy*gy)
}

// amount returns the darkening fraction for the interior pixel (x, y).
func (s *shadowSampler) amount(x, y int) float64 {
	lp := s.luma.at(x, y)
	sum := 0.0
	for step := 1; step <= s.distance; step++ {
		qx, qy := x-step, y-step
		if !s.inside(qx, qy) {
			break
		}
		if lp >= s.luma.at(qx, qy)*shadowDarkerRatio {
			continue
		}
		e := s.edge(qx, qy)
		if e < s.threshold {
			continue
		}
		sum += e * (1 - float64(step-1)/float64(s.distance))
	}
	return math.Min(sum*s.strength, shadowMaxAmount)
}

// soften averages a shadowed pixel's amount with the mean amount of the four
// axis samples at the given radius. Unshadowed pixels never reach here, so
// softening does not spread shadows.
func (s *shadowSampler) soften(x, y, radius int, amount float64) float64 {
	var sum float64
	n := 0
	for _, d := range [4][2]int{{-radius, 0}, {radius, 0}, {0, -radius}, {0, radius}} {
		sx, sy := x+d[0], y+d[1]
		if !s.inside(sx, sy) {
			continue
		}
		sum += s.amount(sx, sy)
		n++
	}
	if n == 0 {
		return amount
	}
	return (amount + sum/float64(n)) / 2
}
