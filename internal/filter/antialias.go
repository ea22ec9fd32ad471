package filter

import (
	"image"
	"math"

	"github.com/gogpu/postfx/effect"
)

// fxaaEdgeThreshold is the relative contrast below which FXAA leaves a
// pixel alone.
const fxaaEdgeThreshold = 0.125

// FXAAFilter smooths pixels on luminance edges by blending along the axis
// with the lower luminance gradient.
type FXAAFilter struct {
	Strength float64
}

// Apply implements Filter.
func (f *FXAAFilter) Apply(src, dst *effect.Frame, bounds image.Rectangle) {
	luma := newLumaPlane(src, bounds, 1)
	defer luma.put()

	forInterior(src, dst, bounds, func(x, y, i int) uint32 {
		return f.pixel(src, luma, x, y, i)
	})
}

func (f *FXAAFilter) pixel(src *effect.Frame, luma *lumaPlane, x, y, i int) uint32 {
	lc := luma.at(x, y)
	ln := luma.at(x, y-1)
	ls := luma.at(x, y+1)
	lw := luma.at(x-1, y)
	le := luma.at(x+1, y)

	maxL := math.Max(lc, math.Max(math.Max(ln, ls), math.Max(lw, le)))
	minL := math.Min(lc, math.Min(math.Min(ln, ls), math.Min(lw, le)))
	if maxL-minL < math.Max(fxaaEdgeThreshold*f.Strength, maxL*fxaaEdgeThreshold) {
		return effect.RGB(src.Pix[i])
	}

	c := load(src, i)
	var a, b rgb
	if math.Abs(le-lw) <= math.Abs(ls-ln) {
		a, b = load(src, i-1), load(src, i+1)
	} else {
		a, b = load(src, i-src.Width), load(src, i+src.Width)
	}
	blend := a.add(c.scale(2)).add(b).scale(0.25)
	return mix(c, blend, f.Strength).pack()
}

// MSAAFilter approximates multisampling with a distance-weighted square
// kernel whose side is round(sqrt(Samples)).
type MSAAFilter struct {
	Strength float64
	Samples  int
}

// Side returns the kernel side for the configured sample count.
func (f *MSAAFilter) Side() int {
	cfg := effect.Config{AntiAliasingMode: f.Samples}
	return cfg.MSAASide()
}

// Apply implements Filter.
func (f *MSAAFilter) Apply(src, dst *effect.Frame, bounds image.Rectangle) {
	kernel := cachedMSAAKernel(f.Side())
	maxX, maxY := src.Width-1, src.Height-1
	forInterior(src, dst, bounds, func(x, y, i int) uint32 {
		var sum rgb
		var wsum float64
		for _, t := range kernel {
			sx := clampInt(x+t.dx, 0, maxX)
			sy := clampInt(y+t.dy, 0, maxY)
			sum = sum.add(load(src, sy*src.Width+sx).scale(t.w))
			wsum += t.w
		}
		return mix(load(src, i), sum.scale(1/wsum), f.Strength).pack()
	})
}

// TAAFilter blends each pixel with the same pixel of the previous frame.
// Without a same-size History the pixels are copied unchanged.
type TAAFilter struct {
	Strength float64
	History  *effect.Frame
}

// Blend returns the weight of the previous frame.
func (f *TAAFilter) Blend() float64 { return 0.1 * f.Strength }

// Apply implements Filter.
func (f *TAAFilter) Apply(src, dst *effect.Frame, bounds image.Rectangle) {
	if !src.SameSize(f.History) {
		copyRegion(src, dst, bounds)
		return
	}
	t := f.Blend()
	forInterior(src, dst, bounds, func(_, _, i int) uint32 {
		return mix(load(src, i), load(f.History, i), t).pack()
	})
}

// CombinedFilter runs FXAA and blends the result with the previous frame
// at the TAA weight.
type CombinedFilter struct {
	Strength float64
	History  *effect.Frame
}

// Apply implements Filter.
func (f *CombinedFilter) Apply(src, dst *effect.Frame, bounds image.Rectangle) {
	fxaa := FXAAFilter{Strength: f.Strength}
	if !src.SameSize(f.History) {
		fxaa.Apply(src, dst, bounds)
		return
	}

	// FXAA writes every pixel of bounds and TAA reads only those, so the
	// scratch frame needs no copy of src.
	tmp := getScratch(src.Width, src.Height)
	defer putFrame(tmp)
	fxaa.Apply(src, tmp, bounds)

	taa := TAAFilter{Strength: f.Strength, History: f.History}
	taa.Apply(tmp, dst, bounds)
}

// NewAntiAliasFilter returns the filter for the configured algorithm.
func NewAntiAliasFilter(cfg *effect.Config, history *effect.Frame) Filter {
	s := cfg.AntiAliasingStrength
	switch cfg.AntiAliasingType {
	case effect.AASimple:
		return &SimpleAAFilter{Strength: s}
	case effect.AAMSAA:
		return &MSAAFilter{Strength: s, Samples: cfg.AntiAliasingMode}
	case effect.AATAA:
		return &TAAFilter{Strength: s, History: history}
	case effect.AACombined:
		return &CombinedFilter{Strength: s, History: history}
	default:
		return &FXAAFilter{Strength: s}
	}
}
