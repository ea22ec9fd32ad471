package filter

import (
	"image"

	"github.com/gogpu/postfx/effect"
)

// cross holds a pixel and its four axis neighbours.
type cross struct {
	c, n, s, w, e rgb
}

// loadCross reads the 4-neighbourhood of an interior pixel at index i.
func loadCross(f *effect.Frame, i int) cross {
	return cross{
		c: load(f, i),
		n: load(f, i-f.Width),
		s: load(f, i+f.Width),
		w: load(f, i-1),
		e: load(f, i+1),
	}
}

// boxAverage is the unweighted mean of the five samples.
func (x cross) boxAverage() rgb {
	return x.c.add(x.n).add(x.s).add(x.w).add(x.e).scale(1.0 / 5)
}

// centerWeighted is (4c + n + s + w + e) / 8.
func (x cross) centerWeighted() rgb {
	return x.c.scale(4).add(x.n).add(x.s).add(x.w).add(x.e).scale(1.0 / 8)
}

// SimpleAAFilter blends each pixel with a 5-point box blur.
type SimpleAAFilter struct {
	// Strength is the blend factor towards the blurred value, in [0, 1].
	Strength float64
}

// Apply implements Filter.
func (f *SimpleAAFilter) Apply(src, dst *effect.Frame, bounds image.Rectangle) {
	forInterior(src, dst, bounds, func(_, _, i int) uint32 {
		x := loadCross(src, i)
		return mix(x.c, x.boxAverage(), f.Strength).pack()
	})
}

// SharpenFilter is an unsharp mask: the difference between a pixel and its
// center-weighted blur is added back, scaled by Strength/2.
type SharpenFilter struct {
	Strength float64
}

// Apply implements Filter.
func (f *SharpenFilter) Apply(src, dst *effect.Frame, bounds image.Rectangle) {
	k := f.Strength * 0.5
	forInterior(src, dst, bounds, func(_, _, i int) uint32 {
		x := loadCross(src, i)
		detail := x.c.sub(x.centerWeighted())
		return x.c.add(detail.scale(k)).pack()
	})
}
