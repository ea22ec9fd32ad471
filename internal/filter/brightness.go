package filter

import (
	"image"

	"github.com/gogpu/postfx/effect"
)

// BrightnessFilter scales every channel by Level/100.
// It does not sample neighbours, so border pixels are scaled too.
type BrightnessFilter struct {
	// Level is a percentage; 100 leaves the image unchanged.
	Level int
}

// Factor returns the channel multiplier.
func (f *BrightnessFilter) Factor() float64 { return float64(f.Level) / 100 }

// Apply implements Filter.
func (f *BrightnessFilter) Apply(src, dst *effect.Frame, bounds image.Rectangle) {
	if f.Level == 100 {
		copyRegion(src, dst, bounds)
		return
	}
	k := f.Factor()
	r := bounds.Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for i := y*src.Width + r.Min.X; i < y*src.Width+r.Max.X; i++ {
			dst.Pix[i] = load(src, i).scale(k).pack()
		}
	}
}
