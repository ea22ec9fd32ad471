package filter

import (
	"image"
	"sync"

	"github.com/gogpu/postfx/effect"
)

// Filter is one stage of the effect chain.
type Filter interface {
	// Apply reads src and writes the pixels of dst inside bounds.
	// src and dst must have the same size and must not alias.
	Apply(src, dst *effect.Frame, bounds image.Rectangle)
}

// rgb holds normalized channels.
type rgb struct{ r, g, b float64 }

func load(f *effect.Frame, i int) rgb {
	r, g, b := effect.UnpackFloat(f.Pix[i])
	return rgb{r, g, b}
}

func (c rgb) pack() uint32 { return effect.PackFloat(c.r, c.g, c.b) }

func (c rgb) add(o rgb) rgb       { return rgb{c.r + o.r, c.g + o.g, c.b + o.b} }
func (c rgb) sub(o rgb) rgb       { return rgb{c.r - o.r, c.g - o.g, c.b - o.b} }
func (c rgb) scale(k float64) rgb { return rgb{c.r * k, c.g * k, c.b * k} }

// mix returns c moved towards o by t. mix(c, c, t) == c exactly.
func mix(c, o rgb, t float64) rgb {
	return rgb{c.r + (o.r-c.r)*t, c.g + (o.g-c.g)*t, c.b + (o.b-c.b)*t}
}

// forInterior calls fn for every pixel of bounds that lies inside the frame
// interior and copies the remaining pixels of bounds from src to dst with
// the upper byte cleared.
func forInterior(src, dst *effect.Frame, bounds image.Rectangle, fn func(x, y, i int) uint32) {
	r := bounds.Intersect(src.Bounds())
	in := src.Interior()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * src.Width
		inRow := y >= in.Min.Y && y < in.Max.Y
		for x := r.Min.X; x < r.Max.X; x++ {
			i := row + x
			if inRow && x >= in.Min.X && x < in.Max.X {
				dst.Pix[i] = fn(x, y, i)
			} else {
				dst.Pix[i] = effect.RGB(src.Pix[i])
			}
		}
	}
}

// copyRegion copies the pixels of bounds from src to dst, clearing the
// upper byte like every other stage output.
func copyRegion(src, dst *effect.Frame, bounds image.Rectangle) {
	r := bounds.Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		lo := y*src.Width + r.Min.X
		hi := y*src.Width + r.Max.X
		d := dst.Pix[lo:hi]
		for x, p := range src.Pix[lo:hi] {
			d[x] = effect.RGB(p)
		}
	}
}

// framePool holds scratch frames for ping-pong passes.
var framePool = sync.Pool{
	New: func() interface{} { return &effect.Frame{} },
}

func getFrame(like *effect.Frame) *effect.Frame {
	f := framePool.Get().(*effect.Frame)
	f.CopyFrom(like)
	return f
}

// getScratch returns a pooled frame of the given size with undefined
// contents.
func getScratch(w, h int) *effect.Frame {
	f := framePool.Get().(*effect.Frame)
	f.Resize(w, h)
	return f
}

func putFrame(f *effect.Frame) {
	// Only pool frames up to 4K.
	if cap(f.Pix) <= 4096*2160 {
		framePool.Put(f)
	}
}

// clampInt clamps an integer to [minVal, maxVal].
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
