package filter

import (
	"image"
	"sync"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/gogpu/postfx/effect"
)

// lumaPlane caches normalized luminance for a rectangle of a frame.
type lumaPlane struct {
	rect   image.Rectangle
	stride int
	data   []float64

	// row scratch: channels and weighted channels
	r, g, b    []float64
	wr, wg, wb []float64
	tr, tg     []float64
}

var lumaPool = sync.Pool{
	New: func() interface{} { return &lumaPlane{} },
}

// newLumaPlane computes luminance for bounds grown by margin, clipped to the
// frame. Release the plane with put.
func newLumaPlane(f *effect.Frame, bounds image.Rectangle, margin int) *lumaPlane {
	p := lumaPool.Get().(*lumaPlane)
	p.build(f, bounds.Inset(-margin).Intersect(f.Bounds()))
	return p
}

func (p *lumaPlane) put() { lumaPool.Put(p) }

func (p *lumaPlane) build(f *effect.Frame, rect image.Rectangle) {
	p.rect = rect
	p.stride = rect.Dx()
	w, h := rect.Dx(), rect.Dy()
	p.data = grow(p.data, w*h)
	if w == 0 {
		return
	}

	if len(p.wr) != w {
		p.wr, p.wg, p.wb = grow(p.wr, w), grow(p.wg, w), grow(p.wb, w)
		for i := 0; i < w; i++ {
			p.wr[i] = effect.LumaR / 255
			p.wg[i] = effect.LumaG / 255
			p.wb[i] = effect.LumaB / 255
		}
	}
	p.r, p.g, p.b = grow(p.r, w), grow(p.g, w), grow(p.b, w)
	p.tr, p.tg = grow(p.tr, w), grow(p.tg, w)

	for y := 0; y < h; y++ {
		src := f.Pix[(rect.Min.Y+y)*f.Width+rect.Min.X:]
		for x := 0; x < w; x++ {
			r, g, b := effect.Unpack(src[x])
			p.r[x], p.g[x], p.b[x] = float64(r), float64(g), float64(b)
		}
		out := p.data[y*w : (y+1)*w]
		vecmath.MulBlock(p.tr, p.r, p.wr)
		vecmath.MulBlock(p.tg, p.g, p.wg)
		vecmath.MulBlock(out, p.b, p.wb)
		for x := range out {
			out[x] += p.tr[x] + p.tg[x]
		}
	}
}

// at returns the luminance at absolute frame coordinates inside the plane.
func (p *lumaPlane) at(x, y int) float64 {
	return p.data[(y-p.rect.Min.Y)*p.stride+x-p.rect.Min.X]
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
