package main

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/postfx/effect"
)

// upperHalf draws the top pixel as foreground and the bottom as background.
const upperHalf = '▀'

// renderScene draws a moving disc and a rotating bar over a gradient at
// time t seconds. Edges are hard so anti-aliasing has work to do.
func renderScene(f *effect.Frame, t float64) {
	w, h := f.Width, f.Height
	if w == 0 || h == 0 {
		return
	}
	fw, fh := float64(w), float64(h)
	cx := fw * (0.5 + 0.3*math.Sin(t*0.7))
	cy := fh * 0.5
	r := math.Min(fw, fh) * 0.25

	bx, by := fw*0.5, fh*0.5
	sin, cos := math.Sincos(t * 0.5)
	half := math.Min(fw, fh) * 0.06

	for y := 0; y < h; y++ {
		bg := uint8(30 + 70*y/h)
		row := y * w
		for x := 0; x < w; x++ {
			p := effect.Pack(bg/3, bg/2, bg)

			// Perpendicular distance from the bar's center line.
			dx, dy := float64(x)-bx, float64(y)-by
			if math.Abs(-sin*dx+cos*dy) < half {
				p = effect.Pack(210, 210, 220)
			}
			dx, dy = float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r {
				p = effect.Pack(240, 190, 50)
			}
			f.Pix[row+x] = p
		}
	}
}

// drawFrame paints f onto the screen, two rows of pixels per cell row.
func drawFrame(s tcell.Screen, f *effect.Frame) {
	for y := 0; y+1 < f.Height; y += 2 {
		for x := 0; x < f.Width; x++ {
			top := f.Pix[y*f.Width+x]
			bottom := f.Pix[(y+1)*f.Width+x]
			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			s.SetContent(x, y/2, upperHalf, nil, style)
		}
	}
}

func drawStatus(s tcell.Screen, row int, text string) {
	cols, _ := s.Size()
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range text {
		if x >= cols {
			break
		}
		s.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < cols; x++ {
		s.SetContent(x, row, ' ', nil, style)
	}
}

func rgb(p uint32) tcell.Color {
	r, g, b := effect.Unpack(p)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
