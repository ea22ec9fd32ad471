package filter

import (
	"math/rand"

	"github.com/gogpu/postfx/effect"
)

// Test helper functions shared across filter tests.

// createTestFrame creates a frame filled with one gray level.
func createTestFrame(w, h int, gray uint8) *effect.Frame {
	f := effect.NewFrame(w, h)
	f.Fill(effect.Pack(gray, gray, gray))
	return f
}

// createNoiseFrame creates a deterministic random frame.
func createNoiseFrame(w, h int, seed int64) *effect.Frame {
	rng := rand.New(rand.NewSource(seed))
	f := effect.NewFrame(w, h)
	for i := range f.Pix {
		f.Pix[i] = rng.Uint32() & 0xFFFFFF
	}
	return f
}

// createVerticalEdge creates a frame whose columns left of edgeX are
// bright and the rest dark.
func createVerticalEdge(w, h, edgeX int, bright, dark uint8) *effect.Frame {
	f := effect.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := dark
			if x < edgeX {
				v = bright
			}
			f.SetPixel(x, y, effect.Pack(v, v, v))
		}
	}
	return f
}

// framesEqual reports whether two frames hold the same samples.
func framesEqual(a, b *effect.Frame) bool {
	if !a.SameSize(b) {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

// channelDelta returns the largest per-channel difference of two samples.
func channelDelta(a, b uint32) int {
	ar, ag, ab := effect.Unpack(a)
	br, bg, bb := effect.Unpack(b)
	d := absInt(int(ar) - int(br))
	d = max(d, absInt(int(ag)-int(bg)))
	return max(d, absInt(int(ab)-int(bb)))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
