package filter

import (
	"image"
	"testing"

	"github.com/gogpu/postfx/effect"
)

func applyFull(f Filter, src *effect.Frame) *effect.Frame {
	dst := src.Clone()
	f.Apply(src, dst, src.Bounds())
	return dst
}

func TestAntiAliasUniformFrameUnchanged(t *testing.T) {
	src := createTestFrame(12, 10, 90)
	history := createTestFrame(12, 10, 90)
	filters := map[string]Filter{
		"simple":   &SimpleAAFilter{Strength: 1},
		"fxaa":     &FXAAFilter{Strength: 1},
		"msaa":     &MSAAFilter{Strength: 1, Samples: 16},
		"taa":      &TAAFilter{Strength: 1, History: history},
		"combined": &CombinedFilter{Strength: 1, History: history},
	}
	for name, f := range filters {
		t.Run(name, func(t *testing.T) {
			if got := applyFull(f, src); !framesEqual(got, src) {
				t.Error("uniform frame changed")
			}
		})
	}
}

func TestAntiAliasZeroStrengthUnchanged(t *testing.T) {
	src := createNoiseFrame(12, 10, 2)
	history := createNoiseFrame(12, 10, 3)
	for _, typ := range effect.AATypes {
		cfg := effect.Default()
		cfg.AntiAliasing = true
		cfg.AntiAliasingType = typ
		cfg.AntiAliasingStrength = 0
		f := NewAntiAliasFilter(&cfg, history)
		if got := applyFull(f, src); !framesEqual(got, src) {
			t.Errorf("%s with strength 0 changed the frame", typ)
		}
	}
}

func TestSimpleAABlursSpike(t *testing.T) {
	src := createTestFrame(5, 5, 0)
	src.SetPixel(2, 2, effect.Pack(250, 250, 250))
	got := applyFull(&SimpleAAFilter{Strength: 1}, src)

	if c := got.PixelAt(2, 2); c != effect.Pack(50, 50, 50) {
		t.Errorf("center = %#06x, want 50 gray", c)
	}
	if c := got.PixelAt(2, 1); c != effect.Pack(50, 50, 50) {
		t.Errorf("north neighbour = %#06x, want 50 gray", c)
	}
}

func TestFXAABlendsAlongEdge(t *testing.T) {
	// Horizontal stripe: row 2 bright, others dark. The vertical gradient is
	// high and the horizontal one zero, so FXAA blends horizontally and the
	// stripe stays unchanged.
	src := createTestFrame(6, 5, 10)
	for x := 0; x < 6; x++ {
		src.SetPixel(x, 2, effect.Pack(200, 200, 200))
	}
	got := applyFull(&FXAAFilter{Strength: 1}, src)
	if c := got.PixelAt(2, 2); c != src.PixelAt(2, 2) {
		t.Errorf("stripe pixel = %#06x, want unchanged %#06x", c, src.PixelAt(2, 2))
	}

	// A lone bright pixel has equal gradients; FXAA blends horizontally
	// with (w + 2c + e)/4.
	spike := createTestFrame(5, 5, 0)
	spike.SetPixel(2, 2, effect.Pack(200, 200, 200))
	got = applyFull(&FXAAFilter{Strength: 1}, spike)
	if c := got.PixelAt(2, 2); c != effect.Pack(100, 100, 100) {
		t.Errorf("spike = %#06x, want 100 gray", c)
	}
}

func TestFXAASkipsLowContrast(t *testing.T) {
	src := createTestFrame(5, 5, 100)
	src.SetPixel(2, 2, effect.Pack(104, 104, 104))
	got := applyFull(&FXAAFilter{Strength: 1}, src)
	if !framesEqual(got, src) {
		t.Error("low contrast pixel was modified")
	}
}

func TestMSAASideOneIsIdentity(t *testing.T) {
	src := createNoiseFrame(8, 8, 11)
	got := applyFull(&MSAAFilter{Strength: 1, Samples: 2}, src)
	if !framesEqual(got, src) {
		t.Error("MSAA with 2 samples (side 1) changed the frame")
	}
}

func TestMSAAKernel(t *testing.T) {
	tests := []struct {
		side        int
		taps        int
		minX, maxX  int
		centerFound bool
	}{
		{1, 1, 0, 0, true},
		{2, 4, -1, 0, true},
		{3, 9, -1, 1, true},
		{4, 16, -2, 1, true},
	}
	for _, tt := range tests {
		k := msaaKernel(tt.side)
		if len(k) != tt.taps {
			t.Errorf("side %d: %d taps, want %d", tt.side, len(k), tt.taps)
		}
		lo, hi := 0, 0
		for _, tp := range k {
			lo, hi = min(lo, tp.dx), max(hi, tp.dx)
			if want := 1 / float64(1+absInt(tp.dx)+absInt(tp.dy)); tp.w != want {
				t.Errorf("side %d tap (%d,%d) weight %v, want %v", tt.side, tp.dx, tp.dy, tp.w, want)
			}
		}
		if lo != tt.minX || hi != tt.maxX {
			t.Errorf("side %d: dx range [%d,%d], want [%d,%d]", tt.side, lo, hi, tt.minX, tt.maxX)
		}
	}
	if &cachedMSAAKernel(3)[0] != &cachedMSAAKernel(3)[0] {
		t.Error("cachedMSAAKernel did not reuse the kernel")
	}
}

func TestTAAIdenticalFrameIsIdentity(t *testing.T) {
	src := createNoiseFrame(16, 16, 21)
	f := &TAAFilter{Strength: 1, History: src.Clone()}
	if got := applyFull(f, src); !framesEqual(got, src) {
		t.Error("blending a frame with itself changed it")
	}
}

func TestTAABlendsTowardsHistory(t *testing.T) {
	src := createTestFrame(4, 4, 200)
	hist := createTestFrame(4, 4, 100)
	got := applyFull(&TAAFilter{Strength: 1, History: hist}, src)
	// 200 + (100-200)*0.1 = 190
	if c := got.PixelAt(1, 1); c != effect.Pack(190, 190, 190) {
		t.Errorf("blended = %#06x, want 190 gray", c)
	}
}

func TestTAAWithoutMatchingHistoryCopies(t *testing.T) {
	src := createNoiseFrame(8, 8, 4)
	for _, hist := range []*effect.Frame{nil, createTestFrame(4, 4, 0)} {
		got := applyFull(&TAAFilter{Strength: 1, History: hist}, src)
		if !framesEqual(got, src) {
			t.Error("TAA without a same-size history changed the frame")
		}
	}
}

func TestCombinedIsFXAAThenTAA(t *testing.T) {
	src := createNoiseFrame(10, 10, 8)
	hist := createNoiseFrame(10, 10, 9)

	want := applyFull(&TAAFilter{Strength: 0.7, History: hist}, applyFull(&FXAAFilter{Strength: 0.7}, src))
	got := applyFull(&CombinedFilter{Strength: 0.7, History: hist}, src)
	if !framesEqual(got, want) {
		t.Error("Combined differs from FXAA followed by TAA")
	}
}

func TestCombinedBandsMatchFullFrame(t *testing.T) {
	src := createNoiseFrame(20, 30, 5)
	history := createNoiseFrame(20, 30, 6)
	filter := &CombinedFilter{Strength: 0.8, History: history}
	want := applyFull(filter, src)

	got := effect.NewFrame(20, 30)
	for _, band := range []image.Rectangle{
		image.Rect(0, 0, 20, 7),
		image.Rect(0, 7, 20, 8),
		image.Rect(0, 8, 20, 30),
	} {
		filter.Apply(src, got, band)
	}
	if !framesEqual(got, want) {
		t.Error("banded COMBINED differs from the full-frame result")
	}
}
