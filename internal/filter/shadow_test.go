package filter

import (
	"testing"

	"github.com/gogpu/postfx/effect"
)

func TestShadowVerticalEdge(t *testing.T) {
	const (
		w, h  = 40, 40
		edgeX = 20
	)
	// Left half luminance ~0.9, right half ~0.1.
	src := createVerticalEdge(w, h, edgeX, 230, 26)

	for _, dist := range []int{1, 3, 6} {
		f := &ShadowFilter{Sensitivity: 80, Strength: 1, Distance: dist, Softness: 1}
		got := applyFull(f, src)

		for y := 10; y < 30; y++ {
			for x := 1; x < w-1; x++ {
				before, after := src.PixelAt(x, y), got.PixelAt(x, y)
				shadowed := x >= edgeX && x < edgeX+dist
				if shadowed && effect.Luma(after) >= effect.Luma(before) {
					t.Errorf("distance %d: pixel (%d,%d) not darkened: %#06x -> %#06x", dist, x, y, before, after)
				}
				if !shadowed && after != before {
					t.Errorf("distance %d: pixel (%d,%d) changed: %#06x -> %#06x", dist, x, y, before, after)
				}
			}
		}
	}
}

func TestShadowFalloff(t *testing.T) {
	src := createVerticalEdge(30, 30, 10, 230, 120)
	got := applyFull(&ShadowFilter{Sensitivity: 20, Strength: 0.3, Distance: 4, Softness: 1}, src)
	prev := 2.0
	for x := 10; x < 14; x++ {
		l := effect.Luma(got.PixelAt(x, 15))
		if l >= effect.Luma(src.PixelAt(x, 15)) {
			t.Errorf("x=%d not darkened", x)
		}
		darkening := effect.Luma(src.PixelAt(x, 15)) - l
		if darkening > prev {
			t.Errorf("x=%d darkening %v grows with distance (prev %v)", x, darkening, prev)
		}
		prev = darkening
	}
}

func TestShadowCappedAtHalf(t *testing.T) {
	src := createVerticalEdge(20, 20, 8, 255, 100)
	got := applyFull(&ShadowFilter{Sensitivity: 20, Strength: 1, Distance: 6, Softness: 1}, src)
	r, _, _ := effect.Unpack(got.PixelAt(8, 10))
	if r < 50 {
		t.Errorf("darkened red = %d, want >= 50 (50%% cap)", r)
	}
}

func TestShadowSensitivityThreshold(t *testing.T) {
	// Luminance step of ~0.2 is above 20/500 but below 150/500.
	src := createVerticalEdge(20, 20, 8, 120, 70)
	low := applyFull(&ShadowFilter{Sensitivity: 20, Strength: 1, Distance: 2, Softness: 1}, src)
	high := applyFull(&ShadowFilter{Sensitivity: 150, Strength: 1, Distance: 2, Softness: 1}, src)
	if framesEqual(low, src) {
		t.Error("sensitive filter cast no shadow")
	}
	if !framesEqual(high, src) {
		t.Error("insensitive filter cast a shadow")
	}
}

func TestShadowTint(t *testing.T) {
	src := createVerticalEdge(20, 20, 8, 230, 100)
	plain := applyFull(&ShadowFilter{Sensitivity: 40, Strength: 0.5, Distance: 2, Softness: 1}, src)
	tinted := applyFull(&ShadowFilter{Sensitivity: 40, Strength: 0.5, Distance: 2, Softness: 1, Tint: true}, src)

	pr, _, pb := effect.Unpack(plain.PixelAt(8, 10))
	tr, _, tb := effect.Unpack(tinted.PixelAt(8, 10))
	if tb <= pb || tr >= pr {
		t.Errorf("tinted (r=%d b=%d) vs plain (r=%d b=%d): want more blue, less red", tr, tb, pr, pb)
	}
	// Unshadowed pixels keep their color.
	if tinted.PixelAt(3, 10) != src.PixelAt(3, 10) {
		t.Error("tint changed an unshadowed pixel")
	}
}

func TestShadowSoftnessDoesNotSpread(t *testing.T) {
	src := createVerticalEdge(30, 30, 12, 230, 26)
	got := applyFull(&ShadowFilter{Sensitivity: 80, Strength: 1, Distance: 2, Softness: 4}, src)
	for y := 8; y < 22; y++ {
		for _, x := range []int{11, 14, 15, 20} {
			if got.PixelAt(x, y) != src.PixelAt(x, y) {
				t.Errorf("pixel (%d,%d) outside the shadow changed", x, y)
			}
		}
		if effect.Luma(got.PixelAt(12, y)) >= effect.Luma(src.PixelAt(12, y)) {
			t.Errorf("pixel (12,%d) not darkened", y)
		}
	}
}
