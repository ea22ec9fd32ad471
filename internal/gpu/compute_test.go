// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"runtime"
	"testing"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/effect"
	"github.com/gogpu/postfx/internal/filter"
)

// newTestBackend creates a backend on the calling (locked) thread or skips.
func newTestBackend(t *testing.T) *ComputeBackend {
	t.Helper()
	b, err := New()
	if err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

func gradientFrame(w, h int) *effect.Frame {
	f := effect.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := uint8(x * 255 / max(w-1, 1))
			g := uint8(y * 255 / max(h-1, 1))
			b := uint8((x*7 + y*13) % 256)
			f.SetPixel(x, y, effect.Pack(r, g, b))
		}
	}
	return f
}

func assertWithinOne(t *testing.T, got, want *effect.Frame) {
	t.Helper()
	for i := range want.Pix {
		gr, gg, gb := effect.Unpack(got.Pix[i])
		wr, wg, wb := effect.Unpack(want.Pix[i])
		if absDiff(gr, wr) > 1 || absDiff(gg, wg) > 1 || absDiff(gb, wb) > 1 {
			t.Fatalf("pixel %d (%d,%d) = %#06x, CPU %#06x", i, i%want.Width, i/want.Width, got.Pix[i], want.Pix[i])
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestComputeMatchesCPUBrightness(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	b := newTestBackend(t)

	cfg := effect.Default()
	cfg.Brightness = true
	cfg.BrightnessLevel = 120

	src := gradientFrame(37, 23)
	gpuFrame, cpuFrame := src.Clone(), src.Clone()
	if err := b.Process(gpuFrame, nil, &cfg); err != nil {
		t.Fatalf("Process() = %v", err)
	}
	if err := filter.NewBackend().Process(cpuFrame, nil, &cfg); err != nil {
		t.Fatalf("CPU Process() = %v", err)
	}
	assertWithinOne(t, gpuFrame, cpuFrame)
}

func TestComputeMatchesCPUEffects(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	b := newTestBackend(t)

	configs := map[string]func(*effect.Config){
		"simple": func(c *effect.Config) { c.AntiAliasing, c.AntiAliasingType = true, effect.AASimple },
		"msaa": func(c *effect.Config) {
			c.AntiAliasing, c.AntiAliasingType, c.AntiAliasingMode = true, effect.AAMSAA, 16
		},
		"sharpen": func(c *effect.Config) { c.Sharpening, c.SharpeningStrength = true, 1 },
	}
	src := gradientFrame(40, 30)
	for name, apply := range configs {
		t.Run(name, func(t *testing.T) {
			cfg := effect.Default()
			apply(&cfg)
			gpuFrame, cpuFrame := src.Clone(), src.Clone()
			if err := b.Process(gpuFrame, nil, &cfg); err != nil {
				t.Fatalf("Process() = %v", err)
			}
			_ = filter.NewBackend().Process(cpuFrame, nil, &cfg)
			assertWithinOne(t, gpuFrame, cpuFrame)
		})
	}
}

func TestComputeTAAIdentity(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	b := newTestBackend(t)

	cfg := effect.Default()
	cfg.AntiAliasing, cfg.AntiAliasingType, cfg.AntiAliasingStrength = true, effect.AATAA, 1

	src := gradientFrame(32, 32)
	f := src.Clone()
	if err := b.Process(f, src, &cfg); err != nil {
		t.Fatalf("Process() = %v", err)
	}
	for i := range src.Pix {
		if f.Pix[i] != src.Pix[i] {
			t.Fatalf("Pix[%d] = %#06x, want %#06x", i, f.Pix[i], src.Pix[i])
		}
	}
}

func TestComputeResize(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	b := newTestBackend(t)

	cfg := effect.Default()
	cfg.Brightness, cfg.BrightnessLevel = true, 150
	for _, size := range [][2]int{{16, 16}, {33, 7}, {16, 16}} {
		f := effect.NewFrame(size[0], size[1])
		f.Fill(effect.Pack(100, 100, 100))
		if err := b.Process(f, nil, &cfg); err != nil {
			t.Fatalf("Process(%dx%d) = %v", size[0], size[1], err)
		}
		if w, h := b.Size(); w != size[0] || h != size[1] {
			t.Errorf("Size() = %dx%d, want %dx%d", w, h, size[0], size[1])
		}
		if f.Pix[0] != effect.Pack(150, 150, 150) {
			t.Errorf("Pix[0] = %#06x, want 150 gray", f.Pix[0])
		}
	}
	if b.State() != StateReady {
		t.Errorf("State() = %v, want ready", b.State())
	}
}

func TestComputeWrongThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	b := newTestBackend(t)

	cfg := effect.Default()
	cfg.Brightness, cfg.BrightnessLevel = true, 150
	f := effect.NewFrame(8, 8)
	f.Fill(effect.Pack(100, 100, 100))

	errc := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		errc <- b.Process(f, nil, &cfg)
	}()
	if err := <-errc; !errors.Is(err, postfx.ErrWrongThread) {
		t.Fatalf("Process() from foreign thread = %v, want ErrWrongThread", err)
	}
	if f.Pix[0] != effect.Pack(100, 100, 100) {
		t.Error("frame modified by a rejected call")
	}
}

func TestComputeClosed(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	b := newTestBackend(t)
	b.Close()
	b.Close()

	if b.State() != StateDisposed {
		t.Errorf("State() = %v, want disposed", b.State())
	}
	cfg := effect.Default()
	cfg.Brightness, cfg.BrightnessLevel = true, 150
	if err := b.Process(effect.NewFrame(4, 4), nil, &cfg); !errors.Is(err, postfx.ErrClosed) {
		t.Errorf("Process() after Close = %v, want ErrClosed", err)
	}
}

func TestSetDeviceProviderRejectsNonHAL(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	b := newTestBackend(t)

	if err := b.SetDeviceProvider(nil); err == nil {
		t.Error("SetDeviceProvider(nil) succeeded")
	}
	if b.State() != StateFailed {
		t.Errorf("State() = %v, want failed", b.State())
	}
}

func TestComputeClearsUpperByteLikeCPU(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	b := newTestBackend(t)

	src := gradientFrame(12, 10)
	for i := range src.Pix {
		src.Pix[i] |= 0xFF000000
	}
	for _, aa := range []effect.AAType{effect.AAFXAA, effect.AATAA} {
		cfg := effect.Default()
		cfg.AntiAliasing, cfg.AntiAliasingType = true, aa

		gpuFrame, cpuFrame := src.Clone(), src.Clone()
		if err := b.Process(gpuFrame, nil, &cfg); err != nil {
			t.Fatalf("%s: Process() = %v", aa, err)
		}
		if err := filter.NewBackend().Process(cpuFrame, nil, &cfg); err != nil {
			t.Fatalf("%s: CPU Process() = %v", aa, err)
		}
		for i := range gpuFrame.Pix {
			if gpuFrame.Pix[i]>>24 != 0 || cpuFrame.Pix[i]>>24 != 0 {
				t.Fatalf("%s: pixel %d upper byte kept: gpu %#08x cpu %#08x", aa, i, gpuFrame.Pix[i], cpuFrame.Pix[i])
			}
		}
		assertWithinOne(t, gpuFrame, cpuFrame)
	}
}
