// Package postfx is a per-frame pixel post-processing engine.
//
// # Overview
//
// A host renderer hands postfx a full frame of packed 0x00RRGGBB samples
// once per frame. postfx applies, in a fixed order:
//
//   - anti-aliasing (Simple, FXAA, MSAA, TAA, or FXAA+TAA combined)
//   - brightness scaling
//   - a directional image-space shadow heuristic
//   - unsharp-mask sharpening
//
// and writes the result back into the same buffer.
//
// # Quick Start
//
//	shared := effect.NewShared(effect.Default())
//	shared.Update(func(c *effect.Config) { c.ApplyPreset(effect.PresetQuality) })
//
//	d := postfx.New(shared)
//	defer d.Close()
//
//	for frame := range frames {
//	    if err := d.ProcessPixels(frame.Pix, frame.W, frame.H); err != nil {
//	        return err // only ErrDimensionMismatch
//	    }
//	}
//
// # Backends
//
// Effects run on the CPU by default. Importing the gpu sub-package registers
// a Vulkan compute backend:
//
//	import _ "github.com/gogpu/postfx/gpu"
//
// The compute backend is created lazily on the first processed frame and is
// bound to the calling OS thread; keep the frame loop on a goroutine pinned
// with runtime.LockOSThread. If the backend cannot be created the dispatcher
// uses the CPU for the rest of the process.
//
// The CPU filters split each frame into horizontal bands processed on a
// worker pool; WithCPUWorkers sets its size.
//
// # Failure model
//
// Processing never fails a frame. Runtime failures leave the frame unchanged
// and are logged (see SetLogger). The only returned error is
// ErrDimensionMismatch, which indicates a caller bug.
//
// # Settings
//
// Configuration is read once per frame from an effect.Shared. A settings UI
// may publish a new snapshot at any time; the frame loop may observe the old
// snapshot for one more frame.
package postfx
