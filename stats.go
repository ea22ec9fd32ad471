package postfx

import "sync/atomic"

// SkipReason says why a frame was passed through unchanged.
type SkipReason int

const (
	SkipDisabled    SkipReason = iota // master switch off
	SkipHostState                     // host not interactive
	SkipEmptyFrame                    // probe found only empty samples
	SkipNoEffect                      // no effect would change a pixel
	SkipWrongThread                   // compute backend called off its thread
	SkipFailed                        // backend error
	SkipClosed                        // dispatcher closed
	numSkipReasons
)

var skipNames = [numSkipReasons]string{
	"disabled", "host-state", "empty-frame", "no-effect", "wrong-thread", "failed", "closed",
}

// String returns the reason name.
func (r SkipReason) String() string {
	if r < 0 || r >= numSkipReasons {
		return "unknown"
	}
	return skipNames[r]
}

// Stats holds dispatcher counters.
type Stats struct {
	Frames    uint64 // Process calls with a valid frame
	Processed uint64 // frames changed by a backend
	GPU       uint64 // frames processed by the compute backend
	CPU       uint64 // frames processed on the CPU
	Fallbacks uint64 // ErrFallbackToCPU answers from the compute backend
	Skipped   [numSkipReasons]uint64

	// Backend names the backend that processed the last frame.
	Backend string
}

// SkippedTotal returns the number of skipped frames over all reasons.
func (s Stats) SkippedTotal() uint64 {
	var n uint64
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

type counters struct {
	frames    atomic.Uint64
	processed atomic.Uint64
	gpu       atomic.Uint64
	cpu       atomic.Uint64
	fallbacks atomic.Uint64
	skipped   [numSkipReasons]atomic.Uint64
	backend   atomic.Pointer[string]
}

func (c *counters) snapshot() Stats {
	s := Stats{
		Frames:    c.frames.Load(),
		Processed: c.processed.Load(),
		GPU:       c.gpu.Load(),
		CPU:       c.cpu.Load(),
		Fallbacks: c.fallbacks.Load(),
	}
	for i := range c.skipped {
		s.Skipped[i] = c.skipped[i].Load()
	}
	if name := c.backend.Load(); name != nil {
		s.Backend = *name
	}
	return s
}
