package postfx

import (
	"errors"
	"sync"

	"github.com/gogpu/postfx/effect"
)

var (
	// ErrFallbackToCPU indicates the compute backend cannot handle this
	// frame. The dispatcher runs the CPU path for it instead.
	ErrFallbackToCPU = errors.New("postfx: falling back to CPU processing")

	// ErrWrongThread indicates a compute backend was used from a thread
	// other than the one that created its GPU context. The frame is skipped.
	ErrWrongThread = errors.New("postfx: compute backend used from a foreign thread")

	// ErrClosed indicates use of a backend after Close.
	ErrClosed = errors.New("postfx: backend closed")

	// ErrDimensionMismatch reports a pixel slice whose length is not
	// width*height.
	ErrDimensionMismatch = effect.ErrDimensionMismatch
)

// Backend runs the effect chain on one frame.
//
// Implementations are provided by the internal CPU filters and by GPU
// packages. Users opt in to GPU processing via blank import:
//
//	import _ "github.com/gogpu/postfx/gpu" // enables GPU compute
type Backend interface {
	// Name returns the backend name (e.g. "cpu", "vulkan").
	Name() string

	// Process applies the effects enabled in cfg to f in place.
	// prev is the previous input frame for temporal anti-aliasing, or nil.
	// On error f must be left unchanged.
	Process(f, prev *effect.Frame, cfg *effect.Config) error

	// Close releases backend resources.
	Close()
}

// Factory creates a compute backend. It is called lazily on the frame
// thread the first time a dispatcher needs one.
type Factory func() (Backend, error)

var (
	factoryMu sync.RWMutex
	factory   Factory
)

// RegisterComputeBackend registers the factory dispatchers use to create
// their compute backend. Subsequent calls replace the previous factory;
// nil unregisters it.
//
// Typical usage from a GPU package:
//
//	func init() {
//	    postfx.RegisterComputeBackend(newBackend)
//	}
func RegisterComputeBackend(f Factory) {
	factoryMu.Lock()
	factory = f
	factoryMu.Unlock()
}

// ComputeFactory returns the registered factory, or nil if none.
func ComputeFactory() Factory {
	factoryMu.RLock()
	f := factory
	factoryMu.RUnlock()
	return f
}
