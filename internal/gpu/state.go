package gpu

// State is the lifecycle state of a ComputeBackend.
type State int

const (
	// StateUninitialized is the zero state before a device is opened.
	StateUninitialized State = iota

	// StateContextBound means a device is open and bound to the owner
	// thread, but the pipeline is not built yet.
	StateContextBound

	// StateReady means frames can be processed.
	StateReady

	// StateResizing is held while frame buffers are reallocated.
	StateResizing

	// StateDisposed means Close released every resource.
	StateDisposed

	// StateFailed marks a backend that can never process frames.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateContextBound:
		return "context-bound"
	case StateReady:
		return "ready"
	case StateResizing:
		return "resizing"
	case StateDisposed:
		return "disposed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
