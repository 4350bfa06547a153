package model

import "time"

// State represents the lifecycle state of the model.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// BackendKind names a numeric execution engine.
type BackendKind string

const (
	// BackendAccelerated runs the network on a GPU when one is usable.
	BackendAccelerated BackendKind = "accelerated"
	// BackendBaseline runs the network on the CPU.
	BackendBaseline BackendKind = "baseline"
)

// ModelSpec is the fixed load configuration of the segmentation network.
type ModelSpec struct {
	Architecture string
	OutputStride int
	Multiplier   float64
	QuantBytes   int
	// Path of the weights file on disk.
	Path string
}

// Handle is a ready-to-use model. It is created once and shared read-only
// by every session.
type Handle struct {
	Backend  BackendKind
	Spec     ModelSpec
	LoadedAt time.Time
	net      Net
}

// NewHandle wraps an initialized network. Exposed for engines and tests that
// assemble handles without a Manager.
func NewHandle(backend BackendKind, spec ModelSpec, net Net) *Handle {
	return &Handle{Backend: backend, Spec: spec, LoadedAt: time.Now(), net: net}
}

// Ready reports whether the handle can run inference.
func (h *Handle) Ready() bool { return h != nil && h.net != nil }

// Net returns the underlying network, nil when the handle is not ready.
func (h *Handle) Net() Net {
	if h == nil {
		return nil
	}
	return h.net
}

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State    State
	Backend  BackendKind
	Err      string
	Attempts int
}
