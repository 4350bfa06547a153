package model

import (
	"github.com/rs/zerolog"
)

// Fixed network configuration: an accuracy/latency tradeoff chosen once.
const (
	Architecture = "MobileNetV1"
	OutputStride = 16
	Multiplier   = 0.75
	QuantBytes   = 2
	// Variant is matched against weights file names by the registry.
	Variant = "mobilenetv1"
)

// DefaultBackends is the preference order tried by Handle.
var DefaultBackends = []BackendKind{BackendAccelerated, BackendBaseline}

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// ModelPath is the weights file handed to the Loader.
	ModelPath string
	// Backends in preference order; empty means DefaultBackends.
	Backends []BackendKind
	// Loader defaults to the OpenCV DNN loader (a stub without the gocv tag).
	Loader    Loader
	Publisher EventPublisher
	Logger    *zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state: StateIdle,
		spec: ModelSpec{
			Architecture: Architecture,
			OutputStride: OutputStride,
			Multiplier:   Multiplier,
			QuantBytes:   QuantBytes,
			Path:         cfg.ModelPath,
		},
		loader:    cfg.Loader,
		publisher: cfg.Publisher,
		log:       zerolog.Nop(),
	}
	if len(cfg.Backends) == 0 {
		m.backends = append([]BackendKind(nil), DefaultBackends...)
	} else {
		m.backends = append([]BackendKind(nil), cfg.Backends...)
	}
	if m.loader == nil {
		m.loader = NewDNNLoader()
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "model").Logger()
	}
	return m
}
