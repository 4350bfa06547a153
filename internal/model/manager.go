package model

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const initKey = "handle"

type Manager struct {
	mu       sync.RWMutex
	state    State
	handle   *Handle
	err      string
	attempts int

	spec      ModelSpec
	backends  []BackendKind
	loader    Loader
	publisher EventPublisher
	log       zerolog.Logger

	// init collapses concurrent first calls onto one initialization.
	init singleflight.Group
}

// New builds a Manager for the weights at modelPath with default backends.
func New(modelPath string) *Manager {
	return NewWithConfig(ManagerConfig{ModelPath: modelPath})
}

// Handle returns the process-wide model handle, initializing backend and
// model on first use. Callers arriving while initialization is in flight wait
// for the same attempt. A failed attempt leaves the manager uninitialized so
// the next call retries from scratch.
//
// ctx only bounds how long this caller waits; an initialization already in
// flight keeps running for the other waiters.
func (m *Manager) Handle(ctx context.Context) (*Handle, error) {
	if h := m.cached(); h != nil {
		return h, nil
	}
	ch := m.init.DoChan(initKey, func() (any, error) {
		return m.initialize(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Handle), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetEventPublisher replaces the lifecycle event sink.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.mu.Lock()
	m.publisher = p
	m.mu.Unlock()
}

// Spec returns the fixed load configuration.
func (m *Manager) Spec() ModelSpec { return m.spec }

func (m *Manager) cached() *Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handle
}

func (m *Manager) events() EventPublisher {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.publisher
}
