package model

import "bgremover/pkg/types"

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{State: m.state, Err: m.err, Attempts: m.attempts}
	if m.handle != nil {
		s.Backend = m.handle.Backend
	}
	return s
}

// Ready reports whether a handle has been initialized.
func (m *Manager) Ready() bool { return m.cached() != nil }

// Status builds the model section of the readiness report.
func (m *Manager) Status() types.ModelStatus {
	s := m.Snapshot()
	return types.ModelStatus{State: string(s.State), Backend: string(s.Backend), LastError: s.Err}
}
