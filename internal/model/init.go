package model

import (
	"context"
	"fmt"
	"time"
)

// initialize walks the backend preference list and commits the first handle
// that loads. It runs at most once at a time (see Manager.Handle).
func (m *Manager) initialize(ctx context.Context) (*Handle, error) {
	if h := m.cached(); h != nil {
		return h, nil
	}
	start := time.Now()
	pub := m.events()

	m.mu.Lock()
	m.state = StateLoading
	m.err = ""
	m.attempts++
	attempt := m.attempts
	m.mu.Unlock()

	m.log.Info().Str("model", m.spec.Path).Int("attempt", attempt).Msg("model init start")
	pub.Publish(Event{Name: EventInitStart, Fields: map[string]any{"attempt": attempt}})

	var causes []error
	for _, b := range m.backends {
		bStart := time.Now()
		net, err := m.loader.Load(ctx, b, m.spec)
		if err == nil && net == nil {
			err = fmt.Errorf("loader returned no network")
		}
		modelInitDuration.WithLabelValues(string(b)).Observe(time.Since(bStart).Seconds())
		if err != nil {
			modelInitTotal.WithLabelValues(string(b), "error").Inc()
			causes = append(causes, fmt.Errorf("%s backend: %w", b, err))
			m.log.Warn().Err(err).Str("backend", string(b)).Msg("backend init failed")
			pub.Publish(Event{Name: EventBackendFallback, Backend: b, Fields: map[string]any{"error": err.Error()}})
			continue
		}
		modelInitTotal.WithLabelValues(string(b), "ok").Inc()
		h := NewHandle(b, m.spec, net)
		m.mu.Lock()
		m.handle = h
		m.state = StateReady
		m.err = ""
		m.mu.Unlock()
		m.log.Info().Str("backend", string(b)).Dur("dur", time.Since(start)).Msg("model ready")
		pub.Publish(Event{Name: EventInitReady, Backend: b, Fields: map[string]any{"dur_ms": int(time.Since(start) / time.Millisecond)}})
		return h, nil
	}

	err := ErrBackendUnavailable(causes...)
	m.mu.Lock()
	m.state = StateError
	m.err = err.Error()
	m.mu.Unlock()
	m.log.Error().Err(err).Msg("model init failed")
	pub.Publish(Event{Name: EventInitFailed, Fields: map[string]any{"error": err.Error()}})
	return nil, err
}
