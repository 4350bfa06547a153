package model

// Event names emitted during initialization, in the order they can occur.
const (
	EventInitStart       = "init_start"
	EventBackendFallback = "backend_fallback"
	EventInitReady       = "init_ready"
	EventInitFailed      = "init_failed"
)

// Event is one step of model initialization. Backend is empty for events
// that are not tied to a single backend.
type Event struct {
	Name    string
	Backend BackendKind
	Fields  map[string]any
}

// EventPublisher receives initialization events. Publish is called without
// the manager's lock held but must not block.
type EventPublisher interface {
	Publish(Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
