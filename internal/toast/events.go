package toast

// Event represents a notification lifecycle event.
// Minimal and stable: name + toast ID and optional fields via key/values.
type Event struct {
	Name    string
	ToastID string
	Fields  map[string]any
}

// Event names published by the manager.
const (
	EventShow    = "toast.show"
	EventVisible = "toast.visible"
	EventLeaving = "toast.leaving"
	EventRemoved = "toast.removed"
	EventRepack  = "toast.repack"
)

// EventPublisher receives events from the manager. Implementations should
// be lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
