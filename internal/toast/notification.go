package toast

// Category classifies a notification outcome.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
)

// VisualState is the lifecycle state of a notification. Transitions are
// strictly forward: entering -> visible -> leaving -> removed. A teardown
// never skips leaving, and a removed notification never re-enters.
type VisualState string

const (
	StateEntering VisualState = "entering"
	StateVisible  VisualState = "visible"
	StateLeaving  VisualState = "leaving"
	StateRemoved  VisualState = "removed"
)

// Notification is a single toast. Identity is the pointer; the ID exists
// so renderers can address the notification over a wire protocol.
// All mutable fields are guarded by the owning Manager's lock.
type Notification struct {
	id       string
	message  string
	category Category

	state  VisualState
	offset int
	cancel Stopper // pending auto-dismiss, success only

	mgr *Manager
}

func (n *Notification) ID() string         { return n.id }
func (n *Notification) Message() string    { return n.message }
func (n *Notification) Category() Category { return n.category }

// State returns the current lifecycle state.
func (n *Notification) State() VisualState {
	n.mgr.mu.RLock()
	defer n.mgr.mu.RUnlock()
	return n.state
}

// Offset returns the current vertical offset in display units.
func (n *Notification) Offset() int {
	n.mgr.mu.RLock()
	defer n.mgr.mu.RUnlock()
	return n.offset
}
