package toast

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Manager owns the active set of notifications: an insertion-ordered
// collection, oldest first, where order determines the vertical slot.
// A notification appears at most once and is owned by the manager for
// its whole lifetime.
//
// The browser original was single-threaded by construction; here the
// auto-dismiss timer and the display layer's completion signals arrive on
// other goroutines, so one mutex guards the set and every state field.
// Renderer and publisher calls happen outside the lock.
type Manager struct {
	mu     sync.RWMutex
	active []*Notification

	baseOffset       int
	slotHeight       int
	autoDismissAfter time.Duration

	scheduler Scheduler
	renderer  Renderer
	publisher EventPublisher
}

// Show constructs a notification, appends it to the active set, mounts it
// in its pre-animation state at baseOffset + index*slotHeight, and flips
// it to visible on the next frame boundary. Success notifications are
// scheduled for automatic removal after the configured delay; errors stay
// until dismissed. Any message is accepted as opaque text; Show never
// fails.
func (m *Manager) Show(message string, category Category) *Notification {
	if category != CategoryError {
		category = CategorySuccess
	}
	n := &Notification{
		id:       ulid.Make().String(),
		message:  message,
		category: category,
		state:    StateEntering,
		mgr:      m,
	}

	m.mu.Lock()
	n.offset = m.baseOffset + len(m.active)*m.slotHeight
	m.active = append(m.active, n)
	offset := n.offset
	m.mu.Unlock()

	m.publish(Event{Name: EventShow, ToastID: n.id, Fields: map[string]any{
		"category": string(category),
		"offset":   offset,
	}})
	m.renderer.Mount(n, offset)

	m.scheduler.NextFrame(func() {
		m.mu.Lock()
		if n.state != StateEntering {
			m.mu.Unlock()
			return
		}
		n.state = StateVisible
		m.mu.Unlock()
		m.publish(Event{Name: EventVisible, ToastID: n.id})
		m.renderer.SetVisible(n)
	})

	if category == CategorySuccess {
		m.mu.Lock()
		n.cancel = m.scheduler.AfterFunc(m.autoDismissAfter, func() {
			m.Remove(n)
		})
		m.mu.Unlock()
	}
	return n
}

// Success shows a success notification.
func (m *Manager) Success(message string) *Notification {
	return m.Show(message, CategorySuccess)
}

// Error shows an error notification. It stays until dismissed.
func (m *Manager) Error(message string) *Notification {
	return m.Show(message, CategoryError)
}

// Remove starts teardown of a notification: it transitions to leaving and
// the renderer begins the exit transition. The actual removal from the
// active set happens in LeaveFinished. At most once per notification: a
// notification already leaving or removed is a no-op, which is also what
// guards a manual dismissal racing the auto-dismiss timer.
func (m *Manager) Remove(n *Notification) {
	if n == nil {
		return
	}
	m.mu.Lock()
	if n.mgr != m || n.state == StateLeaving || n.state == StateRemoved {
		m.mu.Unlock()
		return
	}
	if n.cancel != nil {
		n.cancel.Stop()
		n.cancel = nil
	}
	n.state = StateLeaving
	m.mu.Unlock()

	m.publish(Event{Name: EventLeaving, ToastID: n.id})
	m.renderer.BeginLeave(n)
}

// LeaveFinished is the completion signal for a removal: the renderer calls
// it when the exit transition of n has finished. It removes n from the
// active set and the display, then repacks the remaining notifications.
// Signals for notifications that are not mid-leave are ignored.
func (m *Manager) LeaveFinished(n *Notification) {
	if n == nil {
		return
	}
	m.mu.Lock()
	if n.mgr != m || n.state != StateLeaving {
		m.mu.Unlock()
		return
	}
	n.state = StateRemoved
	for i, cur := range m.active {
		if cur == n {
			m.active = append(m.active[:i], m.active[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.renderer.Unmount(n)
	m.publish(Event{Name: EventRemoved, ToastID: n.id})
	m.UpdatePositions()
}

// UpdatePositions recomputes every active notification's target offset
// from its current index and animates those whose offset changed.
// Idempotent: when nothing moved it performs no visible change. Invoked
// after every removal and on viewport resize; it never mutates membership.
func (m *Manager) UpdatePositions() {
	type move struct {
		n      *Notification
		offset int
	}
	var moves []move

	m.mu.Lock()
	for i, n := range m.active {
		target := m.baseOffset + i*m.slotHeight
		if n.offset != target {
			n.offset = target
			moves = append(moves, move{n: n, offset: target})
		}
	}
	m.mu.Unlock()

	for _, mv := range moves {
		m.renderer.Move(mv.n, mv.offset)
	}
	if len(moves) > 0 {
		m.publish(Event{Name: EventRepack, Fields: map[string]any{"moved": len(moves)}})
	}
}

// Active returns a snapshot of the active set in insertion order.
func (m *Manager) Active() []*Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Notification, len(m.active))
	copy(out, m.active)
	return out
}

// Len reports the number of notifications in the active set.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Find returns the active notification with the given wire id.
func (m *Manager) Find(id string) (*Notification, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.active {
		if n.id == id {
			return n, true
		}
	}
	return nil, false
}

func (m *Manager) publish(e Event) {
	m.publisher.Publish(e)
}
