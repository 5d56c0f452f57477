package toast

// Renderer is implemented by the display layer. The manager calls it
// outside its own lock; implementations may call back into the manager
// (LeaveFinished) synchronously.
//
// BeginLeave starts the slide-out transition. When that transition
// completes the renderer must call Manager.LeaveFinished exactly once for
// the notification; the manager tolerates duplicates but the contract is
// one signal per removal.
type Renderer interface {
	// Mount inserts the notification in its pre-animation state at the
	// given vertical offset (translated off the visible edge, zero opacity).
	Mount(n *Notification, offset int)
	// SetVisible transitions the notification to its rest position.
	SetVisible(n *Notification)
	// Move animates the notification to a new vertical offset.
	Move(n *Notification, offset int)
	// BeginLeave starts the removal transition.
	BeginLeave(n *Notification)
	// Unmount removes the notification from the display.
	Unmount(n *Notification)
}

// noopRenderer is the default; it draws nothing. Useful for manager
// instances that only exist to be inspected (status pages, tests).
type noopRenderer struct{}

func (noopRenderer) Mount(*Notification, int) {}
func (noopRenderer) SetVisible(*Notification) {}
func (noopRenderer) Move(*Notification, int)  {}
func (noopRenderer) BeginLeave(*Notification) {}
func (noopRenderer) Unmount(*Notification)    {}
