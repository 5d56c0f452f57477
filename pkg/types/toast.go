package types

// Toast wire protocol for the live dashboard channel. The server is the
// source of truth for notification state; the browser is a thin renderer
// that applies ops and reports back.

// Toast op names, server to client.
const (
	ToastOpMount   = "mount"
	ToastOpVisible = "visible"
	ToastOpMove    = "move"
	ToastOpLeave   = "leave"
	ToastOpUnmount = "unmount"
)

// ToastOp instructs the client renderer to change one notification.
type ToastOp struct {
	Op string `json:"op"`
	ID string `json:"id"`
	// Message and Category are set on mount only.
	Message  string `json:"message,omitempty"`
	Category string `json:"category,omitempty"`
	// Offset is the vertical offset in display units, set on mount and move.
	Offset int `json:"offset,omitempty"`
}

// Client frame types, client to server.
const (
	ClientFrameShow     = "show"
	ClientFrameDismiss  = "dismiss"
	ClientFrameLeaveEnd = "leave-end"
	ClientFrameResize   = "resize"
)

// ClientFrame is an inbound message from the dashboard: an apply outcome
// to display, a manual dismissal, the completion signal for a leave
// transition, or a viewport resize.
type ClientFrame struct {
	Type string `json:"type"`
	// ID addresses an existing notification (dismiss, leave-end).
	ID string `json:"id,omitempty"`
	// Message and Category describe a new notification (show).
	Message  string `json:"message,omitempty"`
	Category string `json:"category,omitempty"`
}
