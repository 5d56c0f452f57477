// Package toast implements the on-screen notification stack shown on the
// dashboard. It owns the ordered set of active notifications, their visual
// lifecycle, slot-based vertical packing, and the success auto-dismiss
// timer. It is structured into small files by concern:
//
//   - manager.go: core Manager type, Show/Remove/UpdatePositions.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - notification.go: Notification, Category and VisualState types.
//   - scheduler.go: Scheduler abstraction (delay + frame hooks) with a
//     clock-backed implementation and a manual one for tests.
//   - renderer.go: Renderer interface the display layer implements.
//   - events.go: EventPublisher interface (noop by default).
//   - eventpub_memory.go: in-memory publisher for tests.
//
// The manager performs no I/O and cannot fail: it is purely presentational
// state. External packages drive it through Show/Remove and fulfil the
// renderer's leave-completion signal via LeaveFinished.
package toast
