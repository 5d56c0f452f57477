package toast

import "time"

// Defaults applied when corresponding Config fields are unset. The offsets
// are fixed configuration, not measured from content: every notification
// is assumed to occupy one uniform slot.
const (
	defaultBaseOffset       = 20
	defaultSlotHeight       = 76
	defaultAutoDismissAfter = 3000 * time.Millisecond
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	// BaseOffset is the distance of the first slot from the stacking edge,
	// in display units.
	BaseOffset int
	// SlotHeight is one notification's footprint plus inter-item margin.
	SlotHeight int
	// AutoDismissAfter is the display time of a success notification
	// before it is removed automatically. Errors never auto-dismiss.
	AutoDismissAfter time.Duration

	Scheduler Scheduler
	Renderer  Renderer
	Publisher EventPublisher
}

// NewWithConfig constructs a Manager from Config, applying package
// defaults for unset fields.
func NewWithConfig(cfg Config) *Manager {
	m := &Manager{
		baseOffset:       cfg.BaseOffset,
		slotHeight:       cfg.SlotHeight,
		autoDismissAfter: cfg.AutoDismissAfter,
		scheduler:        cfg.Scheduler,
		renderer:         cfg.Renderer,
		publisher:        cfg.Publisher,
	}
	if m.baseOffset <= 0 {
		m.baseOffset = defaultBaseOffset
	}
	if m.slotHeight <= 0 {
		m.slotHeight = defaultSlotHeight
	}
	if m.autoDismissAfter <= 0 {
		m.autoDismissAfter = defaultAutoDismissAfter
	}
	if m.scheduler == nil {
		m.scheduler = NewClockScheduler(nil)
	}
	if m.renderer == nil {
		m.renderer = noopRenderer{}
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	return m
}

// New constructs a Manager with the given renderer and scheduler and
// package defaults for everything else.
func New(r Renderer, s Scheduler) *Manager {
	return NewWithConfig(Config{Renderer: r, Scheduler: s})
}
