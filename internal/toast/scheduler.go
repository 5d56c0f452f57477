package toast

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Stopper cancels a pending delayed call. Stop reports whether the call
// was cancelled before it fired.
type Stopper interface {
	Stop() bool
}

// Scheduler abstracts the two timing primitives the manager needs: a
// fixed-delay callback (auto-dismiss) and a callback deferred to the next
// render pass (so the entering->visible transition is observed by the
// display layer instead of being coalesced into the mount).
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Stopper
	NextFrame(fn func())
}

// ClockScheduler implements Scheduler on a clockwork.Clock. NextFrame runs
// the callback immediately: over a live connection the mount and visible
// ops arrive as separate frames, which is the render-pass boundary the
// browser needs.
type ClockScheduler struct {
	clock clockwork.Clock
}

func NewClockScheduler(clock clockwork.Clock) *ClockScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClockScheduler{clock: clock}
}

func (s *ClockScheduler) AfterFunc(d time.Duration, fn func()) Stopper {
	return s.clock.AfterFunc(d, fn)
}

func (s *ClockScheduler) NextFrame(fn func()) { fn() }

// ManualScheduler queues every callback until the test fires it, making
// timing fully deterministic and single-threaded.
type ManualScheduler struct {
	mu     sync.Mutex
	frames []func()
	timers []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (t *manualTimer) fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
}

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Stopper {
	t := &manualTimer{d: d, fn: fn}
	s.mu.Lock()
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	return t
}

func (s *ManualScheduler) NextFrame(fn func()) {
	s.mu.Lock()
	s.frames = append(s.frames, fn)
	s.mu.Unlock()
}

// FireFrames runs and drains all queued frame callbacks.
func (s *ManualScheduler) FireFrames() {
	s.mu.Lock()
	frames := s.frames
	s.frames = nil
	s.mu.Unlock()
	for _, fn := range frames {
		fn()
	}
}

// AdvanceBy fires every pending timer whose delay is within d.
func (s *ManualScheduler) AdvanceBy(d time.Duration) {
	s.mu.Lock()
	var due, rest []*manualTimer
	for _, t := range s.timers {
		if t.d <= d {
			due = append(due, t)
		} else {
			t.d -= d
			rest = append(rest, t)
		}
	}
	s.timers = rest
	s.mu.Unlock()
	for _, t := range due {
		t.fire()
	}
}

// PendingTimers reports how many timers have neither fired nor been stopped.
func (s *ManualScheduler) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			n++
		}
		t.mu.Unlock()
	}
	return n
}
