// Package scheduler runs delayed one-shot callbacks with cancellable
// handles. Every handle fires at most once; a Cancel racing with the
// firing either prevents the callback entirely or lets it run to
// completion.
package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"riseup/internal/clock"
	"riseup/internal/ports/output"
)

const (
	statePending int32 = iota
	stateFired
	stateCancelled
)

var _ output.Scheduler = (*Scheduler)(nil)

// Scheduler schedules callbacks on an injected clock.
type Scheduler struct {
	clock clock.Clock
}

// New creates a Scheduler. A nil clock means the real clock.
func New(c clock.Clock) *Scheduler {
	if c == nil {
		c = clock.Real()
	}
	return &Scheduler{clock: c}
}

// Now returns the scheduler's notion of the current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Schedule arranges for fn to run once delay has elapsed.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) output.Handle {
	h := &Handle{}
	h.timer = s.clock.AfterFunc(delay, func() {
		if !h.state.CompareAndSwap(statePending, stateFired) {
			log.Debug().Msg("⏰ timer fired after cancellation, ignoring")
			return
		}
		fn()
	})
	return h
}

// Handle is a scheduled callback.
type Handle struct {
	state atomic.Int32
	timer *clock.Timer
}

// Cancel prevents the callback from running. It reports whether this call
// prevented it; cancelling a fired or already cancelled handle is a no-op.
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}
	if !h.state.CompareAndSwap(statePending, stateCancelled) {
		return false
	}
	if h.timer != nil {
		h.timer.Stop()
	}
	return true
}

// Fired reports whether the callback has started.
func (h *Handle) Fired() bool {
	return h != nil && h.state.Load() == stateFired
}
