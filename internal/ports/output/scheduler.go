package output

import "time"

// Scheduler runs delayed callbacks.
type Scheduler interface {
	Now() time.Time
	Schedule(delay time.Duration, fn func()) Handle
}

// Handle is a scheduled callback that fires at most once.
type Handle interface {
	// Cancel prevents the callback; it reports whether it did.
	Cancel() bool
	Fired() bool
}
