// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0
// Adapted from the Bureau lib/clock package.

// Package clock abstracts the wall clock so that timer-driven code can be
// driven deterministically in tests.
package clock

import "time"

// Clock is the subset of the time package the bot depends on. Production
// code injects Real(); tests inject Fake().
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for d, then calls f. The returned Timer can stop
	// the pending call.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. Returns true if the call stops
// the timer, false if the timer has already fired or been stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }
