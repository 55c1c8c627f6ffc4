package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"riseup/internal/clock"
)

var epoch = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func TestScheduleFiresOnceAfterDelay(t *testing.T) {
	fake := clock.Fake(epoch)
	s := New(fake)
	var calls int
	h := s.Schedule(10*time.Second, func() { calls++ })

	fake.Advance(9 * time.Second)
	if calls != 0 {
		t.Fatalf("fired before delay: calls=%d", calls)
	}
	fake.Advance(time.Second)
	if calls != 1 {
		t.Fatalf("calls=%d, want 1", calls)
	}
	fake.Advance(time.Hour)
	if calls != 1 {
		t.Fatalf("fired twice: calls=%d", calls)
	}
	if !h.Fired() {
		t.Fatalf("Fired() = false after firing")
	}
	if h.Cancel() {
		t.Fatalf("Cancel after firing should report false")
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	fake := clock.Fake(epoch)
	s := New(fake)
	fired := false
	h := s.Schedule(time.Minute, func() { fired = true })

	if !h.Cancel() {
		t.Fatalf("first Cancel should report true")
	}
	if h.Cancel() {
		t.Fatalf("second Cancel should be a no-op")
	}
	fake.Advance(2 * time.Minute)
	if fired {
		t.Fatalf("cancelled handle fired")
	}
	if h.Fired() {
		t.Fatalf("Fired() = true for a cancelled handle")
	}
}

func TestNilHandleCancelIsNoop(t *testing.T) {
	var h *Handle
	if h.Cancel() {
		t.Fatalf("nil handle Cancel should report false")
	}
}

func TestCancelRacingWithRealFiring(t *testing.T) {
	s := New(clock.Real())
	for i := 0; i < 200; i++ {
		var started, finished atomic.Bool
		var wg sync.WaitGroup
		wg.Add(1)
		h := s.Schedule(time.Microsecond, func() {
			started.Store(true)
			time.Sleep(50 * time.Microsecond)
			finished.Store(true)
			wg.Done()
		})
		time.Sleep(time.Duration(i%3) * time.Microsecond)
		if h.Cancel() {
			// The callback must never start once Cancel has won.
			time.Sleep(time.Millisecond)
			if started.Load() {
				t.Fatalf("iteration %d: callback started after successful cancel", i)
			}
			continue
		}
		wg.Wait()
		if !finished.Load() {
			t.Fatalf("iteration %d: callback did not run to completion", i)
		}
	}
}
