// Package testsupport holds fakes shared by package tests: a manually
// advanced scheduler and recorders for the navigation and alert surfaces.
package testsupport

import (
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-authform/pkg/schedule"
)

// ManualScheduler is a schedule.Scheduler whose clock only moves when
// Advance is called. Callbacks registered with AfterFunc run synchronously
// inside Advance, in due-time order.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*manualTimer
	// waiters is signalled whenever After or AfterFunc registers a timer.
	waiters chan struct{}
}

type manualTimer struct {
	s       *ManualScheduler
	due     time.Time
	seq     int
	fn      func()
	ch      chan time.Time
	stopped bool
}

var _ schedule.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler starts the clock at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start, waiters: make(chan struct{}, 64)}
}

// Now returns the current fake time.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// After registers a one-shot channel timer.
func (s *ManualScheduler) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	s.add(d, nil, ch)
	return ch
}

// AfterFunc registers a callback timer.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) schedule.Timer {
	return s.add(d, f, nil)
}

func (s *ManualScheduler) add(d time.Duration, fn func(), ch chan time.Time) *manualTimer {
	s.mu.Lock()
	s.seq++
	t := &manualTimer{s: s, due: s.now.Add(d), seq: s.seq, fn: fn, ch: ch}
	s.pending = append(s.pending, t)
	s.mu.Unlock()

	select {
	case s.waiters <- struct{}{}:
	default:
	}
	return t
}

// Stop cancels the timer; it reports whether the timer was still pending.
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	for i, p := range t.s.pending {
		if p == t {
			t.s.pending = append(t.s.pending[:i], t.s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns how many timers are waiting.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// WaitForTimers blocks until at least n timers are pending or the timeout
// elapses (real time). It is used to synchronise with goroutines that are
// about to block on After.
func (s *ManualScheduler) WaitForTimers(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if s.Pending() >= n {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		select {
		case <-s.waiters:
		case <-time.After(minDuration(remaining, 5*time.Millisecond)):
		}
	}
}

// Advance moves the clock forward by d and fires every timer that falls due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		sort.SliceStable(s.pending, func(i, j int) bool {
			if s.pending[i].due.Equal(s.pending[j].due) {
				return s.pending[i].seq < s.pending[j].seq
			}
			return s.pending[i].due.Before(s.pending[j].due)
		})
		if len(s.pending) == 0 || s.pending[0].due.After(target) {
			s.now = target
			s.mu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		next.stopped = true
		s.now = next.due
		now := s.now
		s.mu.Unlock()

		if next.ch != nil {
			next.ch <- now
		}
		if next.fn != nil {
			next.fn()
		}
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
