// Package schedule abstracts the timers behind the fixed delays in the form
// flows (simulated submit, notification auto-dismiss, redirects) so they can
// be driven manually in tests.
package schedule

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler provides time and deferred execution.
type Scheduler interface {
	Now() time.Time
	// After returns a channel that receives once d has elapsed.
	After(d time.Duration) <-chan time.Time
	// AfterFunc runs f on its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

// Real returns a Scheduler backed by package time.
func Real() Scheduler { return realScheduler{} }

func (realScheduler) Now() time.Time                         { return time.Now() }
func (realScheduler) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// OrReal returns s, or Real() when s is nil.
func OrReal(s Scheduler) Scheduler {
	if s == nil {
		return Real()
	}
	return s
}
