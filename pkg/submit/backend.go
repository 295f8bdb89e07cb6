package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-authform/pkg/schedule"
	"github.com/goliatone/go-authform/pkg/validation"
)

// Request is what a form hands to its backend.
type Request struct {
	ID   string
	Form string
	// Payload is the typed body (e.g. credentials). Backends may validate it
	// with validation.Struct.
	Payload any
}

// Result is the backend's answer for a successful submission.
type Result struct {
	RequestID   string
	Message     string
	CompletedAt time.Time
}

// Backend is the single capability the state machine needs from whatever
// performs the submission.
type Backend interface {
	Submit(ctx context.Context, req Request) (Result, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req Request) (Result, error)

// Submit calls f.
func (f BackendFunc) Submit(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// DefaultSimulatedDelay is the fixed round trip of the simulated backend.
const DefaultSimulatedDelay = 2 * time.Second

// SimulatedBackend waits a fixed delay and succeeds for any payload that
// passes struct validation. It stands in until a real backend is wired.
type SimulatedBackend struct {
	Delay     time.Duration
	Scheduler schedule.Scheduler
}

// NewSimulatedBackend returns a simulated backend with the given delay; a
// negative delay selects DefaultSimulatedDelay.
func NewSimulatedBackend(delay time.Duration, s schedule.Scheduler) *SimulatedBackend {
	if delay < 0 {
		delay = DefaultSimulatedDelay
	}
	return &SimulatedBackend{Delay: delay, Scheduler: schedule.OrReal(s)}
}

// Submit implements Backend.
func (b *SimulatedBackend) Submit(ctx context.Context, req Request) (Result, error) {
	sched := schedule.OrReal(b.Scheduler)
	if b.Delay > 0 {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-sched.After(b.Delay):
		}
	}

	if req.Payload != nil {
		if err := validation.Struct(req.Payload); err != nil {
			return Result{}, fmt.Errorf("submit: simulated backend rejected %s payload: %w", req.Form, err)
		}
	}
	return Result{RequestID: req.ID, Message: "ok", CompletedAt: sched.Now()}, nil
}
