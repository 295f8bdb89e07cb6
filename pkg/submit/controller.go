// Package submit implements the submission state machine shared by the
// forms: idle → submitting → succeeded|failed → idle. The submitting state is
// the only lock; while it is held every other submit attempt is rejected.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/goliatone/go-authform/internal/log"
	"github.com/goliatone/go-authform/pkg/metrics"
	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/schedule"
)

var (
	// ErrGateClosed is returned when the submit gate rejects the attempt.
	ErrGateClosed = errors.New("submit: gate closed")
	// ErrInFlight is returned when a submission is already running.
	ErrInFlight = errors.New("submit: submission already in flight")
	// ErrSubmissionFailed wraps backend failures.
	ErrSubmissionFailed = errors.New("submit: submission failed")
)

const (
	eventSubmit  = "submit"
	eventSucceed = "succeed"
	eventFail    = "fail"
	eventReset   = "reset"
)

func newMachine() *fsm.FSM {
	idle := string(model.SubmissionIdle)
	submitting := string(model.SubmissionSubmitting)
	succeeded := string(model.SubmissionSucceeded)
	failed := string(model.SubmissionFailed)
	return fsm.NewFSM(
		idle,
		fsm.Events{
			{Name: eventSubmit, Src: []string{idle}, Dst: submitting},
			{Name: eventSucceed, Src: []string{submitting}, Dst: succeeded},
			{Name: eventFail, Src: []string{submitting}, Dst: failed},
			{Name: eventReset, Src: []string{succeeded, failed}, Dst: idle},
		},
		fsm.Callbacks{},
	)
}

// Gate decides whether a submit may proceed. A nil error opens the gate.
type Gate func() error

// Hooks are invoked by the state machine. All are optional.
type Hooks struct {
	// OnLoading toggles the loading indicator on the triggering control.
	OnLoading func(loading bool)
	// OnState observes every state transition.
	OnState func(from, to model.SubmissionState)
	// OnSuccess runs in the succeeded state, before returning to idle.
	OnSuccess func(ctx context.Context, req Request, res Result)
	// OnFailure runs in the failed state, before returning to idle.
	OnFailure func(ctx context.Context, req Request, err error)
}

// Outcome reports how a submission ended.
type Outcome struct {
	RequestID string
	State     model.SubmissionState
	Result    Result
	Err       error
}

// Option configures a Controller.
type Option func(*Controller)

// WithHooks installs the state machine hooks.
func WithHooks(h Hooks) Option {
	return func(c *Controller) { c.hooks = h }
}

// WithLogger sets the logger for transitions.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = log.New(l) }
}

// WithMetrics records submissions.
func WithMetrics(m *metrics.FormMetrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithScheduler sets the clock used to time submissions.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Controller) { c.sched = schedule.OrReal(s) }
}

// WithIDGenerator overrides request ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Controller is the submission state machine for one form.
type Controller struct {
	form    string
	backend Backend
	hooks   Hooks
	logger  log.Logger
	metrics *metrics.FormMetrics
	sched   schedule.Scheduler
	newID   func() string

	// mu serializes the idle check, the gate and the submit event.
	mu      sync.Mutex
	machine *fsm.FSM
}

// New builds a controller for form backed by backend.
func New(form string, backend Backend, options ...Option) (*Controller, error) {
	if backend == nil {
		return nil, errors.New("submit: backend is required")
	}
	c := &Controller{
		form:    form,
		backend: backend,
		logger:  log.Nop(),
		sched:   schedule.Real(),
		newID:   uuid.NewString,
		machine: newMachine(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = c.logger.With("form", form, "component", "submit")
	return c, nil
}

// State returns the current state.
func (c *Controller) State() model.SubmissionState {
	return model.SubmissionState(c.machine.Current())
}

// Submit runs one submission. It is rejected synchronously, with no state
// change and no backend call, unless the controller is idle and the gate
// opens. Otherwise it blocks for the backend round trip, runs the terminal
// hook and returns to idle. Backend errors come back wrapped in
// ErrSubmissionFailed alongside a failed Outcome.
func (c *Controller) Submit(ctx context.Context, payload any, gate Gate) (Outcome, error) {
	if ctx == nil {
		return Outcome{}, errors.New("submit: context is required")
	}

	c.mu.Lock()
	if !c.machine.Can(eventSubmit) {
		c.mu.Unlock()
		c.metrics.IncRejected(c.form, "in_flight")
		return Outcome{}, ErrInFlight
	}
	if gate != nil {
		if err := gate(); err != nil {
			c.mu.Unlock()
			c.metrics.IncRejected(c.form, "gate_closed")
			c.logger.DebugContext(ctx, "submit rejected", log.String("reason", err.Error()))
			return Outcome{}, fmt.Errorf("%w: %w", ErrGateClosed, err)
		}
	}
	if err := c.machine.Event(context.Background(), eventSubmit); err != nil {
		c.mu.Unlock()
		return Outcome{}, fmt.Errorf("submit: %w", err)
	}
	c.mu.Unlock()

	req := Request{ID: c.newID(), Form: c.form, Payload: payload}
	logger := c.logger.With("request_id", req.ID)

	c.notifyState(model.SubmissionIdle, model.SubmissionSubmitting)
	c.setLoading(true)
	c.metrics.SubmissionStarted(c.form)
	started := c.sched.Now()
	logger.InfoContext(ctx, "submission started")

	res, err := c.backend.Submit(ctx, req)
	elapsed := c.sched.Now().Sub(started)

	out := Outcome{RequestID: req.ID, Result: res}
	if err != nil {
		out.State = model.SubmissionFailed
		out.Err = fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
		c.transition(ctx, eventFail, model.SubmissionSubmitting)
		logger.ErrorContext(ctx, "submission failed", err, log.Duration("elapsed", elapsed))
		if c.hooks.OnFailure != nil {
			c.hooks.OnFailure(ctx, req, err)
		}
	} else {
		out.State = model.SubmissionSucceeded
		c.transition(ctx, eventSucceed, model.SubmissionSubmitting)
		logger.InfoContext(ctx, "submission succeeded", log.Duration("elapsed", elapsed))
		if c.hooks.OnSuccess != nil {
			c.hooks.OnSuccess(ctx, req, res)
		}
	}

	c.metrics.SubmissionFinished(c.form, string(out.State), elapsed)
	c.setLoading(false)
	c.transition(ctx, eventReset, out.State)

	return out, out.Err
}

// transition fires event on the machine. Events use a background context so
// a cancelled request still returns the controller to idle.
func (c *Controller) transition(ctx context.Context, event string, from model.SubmissionState) {
	if err := c.machine.Event(context.Background(), event); err != nil {
		c.logger.ErrorContext(ctx, "submit transition rejected", err, log.String("event", event))
		return
	}
	c.notifyState(from, c.State())
}

func (c *Controller) notifyState(from, to model.SubmissionState) {
	if c.hooks.OnState != nil {
		c.hooks.OnState(from, to)
	}
}

func (c *Controller) setLoading(loading bool) {
	if c.hooks.OnLoading != nil {
		c.hooks.OnLoading(loading)
	}
}
