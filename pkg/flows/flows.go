// Package flows wires the login and signup pages: field tables, submission
// hooks, remember-me and profile persistence, notices and redirects.
package flows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-authform/internal/log"
	"github.com/goliatone/go-authform/pkg/form"
	"github.com/goliatone/go-authform/pkg/metrics"
	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/notify"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/schedule"
	"github.com/goliatone/go-authform/pkg/social"
	"github.com/goliatone/go-authform/pkg/storage"
	"github.com/goliatone/go-authform/pkg/submit"
)

var (
	// ErrInvalidFields is the gate error when a required field is not valid.
	ErrInvalidFields = errors.New("flows: form has invalid fields")
	// ErrTermsNotAccepted is the gate error when signup terms are unchecked.
	ErrTermsNotAccepted = errors.New("flows: terms not accepted")
)

// Navigator performs redirects.
type Navigator interface {
	Navigate(target string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string) error

// Navigate calls f.
func (f NavigatorFunc) Navigate(target string) error { return f(target) }

// Option configures a Login or Signup flow.
type Option func(*settings)

type settings struct {
	store         storage.Store
	center        *notify.Center
	nav           Navigator
	sched         schedule.Scheduler
	backend       submit.Backend
	submitDelay   time.Duration
	redirect      string
	redirectDelay time.Duration
	socialDelay   time.Duration
	logger        *slog.Logger
	metrics       *metrics.FormMetrics
	localizer     render.Localizer
	observers     []form.Observer
	onLoading     func(bool)
	onState       func(from, to model.SubmissionState)
	onControl     func(social.Control)
	newID         func() string
}

// WithStore sets the durable store. The default is an in-memory store.
func WithStore(s storage.Store) Option {
	return func(o *settings) { o.store = s }
}

// WithNotifier sets the notification center.
func WithNotifier(c *notify.Center) Option {
	return func(o *settings) { o.center = c }
}

// WithNavigator sets the redirect target handler.
func WithNavigator(n Navigator) Option {
	return func(o *settings) { o.nav = n }
}

// WithScheduler sets the clock shared by the backend, redirects, social
// buttons and the default notification center.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *settings) { o.sched = schedule.OrReal(s) }
}

// WithBackend replaces the simulated backend.
func WithBackend(b submit.Backend) Option {
	return func(o *settings) { o.backend = b }
}

// WithSubmitDelay sets the simulated backend delay.
func WithSubmitDelay(d time.Duration) Option {
	return func(o *settings) { o.submitDelay = d }
}

// WithRedirect overrides the post-success redirect target and delay. An
// empty target keeps the default; a negative delay keeps the default delay.
func WithRedirect(target string, delay time.Duration) Option {
	return func(o *settings) {
		if target != "" {
			o.redirect = target
		}
		if delay >= 0 {
			o.redirectDelay = delay
		}
	}
}

// WithSocialDelay sets how long social buttons stay connecting.
func WithSocialDelay(d time.Duration) Option {
	return func(o *settings) { o.socialDelay = d }
}

// WithLogger sets the logger handed to every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *settings) { o.logger = l }
}

// WithMetrics records validations and submissions.
func WithMetrics(m *metrics.FormMetrics) Option {
	return func(o *settings) { o.metrics = m }
}

// WithLocalizer translates every user-facing message.
func WithLocalizer(l render.Localizer) Option {
	return func(o *settings) { o.localizer = l }
}

// WithObserver receives field view and strength meter changes.
func WithObserver(obs form.Observer) Option {
	return func(o *settings) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithLoadingObserver receives the submit control's loading toggle.
func WithLoadingObserver(fn func(loading bool)) Option {
	return func(o *settings) { o.onLoading = fn }
}

// WithStateObserver receives submission state transitions.
func WithStateObserver(fn func(from, to model.SubmissionState)) Option {
	return func(o *settings) { o.onState = fn }
}

// WithSocialObserver receives social button changes.
func WithSocialObserver(fn func(social.Control)) Option {
	return func(o *settings) { o.onControl = fn }
}

// WithIDGenerator overrides submission request IDs.
func WithIDGenerator(fn func() string) Option {
	return func(o *settings) { o.newID = fn }
}

// flow is the part shared by both pages.
type flow struct {
	settings
	name   string
	log    log.Logger
	form   *form.Controller
	submit *submit.Controller
	social *social.Connector

	mu      sync.Mutex
	pending schedule.Timer
}

type flowDefaults struct {
	name          string
	variant       social.Variant
	redirect      string
	redirectDelay time.Duration
	spec          func(*form.Context) form.Spec
}

func newFlow(d flowDefaults, hooks submit.Hooks, options []Option) (*flow, error) {
	s := settings{
		sched:         schedule.Real(),
		submitDelay:   -1,
		redirect:      d.redirect,
		redirectDelay: d.redirectDelay,
		socialDelay:   social.DefaultDelay,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}
	if s.store == nil {
		s.store = storage.NewMemoryStore()
	}
	if s.center == nil {
		s.center = notify.NewCenter(notify.WithScheduler(s.sched))
	}
	if s.backend == nil {
		s.backend = submit.NewSimulatedBackend(s.submitDelay, s.sched)
	}

	f := &flow{settings: s, name: d.name, log: log.New(s.logger).With("flow", d.name)}

	ctx := form.NewContext(d.name)
	formOpts := []form.Option{
		form.WithLogger(s.logger),
		form.WithMetrics(s.metrics),
		form.WithLocalizer(s.localizer),
	}
	for _, obs := range s.observers {
		formOpts = append(formOpts, form.WithObserver(obs))
	}
	fc, err := form.New(d.spec(ctx), ctx, formOpts...)
	if err != nil {
		return nil, fmt.Errorf("flows: %s form: %w", d.name, err)
	}
	f.form = fc

	hooks.OnLoading = s.onLoading
	hooks.OnState = s.onState
	sc, err := submit.New(d.name, s.backend,
		submit.WithHooks(hooks),
		submit.WithLogger(s.logger),
		submit.WithMetrics(s.metrics),
		submit.WithScheduler(s.sched),
		submit.WithIDGenerator(s.newID),
	)
	if err != nil {
		return nil, fmt.Errorf("flows: %s submit: %w", d.name, err)
	}
	f.submit = sc

	sw, err := social.NewConnector(d.variant, s.center,
		social.WithDelay(s.socialDelay),
		social.WithScheduler(s.sched),
		social.WithControlObserver(s.onControl),
		social.WithLocalizer(s.localizer),
		social.WithLogger(s.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("flows: %s social: %w", d.name, err)
	}
	f.social = sw
	return f, nil
}

// message localizes a user-facing message.
func (f *flow) message(text string, args ...any) string {
	return f.localizer.Message(text, args...)
}

// scheduleRedirect navigates to the configured target after the redirect
// delay. A newer redirect replaces a pending one.
func (f *flow) scheduleRedirect() {
	if f.nav == nil {
		f.log.Warn("no navigator configured, redirect dropped", log.String("target", f.redirect))
		return
	}
	target := f.redirect
	timer := f.sched.AfterFunc(f.redirectDelay, func() {
		if err := f.nav.Navigate(target); err != nil {
			f.log.Error("redirect failed", err, log.String("target", target))
		}
	})

	f.mu.Lock()
	if f.pending != nil {
		f.pending.Stop()
	}
	f.pending = timer
	f.mu.Unlock()
}

// Close cancels a pending redirect.
func (f *flow) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
	return nil
}

// Form exposes the form controller.
func (f *flow) Form() *form.Controller { return f.form }

// Context exposes the form context.
func (f *flow) Context() *form.Context { return f.form.Context() }

// Social exposes the social buttons.
func (f *flow) Social() *social.Connector { return f.social }

// Notifications exposes the notification center.
func (f *flow) Notifications() *notify.Center { return f.center }

// State returns the submission state.
func (f *flow) State() model.SubmissionState { return f.submit.State() }

// Input records a user edit.
func (f *flow) Input(field, value string) (model.Result, error) {
	return f.form.Input(field, value)
}

// TogglePasswordVisibility flips a password field between masked and text.
func (f *flow) TogglePasswordVisibility(field string) form.Visibility {
	return f.form.Context().TogglePasswordVisibility(field)
}

// Connect runs the social placeholder for provider.
func (f *flow) Connect(ctx context.Context, provider string) error {
	return f.social.Connect(ctx, provider)
}

func (f *flow) validFields() error {
	if !f.form.ValidateAll() {
		return ErrInvalidFields
	}
	return nil
}
