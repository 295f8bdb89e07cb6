package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-authform/pkg/form"
	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/notify"
	"github.com/goliatone/go-authform/pkg/social"
	"github.com/goliatone/go-authform/pkg/submit"
)

// Flow is what a session drives: the login and signup flows both satisfy it.
type Flow interface {
	Form() *form.Controller
	Input(field, value string) (model.Result, error)
	Submit(ctx context.Context) (submit.Outcome, error)
}

// Checkbox is a yes/no control asked after the fields (remember me, terms).
type Checkbox struct {
	Name    string
	Message string
	Help    string
}

// Session runs forms in a terminal. It also serves as the notification
// listener and alert surface so notices show up between prompts.
type Session struct {
	driver      PromptDriver
	spinner     Spinner
	out         io.Writer
	theme       Theme
	maxAttempts int
}

var (
	_ notify.Listener = (*Session)(nil)
	_ notify.Alerter  = (*Session)(nil)
)

// New constructs a session with defaults (survey driver on stdout).
func New(options ...Option) (*Session, error) {
	s := &Session{
		theme:       DefaultTheme,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		driver, err := newSurveyDriver(s.out)
		if err != nil {
			return nil, err
		}
		s.driver = driver
	}
	if s.spinner == nil {
		s.spinner = newTerminalSpinner(s.out)
	}
	return s, nil
}

// Loading follows the submit control: the spinner runs while a submit is in
// flight.
func (s *Session) Loading(loading bool) {
	if loading {
		s.spinner.Start(SubmittingLabel)
		return
	}
	s.spinner.Stop()
}

// Control follows a social button. A disabled button spins with its
// connecting label; re-enabling stops the spinner and prints the restored
// label.
func (s *Session) Control(c social.Control) {
	if c.Disabled {
		s.spinner.Start(c.Label)
		return
	}
	s.spinner.Stop()
	_ = s.driver.Info(context.Background(), s.theme.InfoPrefix+c.Label)
}

// Shown prints a notification as it appears.
func (s *Session) Shown(n notify.Notification) {
	prefix := s.theme.InfoPrefix
	if n.Kind == notify.KindSuccess {
		prefix = s.theme.SuccessPrefix
	}
	_ = s.driver.Info(context.Background(), prefix+n.Message)
}

// Dismissed is a no-op; printed lines stay on screen.
func (s *Session) Dismissed(notify.Notification) {}

// Alert prints a blocking message.
func (s *Session) Alert(message string) {
	_ = s.driver.Info(context.Background(), s.theme.ErrorPrefix+message)
}

// Run prompts for every field and checkbox, then submits. A rejected submit
// re-prompts the fields that are not valid, up to the attempt limit.
func (s *Session) Run(ctx context.Context, f Flow, checks ...Checkbox) (submit.Outcome, error) {
	if ctx == nil {
		return submit.Outcome{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return submit.Outcome{}, err
	}
	if f == nil {
		return submit.Outcome{}, errors.New("tui: flow is nil")
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := s.promptFields(ctx, f, attempt == 1); err != nil {
			return submit.Outcome{}, err
		}
		if err := s.promptChecks(ctx, f.Form().Context(), checks); err != nil {
			return submit.Outcome{}, err
		}

		out, err := f.Submit(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !errors.Is(err, submit.ErrGateClosed) && !errors.Is(err, submit.ErrSubmissionFailed) {
			return out, err
		}
		if err := s.showErrors(ctx, f.Form()); err != nil {
			return out, err
		}
	}
	return submit.Outcome{}, fmt.Errorf("%w: %w", ErrAttemptsExhausted, lastErr)
}

// Social asks which provider to use and runs the placeholder connect. The
// connector should report to Control so the connecting state is shown.
func (s *Session) Social(ctx context.Context, c *social.Connector) error {
	providers := c.Providers()
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Continue with", Options: providers})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(providers) {
		return fmt.Errorf("tui: invalid provider selection %d", idx)
	}
	return c.Connect(ctx, providers[idx])
}

func (s *Session) promptFields(ctx context.Context, f Flow, all bool) error {
	fc := f.Form()
	fctx := fc.Context()
	spec := fc.Spec()
	for _, field := range spec.Fields {
		// Checked at prompt time: an earlier answer can invalidate a dependent.
		if !all && fctx.View(field.Name).Visual == model.VisualSuccess {
			continue
		}

		value, err := s.promptValue(ctx, field, fctx.Value(field.Name))
		if err != nil {
			return err
		}
		if _, err := f.Input(field.Name, value); err != nil {
			return err
		}

		if msg := fctx.View(field.Name).Message; msg != "" {
			if err := s.driver.Info(ctx, s.theme.ErrorPrefix+msg); err != nil {
				return err
			}
		}
		if field.Name == spec.StrengthField && value != "" {
			if err := s.driver.Info(ctx, s.theme.InfoPrefix+fctx.Meter().Label); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) promptValue(ctx context.Context, field model.FieldSpec, current string) (string, error) {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	cfg := InputConfig{Message: label}
	if field.Secret {
		return s.driver.Password(ctx, cfg)
	}
	cfg.Default = current
	return s.driver.Input(ctx, cfg)
}

func (s *Session) promptChecks(ctx context.Context, fctx *form.Context, checks []Checkbox) error {
	for _, check := range checks {
		answer, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: check.Message,
			Help:    check.Help,
			Default: fctx.Checked(check.Name),
		})
		if err != nil {
			return err
		}
		fctx.SetChecked(check.Name, answer)
	}
	return nil
}

func (s *Session) showErrors(ctx context.Context, fc *form.Controller) error {
	views := fc.Context().Views()
	for _, field := range fc.Spec().Fields {
		view, ok := views[field.Name]
		if !ok || view.Message == "" {
			continue
		}
		label := field.Label
		if label == "" {
			label = field.Name
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("%s%s: %s", s.theme.ErrorPrefix, label, view.Message)); err != nil {
			return err
		}
	}
	return nil
}
