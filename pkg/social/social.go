// Package social is the placeholder for third-party sign-in buttons. A
// connect attempt only shows a connecting state for a fixed delay and then
// tells the user the integration does not exist yet.
package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-authform/internal/log"
	"github.com/goliatone/go-authform/pkg/notify"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/schedule"
)

// DefaultDelay is how long a button stays in the connecting state.
const DefaultDelay = 1500 * time.Millisecond

// ConnectingLabel replaces the button label while connecting.
const ConnectingLabel = "Connecting..."

// Providers offered by the login and signup pages.
const (
	ProviderGoogle   = "Google"
	ProviderFacebook = "Facebook"
)

var (
	// ErrConnecting is returned when the provider's button is already busy.
	ErrConnecting = errors.New("social: already connecting")
	// ErrUnknownProvider is returned for providers the connector was not built with.
	ErrUnknownProvider = errors.New("social: unknown provider")
)

// Variant selects the wording of the closing notice.
type Variant string

const (
	VariantLogin  Variant = "login"
	VariantSignup Variant = "signup"
)

// State is a button's state.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
)

// Control is what a provider button shows.
type Control struct {
	Provider string
	Label    string
	Disabled bool
}

// Notifier shows the closing info notice.
type Notifier interface {
	Info(message string) notify.Notification
}

// Option configures a Connector.
type Option func(*Connector)

// WithDelay overrides the connecting delay.
func WithDelay(d time.Duration) Option {
	return func(c *Connector) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithScheduler sets the clock used for the delay.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Connector) { c.sched = schedule.OrReal(s) }
}

// WithControlObserver receives every button change.
func WithControlObserver(fn func(Control)) Option {
	return func(c *Connector) { c.onControl = fn }
}

// WithLocalizer translates the button label and notice.
func WithLocalizer(l render.Localizer) Option {
	return func(c *Connector) { c.localizer = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Connector) { c.logger = log.New(l) }
}

// WithProviders replaces the default Google and Facebook buttons. Labels are
// keyed by provider name.
func WithProviders(labels map[string]string) Option {
	return func(c *Connector) {
		if len(labels) > 0 {
			c.labels = labels
		}
	}
}

// Connector owns the social buttons of one page.
type Connector struct {
	variant   Variant
	notifier  Notifier
	delay     time.Duration
	sched     schedule.Scheduler
	onControl func(Control)
	localizer render.Localizer
	logger    log.Logger
	labels    map[string]string

	mu    sync.Mutex
	state map[string]State
}

// NewConnector builds a connector for the login or signup page.
func NewConnector(variant Variant, notifier Notifier, options ...Option) (*Connector, error) {
	if variant != VariantLogin && variant != VariantSignup {
		return nil, fmt.Errorf("social: unknown variant %q", variant)
	}
	if notifier == nil {
		return nil, errors.New("social: notifier is required")
	}
	c := &Connector{
		variant:  variant,
		notifier: notifier,
		delay:    DefaultDelay,
		sched:    schedule.Real(),
		logger:   log.Nop(),
		labels: map[string]string{
			ProviderGoogle:   "Continue with Google",
			ProviderFacebook: "Continue with Facebook",
		},
		state: make(map[string]State),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = c.logger.With("component", "social", "variant", string(variant))
	return c, nil
}

// Providers lists the configured provider names.
func (c *Connector) Providers() []string {
	out := make([]string, 0, len(c.labels))
	for _, p := range []string{ProviderGoogle, ProviderFacebook} {
		if _, ok := c.labels[p]; ok {
			out = append(out, p)
		}
	}
	var extra []string
	for p := range c.labels {
		if p != ProviderGoogle && p != ProviderFacebook {
			extra = append(extra, p)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// State returns the state of a provider's button.
func (c *Connector) State(provider string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.state[provider]; ok {
		return s
	}
	return StateIdle
}

// Control returns what the provider's button currently shows.
func (c *Connector) Control(provider string) Control {
	if c.State(provider) == StateConnecting {
		return Control{Provider: provider, Label: c.localizer.Message(ConnectingLabel), Disabled: true}
	}
	return Control{Provider: provider, Label: c.labels[provider]}
}

// Connect runs the placeholder flow for provider and blocks until the delay
// has passed: the button is disabled with the connecting label, then
// restored, then the info notice is shown. A cancelled ctx restores the
// button without a notice.
func (c *Connector) Connect(ctx context.Context, provider string) error {
	provider = strings.TrimSpace(provider)
	if _, ok := c.labels[provider]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	c.mu.Lock()
	if c.state[provider] == StateConnecting {
		c.mu.Unlock()
		return ErrConnecting
	}
	c.state[provider] = StateConnecting
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "social connect started", log.String("provider", provider))
	c.emit(provider)

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-c.sched.After(c.delay):
	}

	c.mu.Lock()
	c.state[provider] = StateIdle
	c.mu.Unlock()
	c.emit(provider)

	if err != nil {
		return err
	}
	c.notifier.Info(c.Notice(provider))
	return nil
}

// Notice is the message shown once the delay has passed.
func (c *Connector) Notice(provider string) string {
	return c.localizer.Message("%s "+string(c.variant)+" functionality would be implemented here.", provider)
}

func (c *Connector) emit(provider string) {
	if c.onControl != nil {
		c.onControl(c.Control(provider))
	}
}
