// Package authform assembles the login and signup flows from a runtime
// configuration: storage driver, timings, redirects, locale, logging and
// metrics.
package authform

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-authform/internal/config"
	"github.com/goliatone/go-authform/internal/log"
	"github.com/goliatone/go-authform/pkg/flows"
	"github.com/goliatone/go-authform/pkg/metrics"
	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/notify"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/schedule"
	"github.com/goliatone/go-authform/pkg/social"
	"github.com/goliatone/go-authform/pkg/storage"
)

// Config aliases the runtime configuration.
type Config = config.Config

// DefaultConfig returns the configuration matching the stock pages.
func DefaultConfig() Config { return config.Default() }

// LoadConfig reads a YAML or JSON config file, an optional .env file and
// AUTHFORM_* environment overrides.
func LoadConfig(path, envFile string) (Config, error) { return config.Load(path, envFile) }

// Option configures an App.
type Option func(*App)

// WithLogger replaces the logger built from the log config.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithRegistry registers metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) { a.registry = reg }
}

// WithListener receives every notification shown by the flows.
func WithListener(l notify.Listener) Option {
	return func(a *App) { a.listener = l }
}

// WithAlerter sets the blocking alert surface.
func WithAlerter(al notify.Alerter) Option {
	return func(a *App) { a.alerter = al }
}

// WithNavigator sets the redirect handler.
func WithNavigator(n flows.Navigator) Option {
	return func(a *App) { a.nav = n }
}

// WithScheduler sets the clock shared by every flow.
func WithScheduler(s schedule.Scheduler) Option {
	return func(a *App) { a.sched = s }
}

// WithLoadingObserver receives the submit control's loading toggle for
// every flow.
func WithLoadingObserver(fn func(loading bool)) Option {
	return func(a *App) { a.onLoading = fn }
}

// WithStateObserver receives submission state transitions for every flow.
func WithStateObserver(fn func(from, to model.SubmissionState)) Option {
	return func(a *App) { a.onState = fn }
}

// WithSocialObserver receives social button changes for every flow.
func WithSocialObserver(fn func(social.Control)) Option {
	return func(a *App) { a.onControl = fn }
}

// WithStore bypasses the configured storage driver.
func WithStore(s storage.Store) Option {
	return func(a *App) { a.store = s }
}

// App holds what the flows share for one process.
type App struct {
	cfg      Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.FormMetrics
	store    storage.Store
	catalog  *render.Catalog
	listener notify.Listener
	alerter  notify.Alerter
	nav      flows.Navigator
	sched    schedule.Scheduler

	onLoading func(bool)
	onState   func(from, to model.SubmissionState)
	onControl func(social.Control)
}

// Open validates cfg and builds the shared components. Close releases the
// store.
func Open(ctx context.Context, cfg Config, options ...Option) (*App, error) {
	cfg.Storage.Driver = config.NormalizeDriver(cfg.Storage.Driver)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	if a.logger == nil {
		a.logger = log.NewHandlerLogger(os.Stderr, log.ParseLevel(cfg.Log.Level), cfg.Log.Format).Slog()
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	a.metrics = metrics.New("authform", a.registry)
	a.catalog = render.DefaultCatalog()
	a.sched = schedule.OrReal(a.sched)

	if a.store == nil {
		store, err := storage.Open(ctx, storage.OpenOptions{
			Driver: cfg.Storage.Driver,
			Path:   cfg.Storage.Path,
			Redis: storage.RedisConfig{
				Addr:     cfg.Storage.Redis.Addr,
				Password: cfg.Storage.Redis.Password,
				DB:       cfg.Storage.Redis.DB,
				Prefix:   cfg.Storage.Redis.Prefix,
			},
		})
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	a.logger.Debug("authform ready", "storage", cfg.Storage.Driver, "locale", cfg.Locale)
	return a, nil
}

// Config returns the configuration the app was opened with.
func (a *App) Config() Config { return a.cfg }

// Store returns the durable store.
func (a *App) Store() storage.Store { return a.store }

// Registry returns the metrics registry.
func (a *App) Registry() *prometheus.Registry { return a.registry }

// Localizer returns the configured locale bound to the bundled catalog.
func (a *App) Localizer() render.Localizer {
	return render.Localizer{Locale: a.cfg.Locale, Translator: a.catalog}
}

// NewNotifier builds a notification center with the configured TTL.
func (a *App) NewNotifier() *notify.Center {
	return notify.NewCenter(
		notify.WithTTL(a.cfg.Timing.NotificationTTL.Std()),
		notify.WithScheduler(a.sched),
		notify.WithListener(a.listener),
		notify.WithAlerter(a.alerter),
	)
}

func (a *App) flowOptions(redirect string, delay config.Duration, extra []flows.Option) []flows.Option {
	opts := []flows.Option{
		flows.WithStore(a.store),
		flows.WithNotifier(a.NewNotifier()),
		flows.WithNavigator(a.nav),
		flows.WithScheduler(a.sched),
		flows.WithSubmitDelay(a.cfg.Timing.SubmitDelay.Std()),
		flows.WithRedirect(redirect, delay.Std()),
		flows.WithSocialDelay(a.cfg.Timing.SocialDelay.Std()),
		flows.WithLogger(a.logger),
		flows.WithMetrics(a.metrics),
		flows.WithLocalizer(a.Localizer()),
		flows.WithLoadingObserver(a.onLoading),
		flows.WithStateObserver(a.onState),
		flows.WithSocialObserver(a.onControl),
	}
	return append(opts, extra...)
}

// NewLogin builds the login flow and applies the remembered credential.
func (a *App) NewLogin(ctx context.Context, extra ...flows.Option) (*flows.Login, error) {
	l, err := flows.NewLogin(a.flowOptions(a.cfg.Redirects.Login, a.cfg.Timing.LoginRedirectDelay, extra)...)
	if err != nil {
		return nil, err
	}
	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// NewSignup builds the signup flow.
func (a *App) NewSignup(extra ...flows.Option) (*flows.Signup, error) {
	return flows.NewSignup(a.flowOptions(a.cfg.Redirects.Signup, a.cfg.Timing.SignupRedirectDelay, extra)...)
}

// Close releases the store when it holds a connection.
func (a *App) Close() error {
	if c, ok := a.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
