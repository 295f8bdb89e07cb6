package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	authform "github.com/goliatone/go-authform"
	"github.com/goliatone/go-authform/pkg/renderers/tui"
)

var (
	configPath  string
	envFile     string
	locale      string
	logLevel    string
	storageFlag string
	metricsAddr string
)

// RootCmd is the base command; the flows are its subcommands.
var RootCmd = &cobra.Command{
	Use:           "authform-cli [command] [flags]",
	Short:         "Terminal login and signup forms",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML or JSON config file")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before AUTHFORM_* overrides")
	flags.StringVar(&locale, "locale", "", "message locale (en, es)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&storageFlag, "storage", "", "storage driver: memory, file or redis")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges the config file, env and command-line overrides.
func loadConfig() (authform.Config, error) {
	cfg, err := authform.LoadConfig(configPath, envFile)
	if err != nil {
		return authform.Config{}, err
	}
	if v := strings.TrimSpace(locale); v != "" {
		cfg.Locale = v
	}
	if v := strings.TrimSpace(logLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(storageFlag); v != "" {
		cfg.Storage.Driver = v
	}
	return cfg, cfg.Validate()
}

// terminal bundles what every interactive command needs.
type terminal struct {
	app     *authform.App
	session *tui.Session
	nav     *redirects
}

func openTerminal(ctx context.Context) (*terminal, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	session, err := tui.New(tui.WithTheme(tui.ColorTheme()))
	if err != nil {
		return nil, err
	}
	nav := newRedirects()
	app, err := authform.Open(ctx, cfg,
		authform.WithListener(session),
		authform.WithAlerter(session),
		authform.WithNavigator(nav),
		authform.WithLoadingObserver(session.Loading),
		authform.WithSocialObserver(session.Control),
	)
	if err != nil {
		return nil, err
	}
	serveMetrics(app)
	return &terminal{app: app, session: session, nav: nav}, nil
}

func serveMetrics(app *authform.App) {
	if strings.TrimSpace(metricsAddr) == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.Registry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
		}
	}()
}

// redirects captures the destination instead of navigating and lets the
// command wait for it.
type redirects struct {
	done chan string
}

func newRedirects() *redirects {
	return &redirects{done: make(chan string, 1)}
}

func (r *redirects) Navigate(target string) error {
	select {
	case r.done <- target:
	default:
	}
	return nil
}

// wait blocks until the scheduled redirect fires or ctx ends.
func (r *redirects) wait(ctx context.Context) (string, error) {
	select {
	case target := <-r.done:
		return target, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
