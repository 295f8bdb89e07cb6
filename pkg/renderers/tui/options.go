package tui

import (
	"io"

	"github.com/fatih/color"
)

// DefaultMaxAttempts bounds how many times a rejected form is re-prompted.
const DefaultMaxAttempts = 3

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling session logic to ANSI specifics.
type Theme struct {
	InfoPrefix    string
	ErrorPrefix   string
	SuccessPrefix string
}

// DefaultTheme is applied when no theme is configured.
var DefaultTheme = Theme{InfoPrefix: "i ", ErrorPrefix: "✗ ", SuccessPrefix: "✓ "}

// ColorTheme returns DefaultTheme with colored prefixes. Colors follow
// color.NoColor, so output that is not a terminal stays plain.
func ColorTheme() Theme {
	return Theme{
		InfoPrefix:    color.New(color.FgCyan).Sprint(DefaultTheme.InfoPrefix),
		ErrorPrefix:   color.New(color.FgRed).Sprint(DefaultTheme.ErrorPrefix),
		SuccessPrefix: color.New(color.FgGreen).Sprint(DefaultTheme.SuccessPrefix),
	}
}

// Option configures the TUI session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where the default survey driver prints messages.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		s.out = w
	}
}

// WithSpinner replaces the terminal spinner.
func WithSpinner(sp Spinner) Option {
	return func(s *Session) {
		if sp != nil {
			s.spinner = sp
		}
	}
}

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}
