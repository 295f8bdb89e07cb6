// Package log wraps log/slog behind a small Logger interface so components
// can take a logger without caring about handler setup.
package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Logger is the logging surface used across the module.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, err error, args ...any)

	With(args ...any) Logger
	Slog() *slog.Logger
}

// StructuredLogger implements Logger on top of *slog.Logger.
type StructuredLogger struct {
	logger *slog.Logger
}

// New wraps an existing slog logger. A nil logger yields Nop().
func New(l *slog.Logger) Logger {
	if l == nil {
		return Nop()
	}
	return &StructuredLogger{logger: l}
}

// NewHandlerLogger builds a logger writing to w. Format "json" selects the
// JSON handler; anything else uses the text handler.
func NewHandlerLogger(w io.Writer, level slog.Level, format string) Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &StructuredLogger{logger: slog.New(handler)}
}

// Nop discards everything.
func Nop() Logger {
	return &StructuredLogger{logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

// ParseLevel maps "debug", "info", "warn" and "error" onto slog levels,
// defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *StructuredLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *StructuredLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *StructuredLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }

func (l *StructuredLogger) Error(msg string, err error, args ...any) {
	args = append(args, slog.Any("error", err))
	l.logger.Error(msg, args...)
}

func (l *StructuredLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *StructuredLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *StructuredLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *StructuredLogger) ErrorContext(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, slog.Any("error", err))
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *StructuredLogger) With(args ...any) Logger {
	return &StructuredLogger{logger: l.logger.With(args...)}
}

func (l *StructuredLogger) Slog() *slog.Logger { return l.logger }

// String is a shorthand for slog.String.
func String(key, value string) slog.Attr { return slog.String(key, value) }

// Bool is a shorthand for slog.Bool.
func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

// Duration records a duration in whole milliseconds under key_ms.
func Duration(key string, value time.Duration) slog.Attr {
	return slog.Int64(key+"_ms", value.Milliseconds())
}
