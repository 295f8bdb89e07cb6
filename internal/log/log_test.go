package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewHandlerLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewHandlerLogger(&buf, slog.LevelDebug, "json").With("component", "test")

	logger.ErrorContext(context.Background(), "submit failed", errors.New("boom"), String("form", "login"), Duration("elapsed", 2*time.Second))

	out := buf.String()
	for _, want := range []string{`"msg":"submit failed"`, `"component":"test"`, `"error":"boom"`, `"form":"login"`, `"elapsed_ms":2000`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNop(t *testing.T) {
	logger := New(nil)
	logger.Error("ignored", errors.New("x"))
	if logger.Slog().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("nop logger should not be enabled")
	}
}
