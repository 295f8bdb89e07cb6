package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrAttemptsExhausted is returned when the form was still rejected after
	// the last allowed attempt.
	ErrAttemptsExhausted = errors.New("tui: attempts exhausted")
)
