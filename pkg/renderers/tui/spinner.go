package tui

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// SubmittingLabel is shown next to the spinner while a submit is in flight.
const SubmittingLabel = "Submitting..."

// Spinner is the activity indicator shown while the session waits on a
// submit or a social connect.
type Spinner interface {
	Start(label string)
	Stop()
}

type terminalSpinner struct {
	mu     sync.Mutex
	s      *spinner.Spinner
	active bool
}

func newTerminalSpinner(out io.Writer) *terminalSpinner {
	if out == nil {
		out = os.Stdout
	}
	return &terminalSpinner{
		s: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out)),
	}
}

func (t *terminalSpinner) Start(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		t.s.Stop()
	}
	t.s.Suffix = " " + label
	t.s.Start()
	t.active = true
}

func (t *terminalSpinner) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return
	}
	t.s.Stop()
	t.active = false
}
