package notify

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-authform/pkg/testsupport"
)

type listener struct {
	shown     []string
	dismissed []string
}

func (l *listener) Shown(n Notification)     { l.shown = append(l.shown, n.Message) }
func (l *listener) Dismissed(n Notification) { l.dismissed = append(l.dismissed, n.Message) }

func TestCenter_AutoDismiss(t *testing.T) {
	sched := testsupport.NewManualScheduler(time.Unix(0, 0))
	l := &listener{}
	c := NewCenter(WithScheduler(sched), WithListener(l))

	c.Success("Login successful! Redirecting...")
	if got := len(c.Active()); got != 1 {
		t.Fatalf("expected one active notification, got %d", got)
	}

	sched.Advance(2999 * time.Millisecond)
	if got := len(c.Active()); got != 1 {
		t.Fatalf("notification dismissed too early")
	}
	sched.Advance(time.Millisecond)
	if got := len(c.Active()); got != 0 {
		t.Fatalf("expected notification to be dismissed after 3s, still have %d", got)
	}
	if diff := cmp.Diff([]string{"Login successful! Redirecting..."}, l.dismissed); diff != "" {
		t.Fatalf("dismissed mismatch (-want +got):\n%s", diff)
	}
}

func TestCenter_CustomTTLAndEarlyDismiss(t *testing.T) {
	sched := testsupport.NewManualScheduler(time.Unix(0, 0))
	c := NewCenter(WithScheduler(sched), WithTTL(time.Second))

	n := c.Info("hello")
	if !c.Dismiss(n.ID) {
		t.Fatalf("expected early dismiss to succeed")
	}
	sched.Advance(time.Second)
	if c.Dismiss(n.ID) {
		t.Fatalf("second dismiss should report false")
	}
}

func TestPlainText(t *testing.T) {
	cases := map[string]string{
		"<b>Welcome</b> aboard":             "Welcome aboard",
		"<script>alert(1)</script>Hi":       "Hi",
		"Tom & Jerry":                       "Tom & Jerry",
		"   ":                               "",
		`<img src=x onerror="alert(1)">ok`:  "ok",
	}
	for in, want := range cases {
		if got := PlainText(in); got != want {
			t.Fatalf("PlainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCenter_Alert(t *testing.T) {
	alerts := &testsupport.Alerter{}
	c := NewCenter(WithAlerter(alerts))
	c.Alert("Please accept the Terms of Service and Privacy Policy")
	if diff := cmp.Diff([]string{"Please accept the Terms of Service and Privacy Policy"}, alerts.Messages()); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
	if len(c.Active()) != 0 {
		t.Fatalf("alerts must not create notifications when an alerter is set")
	}
}
