// Package notify implements the transient notification surface (success and
// info toasts that dismiss themselves) and the blocking alert path.
package notify

import (
	"html"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-authform/pkg/schedule"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Kind distinguishes notification styles.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
)

// Notification is one visible toast.
type Notification struct {
	ID        int
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Listener observes notifications appearing and disappearing.
type Listener interface {
	Shown(n Notification)
	Dismissed(n Notification)
}

// Alerter presents a blocking, modal-style message.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(message string)

// Alert calls f.
func (f AlerterFunc) Alert(message string) { f(message) }

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// PlainText strips any markup from message and returns readable text.
func PlainText(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

// Center owns the visible notifications.
type Center struct {
	ttl       time.Duration
	sched     schedule.Scheduler
	listeners []Listener
	alerter   Alerter

	mu     sync.Mutex
	nextID int
	active []Notification
}

// Option configures a Center.
type Option func(*Center)

// WithTTL overrides the auto-dismiss delay.
func WithTTL(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithScheduler sets the scheduler used for auto-dismiss.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Center) { c.sched = schedule.OrReal(s) }
}

// WithListener registers a listener.
func WithListener(l Listener) Option {
	return func(c *Center) {
		if l != nil {
			c.listeners = append(c.listeners, l)
		}
	}
}

// WithAlerter sets the blocking alert surface.
func WithAlerter(a Alerter) Option {
	return func(c *Center) { c.alerter = a }
}

// NewCenter builds a notification center.
func NewCenter(options ...Option) *Center {
	c := &Center{ttl: DefaultTTL, sched: schedule.Real()}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Success shows a success notification.
func (c *Center) Success(message string) Notification {
	return c.show(KindSuccess, message)
}

// Info shows an informational notification.
func (c *Center) Info(message string) Notification {
	return c.show(KindInfo, message)
}

// Alert forwards message to the blocking alert surface. Without an Alerter
// the message falls back to an info notification.
func (c *Center) Alert(message string) {
	text := PlainText(message)
	if c.alerter != nil {
		c.alerter.Alert(text)
		return
	}
	c.Info(text)
}

// Active returns the visible notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.active...)
}

// Dismiss removes a notification early. It reports whether it was visible.
func (c *Center) Dismiss(id int) bool {
	c.mu.Lock()
	var removed *Notification
	for i, n := range c.active {
		if n.ID == id {
			n := n
			removed = &n
			c.active = append(c.active[:i], c.active[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if removed == nil {
		return false
	}
	for _, l := range c.listeners {
		l.Dismissed(*removed)
	}
	return true
}

func (c *Center) show(kind Kind, message string) Notification {
	c.mu.Lock()
	c.nextID++
	n := Notification{ID: c.nextID, Kind: kind, Message: PlainText(message), CreatedAt: c.sched.Now()}
	c.active = append(c.active, n)
	c.mu.Unlock()

	for _, l := range c.listeners {
		l.Shown(n)
	}
	c.sched.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	return n
}
