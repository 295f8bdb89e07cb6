package form

import (
	"sync"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/strength"
)

// Visibility is the display mode of a password input.
type Visibility string

const (
	VisibilityMasked Visibility = "password"
	VisibilityText   Visibility = "text"
)

// Context holds everything one rendered form owns: field values, checkbox
// states, per-field views, password visibility and the strength meter. It
// is created once per form and handed to the controller explicitly.
type Context struct {
	mu         sync.RWMutex
	name       string
	values     map[string]string
	checks     map[string]bool
	views      map[string]model.FieldView
	visibility map[string]Visibility
	meter      strength.Meter
}

// NewContext creates an empty context for the named form.
func NewContext(name string) *Context {
	return &Context{
		name:       name,
		values:     make(map[string]string),
		checks:     make(map[string]bool),
		views:      make(map[string]model.FieldView),
		visibility: make(map[string]Visibility),
		meter:      strength.Neutral,
	}
}

// Name returns the form name.
func (c *Context) Name() string { return c.name }

// Value returns the raw value of a field.
func (c *Context) Value(field string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[field]
}

// SetValue stores a raw value without validating it. Use Controller.Input
// for user edits; SetValue models programmatic fills.
func (c *Context) SetValue(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[field] = value
}

// Checked returns a checkbox state (remember, terms).
func (c *Context) Checked(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.checks[name]
}

// SetChecked updates a checkbox state.
func (c *Context) SetChecked(name string, checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = checked
}

// View returns the current view of a field.
func (c *Context) View(field string) model.FieldView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.views[field]
}

// Views returns a copy of every non-empty field view.
func (c *Context) Views() map[string]model.FieldView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]model.FieldView, len(c.views))
	for k, v := range c.views {
		if v == (model.FieldView{}) {
			continue
		}
		out[k] = v
	}
	return out
}

func (c *Context) setView(field string, view model.FieldView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[field] = view
}

// Visibility returns the display mode of a password field. Fields start masked.
func (c *Context) Visibility(field string) Visibility {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.visibility[field]; ok {
		return v
	}
	return VisibilityMasked
}

// TogglePasswordVisibility flips a password field between masked and plain
// text and returns the new mode.
func (c *Context) TogglePasswordVisibility(field string) Visibility {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := VisibilityText
	if c.visibility[field] == VisibilityText {
		next = VisibilityMasked
	}
	c.visibility[field] = next
	return next
}

// Meter returns the current strength indicator.
func (c *Context) Meter() strength.Meter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meter
}

func (c *Context) setMeter(m strength.Meter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meter = m
}
