// Package form turns validator results into per-field views. One Controller
// serves any form described by a field table, so the login and signup forms
// share the same code path.
package form

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-authform/internal/log"
	"github.com/goliatone/go-authform/pkg/metrics"
	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/strength"
	"github.com/goliatone/go-authform/pkg/validation"
)

// ErrUnknownField is returned when an operation names a field the form Spec does
// not declare.
var ErrUnknownField = errors.New("form: unknown field")

// Spec describes a form: its name, field table and, optionally, the field
// that drives the strength meter.
type Spec struct {
	Name          string
	Fields        []model.FieldSpec
	StrengthField string
}

// Observer receives view changes. Either method may be a no-op.
type Observer interface {
	FieldChanged(field string, view model.FieldView)
	StrengthChanged(meter strength.Meter)
}

// ObserverFuncs adapts plain functions to Observer.
type ObserverFuncs struct {
	OnField    func(field string, view model.FieldView)
	OnStrength func(meter strength.Meter)
}

func (o ObserverFuncs) FieldChanged(field string, view model.FieldView) {
	if o.OnField != nil {
		o.OnField(field, view)
	}
}

func (o ObserverFuncs) StrengthChanged(meter strength.Meter) {
	if o.OnStrength != nil {
		o.OnStrength(meter)
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver registers an observer for view changes.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = log.New(l)
	}
}

// WithMetrics records validation outcomes.
func WithMetrics(m *metrics.FormMetrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithLocalizer translates field messages and the meter label before they
// reach the context and observers.
func WithLocalizer(l render.Localizer) Option {
	return func(c *Controller) {
		c.localizer = l
	}
}

// Controller is the form-state controller. It is not safe to drive one
// controller from several goroutines at once; the Context it wraps is.
type Controller struct {
	spec       Spec
	ctx        *Context
	index      map[string]int
	dependents map[string][]string
	observers  []Observer
	logger     log.Logger
	metrics    *metrics.FormMetrics
	localizer  render.Localizer
}

// New validates the form Spec and binds it to ctx. A nil ctx gets a fresh one.
func New(spec Spec, ctx *Context, options ...Option) (*Controller, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, errors.New("form: spec name is required")
	}
	if len(spec.Fields) == 0 {
		return nil, fmt.Errorf("form: spec %q declares no fields", spec.Name)
	}
	if ctx == nil {
		ctx = NewContext(spec.Name)
	}

	c := &Controller{
		spec:       spec,
		ctx:        ctx,
		index:      make(map[string]int, len(spec.Fields)),
		dependents: make(map[string][]string),
		logger:     log.Nop(),
	}

	for i, field := range spec.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, fmt.Errorf("form: spec %q field %d has no name", spec.Name, i)
		}
		if field.Validate == nil {
			return nil, fmt.Errorf("form: spec %q field %q has no validator", spec.Name, name)
		}
		if _, exists := c.index[name]; exists {
			return nil, fmt.Errorf("form: spec %q declares field %q twice", spec.Name, name)
		}
		c.index[name] = i
	}
	for _, field := range spec.Fields {
		for _, dep := range field.DependsOn {
			if _, ok := c.index[dep]; !ok {
				return nil, fmt.Errorf("form: field %q depends on undeclared field %q", field.Name, dep)
			}
			c.dependents[dep] = append(c.dependents[dep], field.Name)
		}
	}
	if spec.StrengthField != "" {
		if _, ok := c.index[spec.StrengthField]; !ok {
			return nil, fmt.Errorf("form: strength field %q is not declared", spec.StrengthField)
		}
	}

	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = c.logger.With("form", spec.Name)
	return c, nil
}

// Context returns the bound form context.
func (c *Controller) Context() *Context { return c.ctx }

// Spec returns the field table.
func (c *Controller) Spec() Spec { return c.spec }

// Field returns the Spec row for name.
func (c *Controller) Field(name string) (model.FieldSpec, bool) {
	idx, ok := c.index[name]
	if !ok {
		return model.FieldSpec{}, false
	}
	return c.spec.Fields[idx], true
}

// Input records a user edit: the value is stored, the field re-validated and
// its view updated. Non-empty dependents are re-validated as well, and the
// strength meter follows the strength field.
func (c *Controller) Input(name, value string) (model.Result, error) {
	field, ok := c.Field(name)
	if !ok {
		return model.Result{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	c.ctx.SetValue(name, value)

	res := c.check(field)
	c.apply(name, res)

	if name == c.spec.StrengthField {
		c.updateMeter(value)
	}

	for _, dep := range c.dependents[name] {
		if c.ctx.Value(dep) == "" {
			continue
		}
		depField, _ := c.Field(dep)
		c.apply(dep, c.check(depField))
	}
	return res, nil
}

// Validate re-runs a single field's validator against its stored value and
// refreshes the view. Empty fields stay neutral.
func (c *Controller) Validate(name string) (model.Result, error) {
	field, ok := c.Field(name)
	if !ok {
		return model.Result{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	res := c.check(field)
	c.apply(name, res)
	return res, nil
}

// ValidateAll re-runs every validator from the stored values (values may
// have been filled without an Input call), treats empty required fields as
// missing, surfaces every field's error and reports whether all required
// fields are valid.
func (c *Controller) ValidateAll() bool {
	ok := true
	for _, field := range c.spec.Fields {
		res := c.check(field)
		if field.Required {
			res = validation.Required(res, field.RequiredMessage)
			if res.State != model.FieldStateValid {
				ok = false
			}
		} else if res.State == model.FieldStateInvalid {
			ok = false
		}
		c.apply(field.Name, res)
	}
	if c.spec.StrengthField != "" {
		c.updateMeter(c.ctx.Value(c.spec.StrengthField))
	}
	return ok
}

// Values returns every field value, trimmed where the Spec asks for it.
func (c *Controller) Values() map[string]string {
	out := make(map[string]string, len(c.spec.Fields))
	for _, field := range c.spec.Fields {
		out[field.Name] = c.value(field)
	}
	return out
}

// Prefill stores a previously accepted value and marks the field with the
// success visual without running its validator.
func (c *Controller) Prefill(name, value string) error {
	if _, ok := c.index[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	c.ctx.SetValue(name, value)
	c.setView(name, model.FieldView{Visual: model.VisualSuccess})
	return nil
}

// SetFieldError shows message on a field and marks it as an error. The
// stored value is left untouched.
func (c *Controller) SetFieldError(name, message string) error {
	if _, ok := c.index[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	c.setView(name, model.FieldView{Message: c.localizer.Message(message), Visual: model.VisualError})
	return nil
}

// MarkFailed is the generic failure reset: messageField shows message and
// every listed field switches to the error visual, without clearing values.
func (c *Controller) MarkFailed(messageField, message string, others ...string) error {
	if err := c.SetFieldError(messageField, message); err != nil {
		return err
	}
	for _, name := range others {
		if name == messageField {
			continue
		}
		if _, ok := c.index[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		view := c.ctx.View(name)
		view.Visual = model.VisualError
		c.setView(name, view)
	}
	return nil
}

func (c *Controller) value(field model.FieldSpec) string {
	v := c.ctx.Value(field.Name)
	if field.Trim {
		v = strings.TrimSpace(v)
	}
	return v
}

func (c *Controller) check(field model.FieldSpec) model.Result {
	res := field.Validate(c.value(field))
	c.metrics.ObserveValidation(c.spec.Name, field.Name, string(res.State))
	return res
}

func (c *Controller) apply(name string, res model.Result) {
	c.logger.Debug("field validated",
		log.String("field", name),
		log.String("state", string(res.State)),
		log.String("code", string(res.Code)))
	view := model.ViewFor(res)
	if view.Message != "" {
		view.Message = c.localizer.Message(view.Message)
	}
	c.setView(name, view)
}

func (c *Controller) setView(name string, view model.FieldView) {
	c.ctx.setView(name, view)
	for _, o := range c.observers {
		o.FieldChanged(name, view)
	}
}

func (c *Controller) updateMeter(password string) {
	meter := strength.MeterFor(password)
	meter.Label = c.localizer.Message(meter.Label)
	c.ctx.setMeter(meter)
	for _, o := range c.observers {
		o.StrengthChanged(meter)
	}
}
