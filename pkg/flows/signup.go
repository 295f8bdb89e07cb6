package flows

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-authform/internal/log"
	"github.com/goliatone/go-authform/pkg/form"
	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/social"
	"github.com/goliatone/go-authform/pkg/storage"
	"github.com/goliatone/go-authform/pkg/submit"
	"github.com/goliatone/go-authform/pkg/validation"
)

// Signup form field and checkbox names.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldConfirmPassword = "confirmPassword"
	CheckTerms           = "terms"
)

// Signup defaults.
const (
	SignupRedirect      = "index.html"
	SignupRedirectDelay = 2000 * time.Millisecond
)

// Signup messages.
const (
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgConfirmRequired   = "Please confirm your password"
	MsgSignupSuccess     = "Account created successfully! Welcome aboard!"
	MsgSignupFailed      = "An error occurred. Please try again."
	MsgTermsNotice       = "Terms of Service and Privacy Policy would be displayed here."
)

// Registration is the signup payload handed to the backend.
type Registration struct {
	FirstName       string `json:"firstName" validate:"required,min=2"`
	LastName        string `json:"lastName" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email_shape"`
	Password        string `json:"password" validate:"required,password_strength"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	TermsAccepted   bool   `json:"termsAccepted" validate:"required"`
}

// SignupSpec is the signup field table. Confirm depends on password so it is
// re-checked whenever the password changes.
func SignupSpec(ctx *form.Context) form.Spec {
	return form.Spec{
		Name:          "signup",
		StrengthField: FieldPassword,
		Fields: []model.FieldSpec{
			{Name: FieldFirstName, Label: "First name", Required: true, Trim: true, RequiredMessage: MsgFirstNameRequired, Validate: validation.Name("First name")},
			{Name: FieldLastName, Label: "Last name", Required: true, Trim: true, RequiredMessage: MsgLastNameRequired, Validate: validation.Name("Last name")},
			{Name: FieldEmail, Label: "Email", Required: true, Trim: true, RequiredMessage: MsgEmailRequired, Validate: validation.Email},
			{Name: FieldPassword, Label: "Password", Required: true, Secret: true, RequiredMessage: MsgPasswordRequired, Validate: validation.SignupPassword},
			{
				Name:            FieldConfirmPassword,
				Label:           "Confirm password",
				Required:        true,
				Secret:          true,
				RequiredMessage: MsgConfirmRequired,
				Validate:        validation.Confirm(func() string { return ctx.Value(FieldPassword) }),
				DependsOn:       []string{FieldPassword},
			},
		},
	}
}

// Signup is the account creation page.
type Signup struct {
	*flow
}

// NewSignup builds the signup flow.
func NewSignup(options ...Option) (*Signup, error) {
	s := &Signup{}
	f, err := newFlow(flowDefaults{
		name:          "signup",
		variant:       social.VariantSignup,
		redirect:      SignupRedirect,
		redirectDelay: SignupRedirectDelay,
		spec:          SignupSpec,
	}, submit.Hooks{
		OnSuccess: s.onSuccess,
		OnFailure: s.onFailure,
	}, options)
	if err != nil {
		return nil, err
	}
	s.flow = f
	return s, nil
}

// SetTerms updates the terms checkbox.
func (s *Signup) SetTerms(accepted bool) {
	s.form.Context().SetChecked(CheckTerms, accepted)
}

// ShowTerms is the terms link: it shows a placeholder notice.
func (s *Signup) ShowTerms() {
	s.center.Alert(s.message(MsgTermsNotice))
}

// Submit surfaces every field error, raises the terms alert when the
// checkbox is clear and runs the submission only when both pass.
func (s *Signup) Submit(ctx context.Context) (submit.Outcome, error) {
	values := s.form.Values()
	c := s.form.Context()
	payload := Registration{
		FirstName:       values[FieldFirstName],
		LastName:        values[FieldLastName],
		Email:           values[FieldEmail],
		Password:        values[FieldPassword],
		ConfirmPassword: values[FieldConfirmPassword],
		TermsAccepted:   c.Checked(CheckTerms),
	}
	return s.submit.Submit(ctx, payload, s.gate)
}

func (s *Signup) gate() error {
	fieldsErr := s.validFields()
	var termsErr error
	if !s.form.Context().Checked(CheckTerms) {
		termsErr = ErrTermsNotAccepted
		s.center.Alert(s.message(validation.MsgTermsRequired))
	}
	return errors.Join(fieldsErr, termsErr)
}

func (s *Signup) onSuccess(ctx context.Context, req submit.Request, _ submit.Result) {
	s.center.Success(s.message(MsgSignupSuccess))

	reg, _ := req.Payload.(Registration)
	profile := storage.NewProfile(reg.FirstName, reg.LastName, reg.Email, s.sched.Now())
	if err := storage.SaveProfile(ctx, s.store, profile); err != nil {
		s.log.ErrorContext(ctx, "profile save failed", err)
	}

	s.scheduleRedirect()
}

// onFailure shows the generic error on email. Backend field errors that map
// onto the form replace it on their own fields; form-level messages are
// raised as one alert.
func (s *Signup) onFailure(ctx context.Context, _ submit.Request, err error) {
	s.log.WarnContext(ctx, "signup rejected", log.String("error", err.Error()))

	mapped := render.ErrorMapping{}
	var perr *validation.PayloadError
	if errors.As(err, &perr) {
		names := make([]string, 0, len(s.form.Spec().Fields))
		for _, field := range s.form.Spec().Fields {
			names = append(names, field.Name)
		}
		mapped = render.MapErrorPayload(names, perr.Fields)
	}

	if _, ok := mapped.Fields[FieldEmail]; !ok {
		if markErr := s.form.MarkFailed(FieldEmail, MsgSignupFailed); markErr != nil {
			s.log.ErrorContext(ctx, "failure reset failed", markErr)
		}
	}
	for field, messages := range mapped.Fields {
		if setErr := s.form.SetFieldError(field, messages[0]); setErr != nil {
			s.log.ErrorContext(ctx, "field error not applied", setErr, log.String("field", field))
		}
	}
	if len(mapped.Form) > 0 {
		s.center.Alert(strings.Join(mapped.Form, "\n"))
	}
}
