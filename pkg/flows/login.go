package flows

import (
	"context"
	"time"

	"github.com/goliatone/go-authform/internal/log"
	"github.com/goliatone/go-authform/pkg/form"
	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/social"
	"github.com/goliatone/go-authform/pkg/storage"
	"github.com/goliatone/go-authform/pkg/submit"
	"github.com/goliatone/go-authform/pkg/validation"
)

// Login form field and checkbox names.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	CheckRemember = "remember"
)

// Login defaults.
const (
	LoginRedirect      = "/dashboard.html"
	LoginRedirectDelay = 1500 * time.Millisecond
)

// Login messages.
const (
	MsgEmailRequired    = "Email is required"
	MsgPasswordRequired = "Password is required"
	MsgLoginSuccess     = "Login successful! Redirecting..."
	MsgLoginFailed      = "Invalid email or password"
)

// Credentials is the login payload handed to the backend.
type Credentials struct {
	Email    string `json:"email" validate:"required,email_shape"`
	Password string `json:"password" validate:"required,min=6"`
	Remember bool   `json:"remember"`
}

// LoginSpec is the login field table.
func LoginSpec(*form.Context) form.Spec {
	return form.Spec{
		Name: "login",
		Fields: []model.FieldSpec{
			{Name: FieldEmail, Label: "Email", Required: true, Trim: true, RequiredMessage: MsgEmailRequired, Validate: validation.Email},
			{Name: FieldPassword, Label: "Password", Required: true, Secret: true, RequiredMessage: MsgPasswordRequired, Validate: validation.LoginPassword},
		},
	}
}

// Login is the login page.
type Login struct {
	*flow
}

// NewLogin builds the login flow. Call Load before the first interaction to
// apply the remembered credential.
func NewLogin(options ...Option) (*Login, error) {
	l := &Login{}
	f, err := newFlow(flowDefaults{
		name:          "login",
		variant:       social.VariantLogin,
		redirect:      LoginRedirect,
		redirectDelay: LoginRedirectDelay,
		spec:          LoginSpec,
	}, submit.Hooks{
		OnSuccess: l.onSuccess,
		OnFailure: l.onFailure,
	}, options)
	if err != nil {
		return nil, err
	}
	l.flow = f
	return l, nil
}

// Load prefills the email and the remember checkbox from the stored
// credential. A missing or partial credential leaves the form untouched.
func (l *Login) Load(ctx context.Context) error {
	cred, ok, err := storage.LoadRemembered(ctx, l.store)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := l.form.Prefill(FieldEmail, cred.Email); err != nil {
		return err
	}
	l.form.Context().SetChecked(CheckRemember, true)
	l.log.DebugContext(ctx, "remembered credential applied")
	return nil
}

// SetRemember updates the remember-me checkbox.
func (l *Login) SetRemember(checked bool) {
	l.form.Context().SetChecked(CheckRemember, checked)
}

// Submit validates every field and, when they all pass, runs the submission.
func (l *Login) Submit(ctx context.Context) (submit.Outcome, error) {
	values := l.form.Values()
	payload := Credentials{
		Email:    values[FieldEmail],
		Password: values[FieldPassword],
		Remember: l.form.Context().Checked(CheckRemember),
	}
	return l.submit.Submit(ctx, payload, l.validFields)
}

func (l *Login) onSuccess(ctx context.Context, req submit.Request, _ submit.Result) {
	l.center.Success(l.message(MsgLoginSuccess))

	cred, _ := req.Payload.(Credentials)
	var err error
	if cred.Remember {
		err = storage.SaveRemembered(ctx, l.store, cred.Email)
	} else {
		err = storage.ClearRemembered(ctx, l.store)
	}
	if err != nil {
		l.log.ErrorContext(ctx, "remember-me update failed", err, log.Bool("remember", cred.Remember))
	}

	l.scheduleRedirect()
}

func (l *Login) onFailure(ctx context.Context, _ submit.Request, err error) {
	l.log.WarnContext(ctx, "login rejected", log.String("error", err.Error()))
	if markErr := l.form.MarkFailed(FieldEmail, MsgLoginFailed, FieldPassword); markErr != nil {
		l.log.ErrorContext(ctx, "failure reset failed", markErr)
	}
}
