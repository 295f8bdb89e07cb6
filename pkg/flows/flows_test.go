package flows

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/notify"
	"github.com/goliatone/go-authform/pkg/render"
	"github.com/goliatone/go-authform/pkg/storage"
	"github.com/goliatone/go-authform/pkg/submit"
	"github.com/goliatone/go-authform/pkg/testsupport"
	"github.com/goliatone/go-authform/pkg/validation"
)

var start = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type harness struct {
	sched  *testsupport.ManualScheduler
	store  *storage.MemoryStore
	nav    *testsupport.Navigator
	alerts *testsupport.Alerter
	center *notify.Center
}

func newHarness() *harness {
	h := &harness{
		sched:  testsupport.NewManualScheduler(start),
		store:  storage.NewMemoryStore(),
		nav:    &testsupport.Navigator{},
		alerts: &testsupport.Alerter{},
	}
	h.center = notify.NewCenter(notify.WithScheduler(h.sched), notify.WithAlerter(h.alerts))
	return h
}

func (h *harness) options(extra ...Option) []Option {
	return append([]Option{
		WithScheduler(h.sched),
		WithStore(h.store),
		WithNavigator(h.nav),
		WithNotifier(h.center),
		WithIDGenerator(func() string { return "req-1" }),
	}, extra...)
}

type submitResult struct {
	out submit.Outcome
	err error
}

// submitThroughDelay runs fn on its own goroutine and advances the clock
// past the simulated backend delay once the backend is waiting.
func (h *harness) submitThroughDelay(t *testing.T, fn func() (submit.Outcome, error)) (submit.Outcome, error) {
	t.Helper()
	want := h.sched.Pending() + 1
	done := make(chan submitResult, 1)
	go func() {
		out, err := fn()
		done <- submitResult{out: out, err: err}
	}()
	if !h.sched.WaitForTimers(want, time.Second) {
		t.Fatalf("backend never started waiting")
	}
	h.sched.Advance(submit.DefaultSimulatedDelay)
	select {
	case r := <-done:
		return r.out, r.err
	case <-time.After(time.Second):
		t.Fatalf("submit did not return")
		return submit.Outcome{}, nil
	}
}

func newLogin(t *testing.T, h *harness, extra ...Option) *Login {
	t.Helper()
	l, err := NewLogin(h.options(extra...)...)
	if err != nil {
		t.Fatalf("new login: %v", err)
	}
	return l
}

func newSignup(t *testing.T, h *harness, extra ...Option) *Signup {
	t.Helper()
	s, err := NewSignup(h.options(extra...)...)
	if err != nil {
		t.Fatalf("new signup: %v", err)
	}
	return s
}

func messages(ns []notify.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, string(n.Kind)+": "+n.Message)
	}
	return out
}

func TestLogin_SuccessWithRemember(t *testing.T) {
	h := newHarness()
	l := newLogin(t, h)

	_, _ = l.Input(FieldEmail, "a@b.com")
	_, _ = l.Input(FieldPassword, "secret")
	l.SetRemember(true)

	out, err := h.submitThroughDelay(t, func() (submit.Outcome, error) { return l.Submit(context.Background()) })
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.State != model.SubmissionSucceeded {
		t.Fatalf("expected succeeded, got %q", out.State)
	}
	if l.State() != model.SubmissionIdle {
		t.Fatalf("expected idle after submit, got %q", l.State())
	}

	if diff := cmp.Diff([]string{"success: Login successful! Redirecting..."}, messages(h.center.Active())); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}

	flag, _, _ := h.store.Get(context.Background(), storage.KeyRememberMe)
	email, _, _ := h.store.Get(context.Background(), storage.KeyUserEmail)
	if flag != "true" || email != "a@b.com" {
		t.Fatalf("remembered credential not stored: %q %q", flag, email)
	}

	h.sched.Advance(LoginRedirectDelay - time.Millisecond)
	if len(h.nav.Targets()) != 0 {
		t.Fatalf("redirected before the delay elapsed")
	}
	h.sched.Advance(time.Millisecond)
	if diff := cmp.Diff([]string{LoginRedirect}, h.nav.Targets()); diff != "" {
		t.Fatalf("redirect mismatch (-want +got):\n%s", diff)
	}

	h.sched.Advance(notify.DefaultTTL)
	if len(h.center.Active()) != 0 {
		t.Fatalf("notification not dismissed after its ttl")
	}
}

func TestLogin_InvalidEmailBlocksSubmit(t *testing.T) {
	h := newHarness()
	l := newLogin(t, h)

	_, _ = l.Input(FieldEmail, "bad")
	_, _ = l.Input(FieldPassword, "secret")

	_, err := l.Submit(context.Background())
	if !errors.Is(err, submit.ErrGateClosed) || !errors.Is(err, ErrInvalidFields) {
		t.Fatalf("expected closed gate on invalid fields, got %v", err)
	}

	want := model.FieldView{Message: validation.MsgEmailInvalid, Visual: model.VisualError}
	if diff := cmp.Diff(want, l.Context().View(FieldEmail)); diff != "" {
		t.Fatalf("email view mismatch (-want +got):\n%s", diff)
	}
	if len(h.store.Keys()) != 0 {
		t.Fatalf("blocked submit wrote storage: %v", h.store.Keys())
	}
	if h.sched.Pending() != 0 || len(h.nav.Targets()) != 0 {
		t.Fatalf("blocked submit scheduled work")
	}
}

func TestLogin_EmptyFieldsShowRequiredMessages(t *testing.T) {
	h := newHarness()
	l := newLogin(t, h)

	if _, err := l.Submit(context.Background()); !errors.Is(err, ErrInvalidFields) {
		t.Fatalf("expected ErrInvalidFields, got %v", err)
	}
	want := map[string]model.FieldView{
		FieldEmail:    {Message: MsgEmailRequired, Visual: model.VisualError},
		FieldPassword: {Message: MsgPasswordRequired, Visual: model.VisualError},
	}
	if diff := cmp.Diff(want, l.Context().Views()); diff != "" {
		t.Fatalf("views mismatch (-want +got):\n%s", diff)
	}
}

func TestLogin_UncheckedRememberClearsCredential(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	if err := storage.SaveRemembered(ctx, h.store, "old@b.com"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l := newLogin(t, h)
	if err := l.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	l.SetRemember(false)
	_, _ = l.Input(FieldPassword, "secret")

	if _, err := h.submitThroughDelay(t, func() (submit.Outcome, error) { return l.Submit(ctx) }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if keys := h.store.Keys(); len(keys) != 0 {
		t.Fatalf("expected remember keys removed, got %v", keys)
	}
}

func TestLogin_LoadPrefillsRememberedEmail(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	if err := storage.SaveRemembered(ctx, h.store, "a@b.com"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l := newLogin(t, h)
	if err := l.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := l.Context().Value(FieldEmail); got != "a@b.com" {
		t.Fatalf("expected prefilled email, got %q", got)
	}
	if diff := cmp.Diff(model.FieldView{Visual: model.VisualSuccess}, l.Context().View(FieldEmail)); diff != "" {
		t.Fatalf("prefilled view mismatch (-want +got):\n%s", diff)
	}
	if !l.Context().Checked(CheckRemember) {
		t.Fatalf("remember should be checked")
	}
}

func TestLogin_LoadIgnoresPartialCredential(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	_ = h.store.Set(ctx, storage.KeyUserEmail, "a@b.com")

	l := newLogin(t, h)
	if err := l.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Context().Value(FieldEmail) != "" || l.Context().Checked(CheckRemember) {
		t.Fatalf("partial credential must not prefill")
	}
}

func TestLogin_BackendFailureResetsFields(t *testing.T) {
	h := newHarness()
	backend := submit.BackendFunc(func(context.Context, submit.Request) (submit.Result, error) {
		return submit.Result{}, errors.New("boom")
	})
	l := newLogin(t, h, WithBackend(backend))

	_, _ = l.Input(FieldEmail, "a@b.com")
	_, _ = l.Input(FieldPassword, "secret")

	out, err := l.Submit(context.Background())
	if !errors.Is(err, submit.ErrSubmissionFailed) || out.State != model.SubmissionFailed {
		t.Fatalf("expected failed submission, got %#v %v", out, err)
	}

	want := map[string]model.FieldView{
		FieldEmail:    {Message: MsgLoginFailed, Visual: model.VisualError},
		FieldPassword: {Visual: model.VisualError},
	}
	if diff := cmp.Diff(want, l.Context().Views()); diff != "" {
		t.Fatalf("views mismatch (-want +got):\n%s", diff)
	}
	if l.Context().Value(FieldEmail) != "a@b.com" {
		t.Fatalf("failure must keep entered values")
	}
	if l.State() != model.SubmissionIdle {
		t.Fatalf("expected idle after failure, got %q", l.State())
	}
}

func TestLogin_LocalizedFailure(t *testing.T) {
	h := newHarness()
	backend := submit.BackendFunc(func(context.Context, submit.Request) (submit.Result, error) {
		return submit.Result{}, errors.New("boom")
	})
	l := newLogin(t, h, WithBackend(backend),
		WithLocalizer(render.Localizer{Locale: "es", Translator: render.DefaultCatalog()}))

	_, _ = l.Input(FieldEmail, "a@b.com")
	_, _ = l.Input(FieldPassword, "secret")
	_, _ = l.Submit(context.Background())

	if got := l.Context().View(FieldEmail).Message; got != "Correo o contraseña no válidos" {
		t.Fatalf("expected spanish failure message, got %q", got)
	}
}

func fillSignup(s *Signup, password, confirm string) {
	_, _ = s.Input(FieldFirstName, "Ada")
	_, _ = s.Input(FieldLastName, "Lovelace")
	_, _ = s.Input(FieldEmail, " ada@example.com ")
	_, _ = s.Input(FieldPassword, password)
	_, _ = s.Input(FieldConfirmPassword, confirm)
}

func TestSignup_StrongPasswordIsValid(t *testing.T) {
	h := newHarness()
	s := newSignup(t, h)

	res, err := s.Input(FieldPassword, "Abc12345!")
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if res.State != model.FieldStateValid {
		t.Fatalf("expected valid, got %#v", res)
	}
	if meter := s.Context().Meter(); meter.Bucket != model.StrengthStrong {
		t.Fatalf("expected strong meter, got %#v", meter)
	}
}

func TestSignup_WeakPasswordBlocksDespiteMatch(t *testing.T) {
	h := newHarness()
	s := newSignup(t, h)
	fillSignup(s, "abcdefgh", "abcdefgh")
	s.SetTerms(true)

	if meter := s.Context().Meter(); meter.Bucket != model.StrengthWeak {
		t.Fatalf("expected weak meter, got %#v", meter)
	}
	_, err := s.Submit(context.Background())
	if !errors.Is(err, ErrInvalidFields) {
		t.Fatalf("expected ErrInvalidFields, got %v", err)
	}
	if diff := cmp.Diff(model.FieldView{Message: validation.MsgPasswordWeak, Visual: model.VisualError}, s.Context().View(FieldPassword)); diff != "" {
		t.Fatalf("password view mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.FieldView{Visual: model.VisualSuccess}, s.Context().View(FieldConfirmPassword)); diff != "" {
		t.Fatalf("confirm view mismatch (-want +got):\n%s", diff)
	}
}

func TestSignup_TermsGateRaisesAlert(t *testing.T) {
	h := newHarness()
	s := newSignup(t, h)
	fillSignup(s, "Abc12345!", "Abc12345!")

	_, err := s.Submit(context.Background())
	if !errors.Is(err, ErrTermsNotAccepted) || errors.Is(err, ErrInvalidFields) {
		t.Fatalf("expected only the terms gate to close, got %v", err)
	}
	if diff := cmp.Diff([]string{validation.MsgTermsRequired}, h.alerts.Messages()); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
	if s.State() != model.SubmissionIdle {
		t.Fatalf("rejected submit changed state to %q", s.State())
	}
}

func TestSignup_SuccessStoresProfileAndRedirects(t *testing.T) {
	h := newHarness()
	s := newSignup(t, h)
	fillSignup(s, "Abc12345!", "Abc12345!")
	s.SetTerms(true)

	if _, err := h.submitThroughDelay(t, func() (submit.Outcome, error) { return s.Submit(context.Background()) }); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if diff := cmp.Diff([]string{"success: " + MsgSignupSuccess}, messages(h.center.Active())); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	profile, ok, err := storage.LoadProfile(context.Background(), h.store)
	if err != nil || !ok {
		t.Fatalf("profile not stored: %v", err)
	}
	want := storage.Profile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", CreatedAt: "2024-05-01T09:30:02.000Z"}
	if diff := cmp.Diff(want, profile); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}

	h.sched.Advance(SignupRedirectDelay)
	if diff := cmp.Diff([]string{SignupRedirect}, h.nav.Targets()); diff != "" {
		t.Fatalf("redirect mismatch (-want +got):\n%s", diff)
	}
}

func TestSignup_FailureMapsPayloadErrors(t *testing.T) {
	h := newHarness()
	backend := submit.BackendFunc(func(context.Context, submit.Request) (submit.Result, error) {
		return submit.Result{}, fmt.Errorf("remote: %w", &validation.PayloadError{Fields: map[string][]string{
			"/body/lastName": {"Last name is taken"},
			"nickname":       {"Nickname is reserved"},
			"form":           {"Try again later"},
		}})
	})
	s := newSignup(t, h, WithBackend(backend))
	fillSignup(s, "Abc12345!", "Abc12345!")
	s.SetTerms(true)

	if _, err := s.Submit(context.Background()); !errors.Is(err, submit.ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed, got %v", err)
	}
	if diff := cmp.Diff(model.FieldView{Message: MsgSignupFailed, Visual: model.VisualError}, s.Context().View(FieldEmail)); diff != "" {
		t.Fatalf("email view mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.FieldView{Message: "Last name is taken", Visual: model.VisualError}, s.Context().View(FieldLastName)); diff != "" {
		t.Fatalf("last name view mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Try again later\nNickname is reserved"}, h.alerts.Messages()); diff != "" {
		t.Fatalf("form-level alert mismatch (-want +got):\n%s", diff)
	}
	if len(h.store.Keys()) != 0 {
		t.Fatalf("failed signup wrote storage")
	}
}

func TestSignup_PlainBackendErrorShowsGenericMessage(t *testing.T) {
	h := newHarness()
	backend := submit.BackendFunc(func(context.Context, submit.Request) (submit.Result, error) {
		return submit.Result{}, errors.New("boom")
	})
	s := newSignup(t, h, WithBackend(backend))
	fillSignup(s, "Abc12345!", "Abc12345!")
	s.SetTerms(true)

	out, err := s.Submit(context.Background())
	if !errors.Is(err, submit.ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed, got %v", err)
	}
	if out.State != model.SubmissionFailed || s.State() != model.SubmissionIdle {
		t.Fatalf("outcome %q, controller %q", out.State, s.State())
	}
	if diff := cmp.Diff(model.FieldView{Message: MsgSignupFailed, Visual: model.VisualError}, s.Context().View(FieldEmail)); diff != "" {
		t.Fatalf("email view mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.FieldView{Visual: model.VisualSuccess}, s.Context().View(FieldFirstName)); diff != "" {
		t.Fatalf("first name view mismatch (-want +got):\n%s", diff)
	}

	wantValues := map[string]string{
		FieldFirstName:       "Ada",
		FieldLastName:        "Lovelace",
		FieldEmail:           "ada@example.com",
		FieldPassword:        "Abc12345!",
		FieldConfirmPassword: "Abc12345!",
	}
	if diff := cmp.Diff(wantValues, s.Form().Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(h.alerts.Messages()) != 0 {
		t.Fatalf("unexpected alerts: %v", h.alerts.Messages())
	}
	if len(h.store.Keys()) != 0 {
		t.Fatalf("failed signup wrote storage")
	}
}

func TestSignup_ShowTerms(t *testing.T) {
	h := newHarness()
	s := newSignup(t, h)
	s.ShowTerms()
	if diff := cmp.Diff([]string{MsgTermsNotice}, h.alerts.Messages()); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestTogglePasswordVisibilityTwiceRestoresMask(t *testing.T) {
	h := newHarness()
	s := newSignup(t, h)
	s.TogglePasswordVisibility(FieldPassword)
	if got := s.TogglePasswordVisibility(FieldPassword); got != "password" {
		t.Fatalf("expected masked after two toggles, got %q", got)
	}
}

func TestClose_CancelsPendingRedirect(t *testing.T) {
	h := newHarness()
	l := newLogin(t, h)
	_, _ = l.Input(FieldEmail, "a@b.com")
	_, _ = l.Input(FieldPassword, "secret")

	if _, err := h.submitThroughDelay(t, func() (submit.Outcome, error) { return l.Submit(context.Background()) }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	h.sched.Advance(LoginRedirectDelay)
	if len(h.nav.Targets()) != 0 {
		t.Fatalf("redirect fired after close")
	}
}
