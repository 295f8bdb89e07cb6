package render_test

import (
	"errors"
	"testing"

	"golang.org/x/text/language"

	"github.com/goliatone/go-authform/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestCatalog_MatchesRegionalLocales(t *testing.T) {
	c := render.DefaultCatalog()

	cases := map[string]language.Tag{
		"":                language.English,
		"es":              language.Spanish,
		"es-MX":           language.Spanish,
		"fr":              language.English,
		"fr-CA, es;q=0.8": language.Spanish,
		"not a locale!!":  language.English,
	}
	for locale, want := range cases {
		if got := c.Match(locale); got != want {
			t.Fatalf("Match(%q) = %v, want %v", locale, got, want)
		}
	}
}

func TestCatalog_Translate(t *testing.T) {
	c := render.DefaultCatalog()

	got, err := c.Translate("es", "Passwords do not match")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "Las contraseñas no coinciden" {
		t.Fatalf("unexpected translation %q", got)
	}

	got, err = c.Translate("es", "%s login functionality would be implemented here.", "Google")
	if err != nil {
		t.Fatalf("Translate with args: %v", err)
	}
	if got != "Aquí se implementaría el inicio de sesión con Google." {
		t.Fatalf("unexpected formatted translation %q", got)
	}

	if _, err := c.Translate("en", "Passwords do not match"); !errors.Is(err, render.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation for english key, got %v", err)
	}
}

func TestLocalizer_FallsBackToEnglishText(t *testing.T) {
	l := render.Localizer{Locale: "en", Translator: render.DefaultCatalog()}
	if got := l.Message("Invalid email or password"); got != "Invalid email or password" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := l.Message("%s signup functionality would be implemented here.", "GitHub"); got != "GitHub signup functionality would be implemented here." {
		t.Fatalf("expected formatted fallback, got %q", got)
	}

	var zero render.Localizer
	if got := zero.Message("Connecting..."); got != "Connecting..." {
		t.Fatalf("zero localizer changed message: %q", got)
	}
}

func TestLocalizer_OnMissingHandler(t *testing.T) {
	var seen error
	l := render.Localizer{
		Locale:     "es",
		Translator: stubTranslator{"Weak password": "Contraseña débil"},
		OnMissing: func(_ string, key string, _ []any, err error) string {
			seen = err
			return "[" + key + "]"
		},
	}

	if got := l.Message("Weak password"); got != "Contraseña débil" {
		t.Fatalf("expected translation, got %q", got)
	}
	if got := l.Message("Strong password"); got != "[Strong password]" {
		t.Fatalf("expected handler output, got %q", got)
	}
	if seen == nil {
		t.Fatalf("expected handler to receive the lookup error")
	}

	l.Translator = nil
	l.Message("Strong password")
	if !errors.Is(seen, render.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", seen)
	}
}
