// Package validation holds the per-field validators used by the login and
// signup forms. Every validator is a pure function of the value it receives:
// an empty value is always FieldStateEmpty (never invalid), so callers decide
// separately whether emptiness blocks a submit.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-authform/pkg/model"
	"github.com/goliatone/go-authform/pkg/strength"
)

// Default messages. Keys for translation live in pkg/render.
const (
	MsgEmailInvalid    = "Please enter a valid email address"
	MsgLoginPassword   = "Password must be at least 6 characters long"
	MsgPasswordLength  = "Password must be at least %d characters long"
	MsgPasswordWeak    = "Password is too weak"
	MsgPasswordsDiffer = "Passwords do not match"
	MsgNameTooShort    = "%s must be at least 2 characters"
	MsgTermsRequired   = "Please accept the Terms of Service and Privacy Policy"
)

const (
	LoginPasswordMinLength = 6
	NameMinLength          = 2
)

// emailPattern is a shape check only: something@something.something with no
// whitespace or extra '@' in any part. It accepts plenty of addresses that are
// not deliverable and is not an RFC 5322 grammar. Whitespace includes the
// byte order mark.
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}\v\x{FEFF}@]+@[^\s\p{Z}\v\x{FEFF}@]+\.[^\s\p{Z}\v\x{FEFF}@]+$`)

// MatchesEmailShape reports whether s has the minimal email shape.
func MatchesEmailShape(s string) bool {
	return emailPattern.MatchString(s)
}

// Email validates an email address shape after trimming surrounding
// whitespace.
func Email(value string) model.Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.Empty()
	}
	if !MatchesEmailShape(value) {
		return model.Invalid(model.ErrorFormatInvalid, MsgEmailInvalid)
	}
	return model.Valid()
}

// Name returns a validator for a person name field; label prefixes the
// error message ("First name must be at least 2 characters").
func Name(label string) model.Validator {
	message := fmt.Sprintf(MsgNameTooShort, label)
	return func(value string) model.Result {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return model.Empty()
		}
		if utf8.RuneCountInString(trimmed) < NameMinLength {
			return model.Invalid(model.ErrorTooShort, message)
		}
		return model.Valid()
	}
}

var loginPassword = PasswordLength(LoginPasswordMinLength)

// LoginPassword accepts any password of at least six characters.
func LoginPassword(value string) model.Result {
	return loginPassword(value)
}

// SignupPassword requires the password to reach at least the medium strength
// bucket.
func SignupPassword(value string) model.Result {
	if value == "" {
		return model.Empty()
	}
	if !strength.Acceptable(value) {
		return model.Invalid(model.ErrorTooWeak, MsgPasswordWeak)
	}
	return model.Valid()
}

// PasswordLength is a length-only password policy counted in runes. Login
// uses it with six; signup relies on strength instead.
func PasswordLength(n int) model.Validator {
	message := fmt.Sprintf(MsgPasswordLength, n)
	return func(value string) model.Result {
		if value == "" {
			return model.Empty()
		}
		if utf8.RuneCountInString(value) < n {
			return model.Invalid(model.ErrorTooShort, message)
		}
		return model.Valid()
	}
}

// Confirm returns a validator that compares a value byte-for-byte against the
// current password, read lazily so the comparison always sees the latest
// password.
func Confirm(password func() string) model.Validator {
	return func(value string) model.Result {
		if value == "" {
			return model.Empty()
		}
		if password == nil || value != password() {
			return model.Invalid(model.ErrorMismatch, MsgPasswordsDiffer)
		}
		return model.Valid()
	}
}

// Required upgrades an empty result to MissingRequired. It is applied on
// submit only; per-keystroke validation leaves empty fields neutral.
func Required(res model.Result, message string) model.Result {
	if res.State != model.FieldStateEmpty {
		return res
	}
	if message == "" {
		message = "This field is required"
	}
	return model.Invalid(model.ErrorMissingRequired, message)
}
