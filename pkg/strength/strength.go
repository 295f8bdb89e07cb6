// Package strength scores passwords against five independent criteria and
// maps the score onto the weak/medium/strong meter shown next to the signup
// password field.
package strength

import (
	"unicode/utf8"

	"github.com/goliatone/go-authform/pkg/model"
)

// MinLength is the length criterion threshold.
const MinLength = 8

// Criteria records which of the five checks a password satisfies.
type Criteria struct {
	Length    bool `json:"length"`
	Lowercase bool `json:"lowercase"`
	Uppercase bool `json:"uppercase"`
	Digit     bool `json:"digit"`
	Symbol    bool `json:"symbol"`
}

// Count returns the number of satisfied criteria (0-5).
func (c Criteria) Count() int {
	n := 0
	for _, ok := range []bool{c.Length, c.Lowercase, c.Uppercase, c.Digit, c.Symbol} {
		if ok {
			n++
		}
	}
	return n
}

// Report is the evaluator output.
type Report struct {
	Criteria Criteria       `json:"criteria"`
	Count    int            `json:"count"`
	Bucket   model.Strength `json:"bucket"`
}

// Evaluate scores a password. An empty password scores zero with no bucket.
func Evaluate(password string) Report {
	if password == "" {
		return Report{Bucket: model.StrengthNone}
	}

	c := Criteria{Length: utf8.RuneCountInString(password) >= MinLength}
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			c.Lowercase = true
		case r >= 'A' && r <= 'Z':
			c.Uppercase = true
		case r >= '0' && r <= '9':
			c.Digit = true
		default:
			c.Symbol = true
		}
	}

	count := c.Count()
	return Report{Criteria: c, Count: count, Bucket: Bucket(count)}
}

// Bucket maps a criteria count onto a strength bucket: <=2 weak, 3 medium,
// >=4 strong. Zero satisfied criteria only happens for the empty string.
func Bucket(count int) model.Strength {
	switch {
	case count <= 0:
		return model.StrengthNone
	case count <= 2:
		return model.StrengthWeak
	case count == 3:
		return model.StrengthMedium
	default:
		return model.StrengthStrong
	}
}

// Acceptable reports whether a password reaches the medium bucket.
func Acceptable(password string) bool {
	return Evaluate(password).Bucket.AtLeast(model.StrengthMedium)
}
