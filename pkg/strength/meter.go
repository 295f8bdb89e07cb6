package strength

import "github.com/goliatone/go-authform/pkg/model"

// Meter is the visible state of the strength indicator.
type Meter struct {
	Bucket model.Strength `json:"bucket"`
	Label  string         `json:"label"`
	Color  string         `json:"color"`
	// Fill is the share of the bar that is filled, in percent.
	Fill int `json:"fill"`
}

// Neutral is shown before the user has typed anything.
var Neutral = Meter{Bucket: model.StrengthNone, Label: "Password strength", Color: "#666"}

var meters = map[model.Strength]Meter{
	model.StrengthWeak:   {Bucket: model.StrengthWeak, Label: "Weak password", Color: "#e74c3c", Fill: 33},
	model.StrengthMedium: {Bucket: model.StrengthMedium, Label: "Medium password", Color: "#f39c12", Fill: 66},
	model.StrengthStrong: {Bucket: model.StrengthStrong, Label: "Strong password", Color: "#27ae60", Fill: 100},
}

// Indicator returns the meter for a bucket, falling back to Neutral.
func Indicator(bucket model.Strength) Meter {
	if m, ok := meters[bucket]; ok {
		return m
	}
	return Neutral
}

// MeterFor evaluates a password and returns its meter.
func MeterFor(password string) Meter {
	return Indicator(Evaluate(password).Bucket)
}
