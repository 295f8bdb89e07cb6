package model

// FieldState classifies the current content of a single input.
type FieldState string

const (
	FieldStateEmpty   FieldState = "empty"
	FieldStateInvalid FieldState = "invalid"
	FieldStateValid   FieldState = "valid"
)

// Visual is the three-way classification applied to a field wrapper.
type Visual string

const (
	VisualNone    Visual = ""
	VisualError   Visual = "error"
	VisualSuccess Visual = "success"
)

// ErrorCode identifies why a field (or the form) was rejected.
type ErrorCode string

const (
	ErrorNone             ErrorCode = ""
	ErrorMissingRequired  ErrorCode = "missing_required"
	ErrorFormatInvalid    ErrorCode = "format_invalid"
	ErrorTooShort         ErrorCode = "too_short"
	ErrorTooWeak          ErrorCode = "too_weak"
	ErrorMismatch         ErrorCode = "mismatch"
	ErrorTermsNotAccepted ErrorCode = "terms_not_accepted"
	ErrorSubmissionFailed ErrorCode = "submission_failed"
)

// Strength is the bucket a password falls into.
type Strength string

const (
	StrengthNone   Strength = ""
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// Rank orders buckets so callers can compare them (none < weak < medium < strong).
func (s Strength) Rank() int {
	switch s {
	case StrengthWeak:
		return 1
	case StrengthMedium:
		return 2
	case StrengthStrong:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether s is the same as or stronger than other.
func (s Strength) AtLeast(other Strength) bool {
	return s.Rank() >= other.Rank()
}

// SubmissionState is the state of a form's submission state machine.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSucceeded  SubmissionState = "succeeded"
	SubmissionFailed     SubmissionState = "failed"
)

// Result is what a validator returns for a single value. Message is only set
// when State is FieldStateInvalid.
type Result struct {
	State   FieldState `json:"state"`
	Code    ErrorCode  `json:"code,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Valid builds a valid result.
func Valid() Result { return Result{State: FieldStateValid} }

// Empty builds an empty result.
func Empty() Result { return Result{State: FieldStateEmpty} }

// Invalid builds an invalid result carrying an error code and message.
func Invalid(code ErrorCode, message string) Result {
	return Result{State: FieldStateInvalid, Code: code, Message: message}
}

// Validator turns a field value into a Result. Implementations must be pure.
type Validator func(value string) Result

// FieldSpec is one row of a form's field table.
type FieldSpec struct {
	Name     string
	Label    string
	Required bool
	// RequiredMessage is shown when a required field is empty on submit.
	RequiredMessage string
	// Trim strips surrounding whitespace before the value is validated and
	// stored for submission.
	Trim     bool
	Secret   bool
	Validate Validator
	// DependsOn lists fields whose change re-validates this one (e.g. the
	// confirmation depends on the password).
	DependsOn []string
}

// FieldView is the observable representation of a field: the inline error
// text plus the visual class on its wrapper.
type FieldView struct {
	Message string `json:"message,omitempty"`
	Visual  Visual `json:"visual,omitempty"`
}

// ViewFor derives the view for a result. Empty results clear everything.
func ViewFor(res Result) FieldView {
	switch res.State {
	case FieldStateInvalid:
		return FieldView{Message: res.Message, Visual: VisualError}
	case FieldStateValid:
		return FieldView{Visual: VisualSuccess}
	default:
		return FieldView{}
	}
}
