package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-authform/pkg/strength"
)

var (
	payloadOnce      sync.Once
	payloadValidator *validator.Validate
)

// PayloadError collects struct-level validation failures keyed by the JSON
// name of each offending field.
type PayloadError struct {
	Fields map[string][]string
}

func (e *PayloadError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation: invalid payload"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return "validation: invalid payload (" + strings.Join(parts, ", ") + ")"
}

// Struct validates a payload struct using `validate` tags. Besides the
// built-in validator tags, `email_shape` and `password_strength` apply the
// same rules as the field validators.
func Struct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation: %w", err)
	}

	out := &PayloadError{Fields: make(map[string][]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = append(out.Fields[fe.Field()], describe(fe))
	}
	return out
}

func structValidator() *validator.Validate {
	payloadOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
			return MatchesEmailShape(fl.Field().String())
		})
		_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
			return strength.Acceptable(fl.Field().String())
		})
		payloadValidator = v
	})
	return payloadValidator
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "email_shape":
		return MsgEmailInvalid
	case "password_strength":
		return MsgPasswordWeak
	case "eqfield":
		return MsgPasswordsDiffer
	default:
		return "failed " + fe.Tag()
	}
}
