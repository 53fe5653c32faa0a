package screen

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Rejection is an operation refused by a screen before any gateway call.
// Its message is shown to the user as is.
type Rejection struct {
	msg string
}

func Reject(msg string) *Rejection {
	return &Rejection{msg: msg}
}

func (r *Rejection) Error() string {
	return r.msg
}

// ValidationError is a form field that failed its required or numeric
// bound check.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator is the shared validator; field names are reported by their
// json tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks v's validate tags and returns the first failure as a
// *ValidationError.
func Validate(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(err, "validate")
	}
	return FieldError(fieldErrs[0])
}

// FieldError renders one validator failure.
func FieldError(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return Invalid(field, "%s is required", field)
	case "gte", "min":
		if fe.Kind() == reflect.Slice {
			return Invalid(field, "%s needs at least %s item(s)", field, fe.Param())
		}
		return Invalid(field, "%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return Invalid(field, "%s must be at most %s", field, fe.Param())
	default:
		return Invalid(field, "%s is invalid", field)
	}
}

// Flatten turns err into the string shown to the user. Validation errors
// and rejections keep their own message; anything else, gateway failures
// included, becomes fallback.
func Flatten(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.msg
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}
	return fallback
}

// IsUserError reports whether err was raised locally, before any gateway
// call.
func IsUserError(err error) bool {
	var ve *ValidationError
	var rej *Rejection
	return errors.As(err, &ve) || errors.As(err, &rej)
}
