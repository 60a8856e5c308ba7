package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type optionalField interface {
	validationValue() any
}

// newValidator builds a validator that reports json field names and sees
// through Optional wrappers.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if opt, ok := field.Interface().(optionalField); ok {
			return opt.validationValue()
		}
		return nil
	}, Optional[string]{}, Optional[bool]{}, Optional[int]{}, Optional[uint]{}, Optional[time.Time]{})

	return v
}

// validationErrors converts validator output into the 422 response body.
func validationErrors(err error) ValidationErrorResponse {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrorResponse{Detail: []ValidationError{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}}
	}

	resp := ValidationErrorResponse{Detail: make([]ValidationError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		resp.Detail = append(resp.Detail, ValidationError{
			Loc:  []string{"body", fe.Field()},
			Msg:  fieldMessage(fe),
			Type: "value_error." + fe.Tag(),
		})
	}
	return resp
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}

func bodyError(err error) ValidationErrorResponse {
	return ValidationErrorResponse{Detail: []ValidationError{{
		Loc:  []string{"body"},
		Msg:  err.Error(),
		Type: "value_error.jsondecode",
	}}}
}

func pathError(param string) ValidationErrorResponse {
	return ValidationErrorResponse{Detail: []ValidationError{{
		Loc:  []string{"path", param},
		Msg:  "value is not a valid integer",
		Type: "type_error.integer",
	}}}
}

func nullErrors(fields []string) ValidationErrorResponse {
	resp := ValidationErrorResponse{Detail: make([]ValidationError, 0, len(fields))}
	for _, name := range fields {
		resp.Detail = append(resp.Detail, ValidationError{
			Loc:  []string{"body", name},
			Msg:  "none is not an allowed value",
			Type: "type_error.none.not_allowed",
		})
	}
	return resp
}
