package apperr

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(field.Name)
		}
		return name
	})
	return v
}

// ValidateStruct runs the `validate` tags of s and reports the first failure
// as a *ValidationError.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return NewValidationError(field, field+" is required")
	case "min":
		return NewValidationError(field, field+" must be at least "+fe.Param()+" characters")
	case "max":
		return NewValidationError(field, field+" must be at most "+fe.Param()+" characters")
	case "email":
		return NewValidationError(field, field+" must be a valid email")
	case "hexcolor":
		return NewValidationError(field, field+" must be a hex color")
	case "oneof":
		return NewValidationError(field, field+" must be one of "+fe.Param())
	default:
		return NewValidationError(field, field+" is invalid")
	}
}
