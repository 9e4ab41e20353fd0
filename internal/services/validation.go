package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator builds a validator that reports fields by their JSON name
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct checks the validate tags of s and converts the first
// failure into an apperrors.ErrValidation naming the offending field.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return apperrors.Validation("invalid request")
	}

	fe := fieldErrors[0]
	switch fe.Tag() {
	case "required":
		return apperrors.Validation("%s is required", fe.Field())
	case "email":
		return apperrors.Validation("%s must be a valid email address", fe.Field())
	case "min":
		return apperrors.Validation("%s must be at least %s characters", fe.Field(), fe.Param())
	case "url":
		return apperrors.Validation("%s must be a valid URL", fe.Field())
	default:
		return apperrors.Validation("%s is invalid", fe.Field())
	}
}
