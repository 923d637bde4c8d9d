// Package validator adapts go-playground/validator to echo.Validator.
package validator

import (
	"strings"

	"orienteer/internal/domain/entity"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError describes one failed validation rule on a request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError collects every failed rule of one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" failed "+f.Rule)
	}

	return "validation failed: " + strings.Join(parts, ", ")
}

// RequestValidator implements echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates a RequestValidator with the custom rules registered.
func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// grant_type accepts only the supported OAuth grants
	_ = v.RegisterValidation("grant_type", func(fl validator.FieldLevel) bool {
		return entity.GrantType(fl.Field().String()).IsValid()
	})

	return &RequestValidator{validate: v}
}

// Validate validates a bound request struct.
func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.WithStack(err)
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}

	return out
}
