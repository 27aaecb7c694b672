package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a request struct using go-playground/validator
// and returns a user-friendly error message if validation fails
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			// First error is enough for the caller to fix the request
			return fmt.Errorf("validation failed: %s: %s", ve[0].Field(), formatValidationError(ve[0]))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
