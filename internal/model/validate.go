package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateConfigurationInput checks a create/update body.
// It returns a *ValidationError if any rules fail, or nil if the input is valid.
func ValidateConfigurationInput(in *ConfigurationInput) error {
	var ve ValidationError

	if strings.TrimSpace(in.Name) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	}

	// An empty list is allowed; a missing one is not.
	if in.Assets == nil {
		ve.Errors = append(ve.Errors, FieldError{Field: "assets", Message: "is required"})
	}
	for i, a := range in.Assets {
		if a == nil {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("assets[%d]", i),
				Message: "must be an object",
			})
			continue
		}
		if a.ID < 0 {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("assets[%d].id", i),
				Message: fmt.Sprintf("must not be negative, got %d", a.ID),
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
