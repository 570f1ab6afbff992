package models

import "strings"

// FieldError describes one invalid input field.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationErrors is returned when user input fails validation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Description
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
