package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates empty or whitespace-only text
	ErrEmptyInput = errors.New("empty text provided")

	// ErrInvalidSummaryType indicates a summary type other than concise or detailed
	ErrInvalidSummaryType = errors.New("summary_type must be 'concise' or 'detailed'")

	// ErrInvalidMode indicates a conversion mode other than to_markdown or to_text
	ErrInvalidMode = errors.New("invalid conversion mode")
)

// ValidationError represents a validation error with detailed field information.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
