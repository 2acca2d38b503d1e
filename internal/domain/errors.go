// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidReviewGrade is returned when a review grade is outside 1..4.
	ErrInvalidReviewGrade = errors.New("invalid review grade")

	// ErrInvalidCardState is returned when a card's state enum is unknown.
	ErrInvalidCardState = errors.New("invalid card state")

	// ErrNegativeValue is returned when a scheduling counter or parameter is negative.
	ErrNegativeValue = errors.New("value cannot be negative")

	// ErrQuotaExceeded is matched by QuotaExceededError via errors.Is.
	ErrQuotaExceeded = errors.New("generation quota exceeded")
)

// ValidationError describes a single invalid field. It wraps a sentinel so
// callers can match with errors.Is(err, ErrValidation) as well as the
// specific cause.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field with the given
// message and cause. A nil cause defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap exposes the cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is lets every ValidationError match ErrValidation in addition to its cause.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsValidationError reports whether err is or wraps a validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrValidation)
}
