// Package apperr defines the error taxonomy shared by the tracker core.
// Every error here is recoverable at the call boundary; the HTTP layer maps
// them to status codes and the CLI tools print them as user messages.
package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalidServing is wrapped by the nutrition scaler when a serving weight is not positive.
var ErrInvalidServing = errors.New("serving weight must be greater than zero")

// ValidationError reports invalid input to a create or update operation.
// It is always returned before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports a referenced entity that does not exist at call time.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

// InsufficientDataError reports a computation that lacks the data points it needs.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return "insufficient data: " + e.Reason
}

// OrphanedReferenceError describes a food log whose food no longer exists.
// Aggregation records it and carries on; it is never returned from a public operation.
type OrphanedReferenceError struct {
	FoodLogID uint64
	FoodID    uint64
}

func (e *OrphanedReferenceError) Error() string {
	return fmt.Sprintf("food log %d references missing food %d", e.FoodLogID, e.FoodID)
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFoundError.
func NotFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// Insufficient builds an InsufficientDataError.
func Insufficient(format string, args ...any) error {
	return &InsufficientDataError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsInsufficientData reports whether err is or wraps an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var target *InsufficientDataError
	return errors.As(err, &target)
}
