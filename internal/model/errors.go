package model

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports a requested entity that does not exist. Empty lists are not NotFoundErrors.
type NotFoundError struct {
	Field   string
	Message string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found %s: %s", e.Field, e.Message)
}

// NewNotFoundError constructs NotFoundError
func NewNotFoundError(field, message string) NotFoundError {
	return NotFoundError{Field: field, Message: message}
}

// IsNotFoundError checks if error is NotFoundError
func IsNotFoundError(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// UpstreamError reports a failed or timed-out collaborator (store, translation, search, LLM).
type UpstreamError struct {
	Service string
	Err     error
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError wraps err as a failure of service.
func NewUpstreamError(service string, err error) UpstreamError {
	return UpstreamError{Service: service, Err: err}
}

// IsUpstreamError checks if error is UpstreamError
func IsUpstreamError(err error) bool {
	var ue UpstreamError
	return errors.As(err, &ue)
}
