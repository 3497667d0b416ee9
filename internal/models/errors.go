package models

import (
	"errors"
)

// Sentinel errors shared by the store, services and handlers.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrPromiseNotActive  = errors.New("promise is not active")
)

// ValidationError represents a validation error on a single field.
// It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// transitionError matches both ErrInvalidTransition and ErrInvalidInput.
type transitionError struct {
	from, to PromiseStatus
}

func (e *transitionError) Error() string {
	return "cannot change status from " + string(e.from) + " to " + string(e.to)
}

func (e *transitionError) Is(target error) bool {
	return target == ErrInvalidTransition || target == ErrInvalidInput
}
