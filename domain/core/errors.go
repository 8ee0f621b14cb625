package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound = errors.New("resource not found")

	// Authorization errors
	ErrNoOwner        = errors.New("no authenticated owner")
	ErrQuotaExhausted = errors.New("investigation allowance exhausted")

	// Pipeline errors
	ErrSynthesisFailed   = errors.New("report synthesis failed")
	ErrPersistenceFailed = errors.New("report persistence failed")

	// Validation errors
	ErrInvalidRequest = errors.New("invalid investigation request")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewSynthesisError(err error) error {
	return fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
}

func NewPersistenceError(err error) error {
	return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsPipelineError(err error) bool {
	return errors.Is(err, ErrSynthesisFailed) || errors.Is(err, ErrPersistenceFailed)
}
