// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound           = errors.New("not found")
	ErrIntegrityViolation = errors.New("storage integrity violation")

	// Semantic search errors. Both resolve to keyword fallback, never to a
	// caller-visible failure.
	ErrCostLimitExceeded    = errors.New("daily cost limit exceeded")
	ErrServiceUnavailable   = errors.New("external service unavailable")
	ErrMalformedLLMResponse = errors.New("malformed LLM response")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Query validation errors.
	ErrInvalidFilter = errors.New("invalid filter")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsFallback reports whether an error on the semantic search path should be
// resolved via the keyword fallback instead of being surfaced to the caller.
func IsFallback(err error) bool {
	return errors.Is(err, ErrCostLimitExceeded) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrMalformedLLMResponse) ||
		errors.Is(err, context.DeadlineExceeded)
}
