// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Traversal errors.
	ErrOutsideRoot = errors.New("path escapes the input root")

	// Image metadata errors.
	ErrUnsupportedImage = errors.New("unrecognized image format")
	ErrZeroHeight       = errors.New("image height is zero")

	// Transfer errors.
	ErrSourceMissing = errors.New("source file does not exist")
	ErrMaxRetries    = errors.New("max retries exceeded")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RetryableError wraps an error with retry-specific metadata.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable marks an error as terminal for the current operation.
func NonRetryable(err error) error {
	return &RetryableError{Err: err, Retryable: false}
}

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
