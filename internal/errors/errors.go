// Package errors defines the structured error types used outside the
// markup engine: configuration loading, file IO in commands, and the
// preview server. Content-level problems inside the engine are by
// contract never errors; they degrade to literal rendering instead.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeServer     ErrorType = "server"
	ErrorTypeInternal   ErrorType = "internal"
)

// MarkupError is a structured error with category and context.
type MarkupError struct {
	Type    ErrorType
	Message string
	Cause   error
	Path    string
}

// Error implements the error interface.
func (e *MarkupError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", e.Type))
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause error.
func (e *MarkupError) Unwrap() error {
	return e.Cause
}

// Is matches on error type so callers can branch on categories.
func (e *MarkupError) Is(target error) bool {
	var t *MarkupError
	if errors.As(target, &t) {
		return e.Type == t.Type
	}
	return false
}

// NewConfigError creates a configuration error.
func NewConfigError(msg string, cause error) *MarkupError {
	return &MarkupError{Type: ErrorTypeConfig, Message: msg, Cause: cause}
}

// NewValidationError creates a validation error.
func NewValidationError(msg string) *MarkupError {
	return &MarkupError{Type: ErrorTypeValidation, Message: msg}
}

// NewIOError creates an IO error tagged with the offending path.
func NewIOError(msg, path string, cause error) *MarkupError {
	return &MarkupError{Type: ErrorTypeIO, Message: msg, Path: path, Cause: cause}
}

// NewServerError creates a preview-server error.
func NewServerError(msg string, cause error) *MarkupError {
	return &MarkupError{Type: ErrorTypeServer, Message: msg, Cause: cause}
}
