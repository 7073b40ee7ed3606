// Package errors provides the structured error type used across pagebuilder.
//
// Store operations never fail; errors come from the edges: decoding
// elements from JSON, loading configuration, serving HTTP requests and
// writing export files. BuilderError carries a category, a stable code for
// API clients, an optional cause and a recoverable flag so callers can
// decide between "warn and continue" and "abort".
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// BuilderError is a structured error type with context.
type BuilderError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface.
func (e *BuilderError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *BuilderError) Unwrap() error {
	return e.Cause
}

// Is matches another BuilderError with the same type and code.
func (e *BuilderError) Is(target error) bool {
	var t *BuilderError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *BuilderError) WithContext(key string, value interface{}) *BuilderError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithCause sets the underlying cause.
func (e *BuilderError) WithCause(cause error) *BuilderError {
	e.Cause = cause

	return e
}

// NewValidationError creates a validation error. Validation errors are
// recoverable: the offending input can be skipped or corrected.
func NewValidationError(code, message string) *BuilderError {
	return &BuilderError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(code, message string) *BuilderError {
	return &BuilderError{
		Type:        ErrorTypeNotFound,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var be *BuilderError
	if errors.As(err, &be) {
		return be.Recoverable
	}

	return false
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	var be *BuilderError
	if errors.As(err, &be) {
		return be.Type == ErrorTypeNotFound
	}

	return false
}

// TypeOf returns the category of err, or ErrorTypeInternal for plain errors.
func TypeOf(err error) ErrorType {
	var be *BuilderError
	if errors.As(err, &be) {
		return be.Type
	}

	return ErrorTypeInternal
}

// CodeOf returns the code of err, or ErrCodeInternal for plain errors.
func CodeOf(err error) string {
	var be *BuilderError
	if errors.As(err, &be) && be.Code != "" {
		return be.Code
	}

	return ErrCodeInternal
}

// Logger is the subset of logging.Logger the handler needs.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// ErrorHandler logs errors at a level matching their category.
type ErrorHandler struct {
	logger Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err. Recoverable errors are warnings.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var be *BuilderError
	if !errors.As(err, &be) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	if be.Recoverable {
		h.logger.Warn(ctx, be, "Recoverable error", "type", be.Type, "code", be.Code)
		return
	}
	h.logger.Error(ctx, be, "Error occurred", "type", be.Type, "code", be.Code)
}

// Common error codes.
const (
	ErrCodeElementNotFound  = "ERR_ELEMENT_NOT_FOUND"
	ErrCodeTemplateNotFound = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodeInvalidRequest   = "ERR_INVALID_REQUEST"
	ErrCodeInvalidMode      = "ERR_INVALID_MODE"
	ErrCodeInvalidOrigin    = "ERR_INVALID_ORIGIN"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeExportFailed     = "ERR_EXPORT_FAILED"
	ErrCodeInternal         = "ERR_INTERNAL"
)

// ErrElementNotFound creates an element not found error.
func ErrElementNotFound(id string) *BuilderError {
	return NewNotFoundError(ErrCodeElementNotFound, "element not found: "+id)
}

// ErrTemplateNotFound creates a template not found error.
func ErrTemplateNotFound(key string) *BuilderError {
	return NewNotFoundError(ErrCodeTemplateNotFound, "template not found: "+key)
}

// ErrInvalidOrigin creates an invalid origin error.
func ErrInvalidOrigin(origin string) *BuilderError {
	return &BuilderError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidOrigin,
		Message: "invalid origin: " + origin,
	}
}
