// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError.
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeError           ErrorType = "processing_error"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeUnknownPlaybook ErrorType = "unknown_playbook"
	ErrorTypeThinContent     ErrorType = "thin_content"
)

// AppError is the application error carried across service boundaries.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string // stable code surfaced to API clients
}

// Error implements error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError of the given type.
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
		Code:    generateErrorCode(errType),
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, originalError)
}

// NewProcessingError creates a processing error.
func NewProcessingError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeError, message, originalError)
}

// NewConflictError creates a conflict error.
func NewConflictError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeConflict, message, originalError)
}

// NewUnknownPlaybookError reports a route no generator can handle.
// It always indicates drift between the manifest and the generator registry.
func NewUnknownPlaybookError(playbook, slug string) *AppError {
	return NewAppError(ErrorTypeUnknownPlaybook,
		fmt.Sprintf("no generator for playbook %q (route %q)", playbook, slug), nil)
}

// NewThinContentError reports a page refused by the content-depth gate.
// The message is the skip reason.
func NewThinContentError(reason string) *AppError {
	return NewAppError(ErrorTypeThinContent, reason, nil)
}

func isType(err error, t ErrorType) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == t
	}
	return false
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsNotFoundError reports whether err is a not-found error.
func IsNotFoundError(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsConflictError reports whether err is a conflict error.
func IsConflictError(err error) bool { return isType(err, ErrorTypeConflict) }

// IsUnknownPlaybookError reports whether err is an unknown-playbook outcome.
func IsUnknownPlaybookError(err error) bool { return isType(err, ErrorTypeUnknownPlaybook) }

// IsThinContentError reports whether err is a SKIPPED outcome.
func IsThinContentError(err error) bool { return isType(err, ErrorTypeThinContent) }

// SkipReason returns the content-depth gate reason carried by err, or "".
func SkipReason(err error) string {
	var appError *AppError
	if errors.As(err, &appError) && appError.Type == ErrorTypeThinContent {
		return appError.Message
	}
	return ""
}

// CodeOf returns the stable code of the AppError carried by err, or "".
func CodeOf(err error) string {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Code
	}
	return ""
}

func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeError:
		return "PROCESSING_ERROR"
	case ErrorTypeConflict:
		return "CONFLICT"
	case ErrorTypeUnknownPlaybook:
		return "UNKNOWN_PLAYBOOK"
	case ErrorTypeThinContent:
		return "THIN_CONTENT"
	default:
		return "UNKNOWN_ERROR"
	}
}

// WrapError wraps err with a message, keeping the type of an inner AppError.
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		return &AppError{
			Type:    appError.Type,
			Message: fmt.Sprintf("%s: %s", message, appError.Message),
			Err:     appError,
			Code:    appError.Code,
		}
	}

	return NewAppError(errType, message, err)
}
