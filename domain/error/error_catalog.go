package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError. Every business failure the service can report
// belongs to exactly one kind, and the kind alone decides the HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicateIdentity
	KindInvalidCredentials
	KindUnauthenticated
	KindAccessDenied
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failure"
	case KindDuplicateIdentity:
		return "duplicate_identity"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAccessDenied:
		return "access_denied"
	case KindNotFound:
		return "not_found"
	default:
		return "internal_fault"
	}
}

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories
const (
	// Authentication Errors (1xxx)
	ErrCodeInvalidCredentials ErrorCode = "AUTH_1001"
	ErrCodeDuplicateIdentity  ErrorCode = "AUTH_1002"
	ErrCodeUnauthenticated    ErrorCode = "AUTH_1003"

	// Validation Errors (2xxx)
	ErrCodeValidation     ErrorCode = "VALID_2001"
	ErrCodeInvalidRequest ErrorCode = "VALID_2005"

	// Resource Errors (4xxx)
	ErrCodeAccessDenied ErrorCode = "RES_4003"
	ErrCodeNotFound     ErrorCode = "RES_4004"

	// Server Errors (6xxx)
	ErrCodeInternalServerError ErrorCode = "SERVER_6001"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error
type AppError struct {
	Kind    Kind         `json:"-"`
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"errors,omitempty"`
	Cause   error        `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status maps the error kind to an HTTP status code.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation, KindDuplicateIdentity, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAccessDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new application error
func NewAppError(kind Kind, code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

func ErrValidation(message string, details ...FieldError) *AppError {
	e := NewAppError(KindValidation, ErrCodeValidation, message, nil)
	e.Details = details
	return e
}

func ErrInvalidRequest(message string) *AppError {
	return NewAppError(KindValidation, ErrCodeInvalidRequest, message, nil)
}

func ErrDuplicateIdentity(email string) *AppError {
	return NewAppError(KindDuplicateIdentity, ErrCodeDuplicateIdentity,
		fmt.Sprintf("user with email %s already exists", email), nil)
}

func ErrInvalidCredentials() *AppError {
	return NewAppError(KindInvalidCredentials, ErrCodeInvalidCredentials, "invalid email or password", nil)
}

func ErrUnauthenticated() *AppError {
	return NewAppError(KindUnauthenticated, ErrCodeUnauthenticated, "user is not authenticated", nil)
}

func ErrAccessDenied() *AppError {
	return NewAppError(KindAccessDenied, ErrCodeAccessDenied, "no access to this resource", nil)
}

func ErrNotFound(resource string) *AppError {
	return NewAppError(KindNotFound, ErrCodeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// ErrInternal wraps an unexpected failure. The cause is kept for logging and
// never rendered to clients.
func ErrInternal(cause error) *AppError {
	return NewAppError(KindInternal, ErrCodeInternalServerError, "internal server error", cause)
}

// As extracts the AppError from err. Errors that are not AppErrors are
// reported as internal faults wrapping the original error.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal(err)
}

// KindOf reports the kind of err; nil errors and foreign errors are internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an AppError of kind k.
func IsKind(err error, k Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == k
}
