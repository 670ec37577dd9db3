package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies the kind of a failure independently of its message
type ErrorCode string

// The closed set of failure kinds
const (
	// Use case failures
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeTokenInvalid       ErrorCode = "TOKEN_INVALID"
	ErrCodeInternal           ErrorCode = "INTERNAL"

	// Authorization gate and transport
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMITED"
)

// internalMessage is rendered for every INTERNAL failure in place of the wrapped error
const internalMessage = "an unexpected error occurred"

// Violation is a single field-level validation failure
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error represents a structured error with code, message, and optional details
type Error struct {
	Code       ErrorCode              // Stable error kind
	Message    string                 // Human-readable error message
	Details    map[string]interface{} // Optional additional details
	Violations []Violation            // Field violations, INVALID_INPUT only
	Err        error                  // Wrapped underlying error, never rendered
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// HTTPStatusCode returns the HTTP status code for this error
func (e *Error) HTTPStatusCode() int {
	return MapErrorCodeToHTTPStatus(e.Code)
}

// PublicMessage is the message safe to show to a caller.
func (e *Error) PublicMessage() string {
	if MapErrorCodeToHTTPStatus(e.Code) == http.StatusInternalServerError {
		return internalMessage
	}
	return e.Message
}

// MapErrorCodeToHTTPStatus maps error codes to HTTP status codes.
// Anything outside the closed set is treated as INTERNAL.
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeInvalidCredentials, ErrCodeTokenInvalid, ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists:
		return http.StatusConflict
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NOT_FOUND failure
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound)
}

// IsAlreadyExists reports whether err is an ALREADY_EXISTS failure
func IsAlreadyExists(err error) bool {
	return IsCode(err, ErrCodeAlreadyExists)
}

// GetCode extracts the error code from an error
// Returns ErrCodeInternal if the error is not a structured Error
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// InputValidation reports every violation found in a request.
func InputValidation(violations []Violation) *Error {
	return &Error{
		Code:       ErrCodeInvalidInput,
		Message:    "input validation failed",
		Violations: violations,
	}
}

// InvalidField is InputValidation with a single violation.
func InvalidField(field, reason string) *Error {
	return InputValidation([]Violation{{Field: field, Reason: reason}})
}

// AlreadyExists creates an "already exists" error
func AlreadyExists(entity, field string) *Error {
	return &Error{
		Code:    ErrCodeAlreadyExists,
		Message: fmt.Sprintf("%s with this %s already exists", entity, field),
		Details: map[string]interface{}{"entity": entity, "field": field},
	}
}

// NotFound creates a "not found" error
func NotFound(entity, field, value string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s with %s %s not found", entity, field, value),
		Details: map[string]interface{}{"entity": entity, "field": field},
	}
}

// CredentialMismatch never says which of username or password was wrong.
func CredentialMismatch() *Error {
	return &Error{Code: ErrCodeInvalidCredentials, Message: "invalid username or password"}
}

// InvalidToken covers expired, malformed and forged tokens alike.
func InvalidToken() *Error {
	return &Error{Code: ErrCodeTokenInvalid, Message: "invalid token"}
}

// Unknown wraps an unexpected failure. The cause is kept for logs only.
func Unknown(err error) *Error {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &Error{Code: ErrCodeInternal, Message: err.Error(), Err: err}
}

// Unauthorized creates an "unauthorized" error
func Unauthorized(message string) *Error {
	return &Error{Code: ErrCodeUnauthorized, Message: message}
}

// Forbidden creates a "forbidden" error
func Forbidden(message string) *Error {
	return &Error{Code: ErrCodeForbidden, Message: message}
}

// RateLimitExceeded creates a "rate limit exceeded" error
func RateLimitExceeded(retryAfter string) *Error {
	err := &Error{Code: ErrCodeRateLimitExceeded, Message: "rate limit exceeded"}
	if retryAfter != "" {
		err.WithDetail("retry_after", retryAfter)
	}
	return err
}
