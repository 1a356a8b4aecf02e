package evolve

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, insufficient permissions, model not found.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the request was malformed and must be corrected.
	ErrorUserInput ErrorCategory = "user_input"
)

// FailureKind is the retry class of a provider failure.
type FailureKind string

const (
	// KindOverloaded is a transient capacity error (HTTP 503).
	KindOverloaded FailureKind = "overloaded"
	// KindQuotaExceeded is a rate or quota error (HTTP 429). It may carry a
	// provider-suggested retry delay.
	KindQuotaExceeded FailureKind = "quota_exceeded"
	// KindOther is any failure that must not be retried.
	KindOther FailureKind = "other"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Kind() FailureKind
	Retryable() bool           // true if Category == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from the provider, 0 if not available
}

// Error is a categorized error with metadata for error handling decisions.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	FailKind   FailureKind
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // provider-suggested delay, 0 if not available
	Cause      error         // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Kind returns the retry class. Errors built without an explicit kind
// report KindOther.
func (e *Error) Kind() FailureKind {
	if e.FailKind == "" {
		return KindOther
	}
	return e.FailKind
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewOverloadedError creates a transient error for an overloaded provider.
func NewOverloadedError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:      msg,
		Cat:      ErrorTransient,
		FailKind: KindOverloaded,
		Code:     statusCode,
		Cause:    cause,
	}
}

// NewQuotaError creates a transient quota error. retryAfter may be zero.
func NewQuotaError(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	return &Error{
		Msg:        msg,
		Cat:        ErrorTransient,
		FailKind:   KindQuotaExceeded,
		Code:       statusCode,
		RetryDelay: retryAfter,
		Cause:      cause,
	}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:      msg,
		Cat:      ErrorPermanent,
		FailKind: KindOther,
		Code:     statusCode,
		Cause:    cause,
	}
}

// NewUserInputError creates an error indicating a malformed request.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{
		Msg:      msg,
		Cat:      ErrorUserInput,
		FailKind: KindOther,
		Code:     statusCode,
		Cause:    cause,
	}
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// KindOf returns the failure kind of a categorized error, or KindOther.
func KindOf(err error) FailureKind {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Kind()
	}
	return KindOther
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}
