package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors (fatal: missing service URL, missing manage token)
	ErrConfigMissing ErrorCode = "CONFIG_MISSING"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"

	// Unparsable JSON payload, profile, or item
	ErrMalformedInput ErrorCode = "MALFORMED_INPUT"

	// Environment probe failures
	ErrProbeFailed ErrorCode = "PROBE_FAILED"

	// Hosting service errors
	ErrNetwork ErrorCode = "NETWORK"
	ErrService ErrorCode = "SERVICE"

	// Installer dispatcher outcomes, reported per item
	ErrInstallFailed ErrorCode = "INSTALL_FAILED"
	ErrVerifyFailed  ErrorCode = "VERIFY_FAILED"

	// State file errors
	ErrStateWrite ErrorCode = "STATE_WRITE"
)

// ProfileError represents a structured error with code and details
type ProfileError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ProfileError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ProfileError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ProfileError) Is(target error) bool {
	var targetErr *ProfileError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ProfileError with the given code and message
func New(code ErrorCode, message string) *ProfileError {
	return &ProfileError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ProfileError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ProfileError {
	return &ProfileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ProfileError
func Wrap(err error, code ErrorCode, message string) *ProfileError {
	if err == nil {
		return nil
	}
	return &ProfileError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ProfileError {
	if err == nil {
		return nil
	}
	return &ProfileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ProfileError) WithDetail(key string, value interface{}) *ProfileError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var profileErr *ProfileError
	if errors.As(err, &profileErr) {
		return profileErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ProfileError
func GetErrorCode(err error) ErrorCode {
	var profileErr *ProfileError
	if errors.As(err, &profileErr) {
		return profileErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ProfileError
func GetErrorDetails(err error) map[string]interface{} {
	var profileErr *ProfileError
	if errors.As(err, &profileErr) {
		return profileErr.Details
	}
	return nil
}
