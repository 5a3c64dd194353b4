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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"

	// Hook definition errors
	ErrNoSuchHook    ErrorCode = "NO_SUCH_HOOK"
	ErrAmbiguousHook ErrorCode = "AMBIGUOUS_HOOK"
	ErrInvalidHook   ErrorCode = "INVALID_HOOK"
	ErrMissingField  ErrorCode = "MISSING_FIELD"

	// Hook lifecycle errors
	ErrBadAppName    ErrorCode = "BAD_APP_NAME"
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"

	// Database errors
	ErrNotUnpacked      ErrorCode = "NOT_UNPACKED"
	ErrNotRegistered    ErrorCode = "NOT_REGISTERED"
	ErrManifestInvalid  ErrorCode = "MANIFEST_INVALID"
	ErrFrameworkMissing ErrorCode = "FRAMEWORK_MISSING"
	ErrFrameworkInvalid ErrorCode = "FRAMEWORK_INVALID"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrSymlinkRemove ErrorCode = "SYMLINK_REMOVE"
)

// ClickError represents a structured error with code and details
type ClickError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ClickError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ClickError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ClickError) Is(target error) bool {
	var targetErr *ClickError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ClickError with the given code and message
func New(code ErrorCode, message string) *ClickError {
	return &ClickError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ClickError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ClickError {
	return &ClickError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ClickError
func Wrap(err error, code ErrorCode, message string) *ClickError {
	if err == nil {
		return nil
	}
	return &ClickError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ClickError {
	if err == nil {
		return nil
	}
	return &ClickError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ClickError) WithDetail(key string, value interface{}) *ClickError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error (or any error joined into it) has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var clickErr *ClickError
	if errors.As(err, &clickErr) && clickErr.Code == code {
		return true
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if IsErrorCode(e, code) {
				return true
			}
		}
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ClickError
func GetErrorCode(err error) ErrorCode {
	var clickErr *ClickError
	if errors.As(err, &clickErr) {
		return clickErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ClickError
func GetErrorDetails(err error) map[string]interface{} {
	var clickErr *ClickError
	if errors.As(err, &clickErr) {
		return clickErr.Details
	}
	return nil
}

// Join aggregates the non-nil errors of a batch. It returns nil when every
// element is nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
