package errors

import (
	"errors"
	"fmt"
)

// VetError is the structured error type for logvet batch-level failures.
type VetError struct {
	// Code is the unique error code (e.g., "ERR_201_DIR_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *VetError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *VetError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a VetError with the same code.
func (e *VetError) Is(target error) bool {
	if t, ok := target.(*VetError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *VetError) WithDetail(key, value string) *VetError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *VetError) WithSuggestion(suggestion string) *VetError {
	e.Suggestion = suggestion
	return e
}

// New creates a new VetError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *VetError {
	return &VetError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a VetError from an existing error.
// The error's message becomes the VetError message.
func Wrap(code string, err error) *VetError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *VetError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *VetError {
	return New(ErrCodeDirNotFound, message, cause)
}

// NetworkError creates a network-related error.
func NetworkError(message string, cause error) *VetError {
	return New(ErrCodeServerUnreachable, message, cause)
}

// ValidationError creates an input validation error.
func ValidationError(message string, cause error) *VetError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *VetError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	var ve *VetError
	if errors.As(err, &ve) {
		return ve.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a VetError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var ve *VetError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// GetCategory extracts the category from a VetError anywhere in the chain.
func GetCategory(err error) Category {
	var ve *VetError
	if errors.As(err, &ve) {
		return ve.Category
	}
	return ""
}
