package errors

import (
	"fmt"
)

// Common application errors
var (
	ErrNoData = NewNoDataError()
)

// APIError represents a remote call that completed with a non-success HTTP status
type APIError struct {
	StatusCode int
	Message    string
}

// NewAPIError creates a new API error for the given status code.
// Message is the operation-specific prefix, e.g. "creation failed".
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api error: %d", e.StatusCode)
}

// StatusCoder is implemented by errors that carry a remote HTTP status
type StatusCoder interface {
	Status() int
}

// Status returns the remote HTTP status code
func (e *APIError) Status() int {
	return e.StatusCode
}

// HTTPError represents an HTTP protocol failure: the request could not be
// formed or the peer did not answer with valid HTTP.
type HTTPError struct {
	Err error
}

// NewHTTPError creates a new HTTP protocol error
func NewHTTPError(err error) *HTTPError {
	return &HTTPError{Err: err}
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("http error: %v", e.Err)
	}
	return "http error"
}

// Unwrap returns the wrapped error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NetworkError represents any other failure while talking to the remote API
// (dial, timeout, I/O, decoding).
type NetworkError struct {
	Err error
}

// NewNetworkError creates a new network error
func NewNetworkError(err error) *NetworkError {
	return &NetworkError{Err: err}
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return "network error"
}

// Unwrap returns the wrapped error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NoDataError represents a successful create whose response carried no usable identifier
type NoDataError struct{}

// NewNoDataError creates a new no data error
func NewNoDataError() *NoDataError {
	return &NoDataError{}
}

// Error implements the error interface
func (e *NoDataError) Error() string {
	return "no valid user data returned"
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}
