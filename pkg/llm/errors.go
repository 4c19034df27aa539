package llm

import (
	"errors"
	"fmt"
)

// maxErrorBodyLen bounds how much of an upstream error body is retained.
const maxErrorBodyLen = 200

// APIError represents an HTTP-level failure from the completion endpoint.
// Body is truncated to maxErrorBodyLen characters.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("LLM API error (%d): %s", e.StatusCode, e.Body)
}

// NewAPIError creates an APIError with a bounded body.
func NewAPIError(statusCode int, body string) *APIError {
	return &APIError{StatusCode: statusCode, Body: Truncate(body, maxErrorBodyLen)}
}

// NetworkError represents a connectivity or I/O failure reaching the
// completion endpoint.
type NetworkError struct {
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("LLM network error: %v", e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Truncate bounds s to at most n characters.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// DescribeError classifies a client error and returns a bounded,
// human-readable message suitable for surfacing to a consumer.
func DescribeError(err error) string {
	var apiErr *APIError
	var netErr *NetworkError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.As(err, &netErr):
		return Truncate(netErr.Error(), maxErrorBodyLen)
	default:
		return Truncate(fmt.Sprintf("unexpected error: %v", err), maxErrorBodyLen)
	}
}
