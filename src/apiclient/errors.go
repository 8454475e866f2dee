package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// unauthorizedMessage is used when a 401 response carries no message of its own.
const unauthorizedMessage = "Please login to continue"

// Error is the single error type returned by Call. Status is 0 for transport
// failures (no response, canceled context, unreadable success body).
type Error struct {
	Status     int
	StatusText string
	Endpoint   string
	Message    string
	RequestID  string
	Err        error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Transport reports whether the request never produced an HTTP response.
func (e *Error) Transport() bool { return e.Status == 0 }

// IsUnauthorized reports whether err is an API failure with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// synthesizeMessage mirrors what a browser shows for an error without a body message.
func synthesizeMessage(status int, statusText string) string {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	return fmt.Sprintf("HTTP %d: %s", status, statusText)
}
