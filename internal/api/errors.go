package api

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a non-2xx response from the API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// StatusCode extracts the HTTP status from err, or 0 when err did not come
// from an API response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 response.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
