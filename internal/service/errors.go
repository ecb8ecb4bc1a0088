package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a list or todo does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the token is missing, expired or revoked.
	ErrUnauthorized = errors.New("token expired or revoked (run: gtodo login)")

	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")
)

// APIError is a non-2xx response the client has no sentinel for.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}
