package api

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned when the server reports that an application's
	// stage moved after the client loaded it. The caller should offer a
	// reload before retrying.
	ErrConflict = errors.New("api: application changed on server")

	// ErrUnauthorized is returned when credentials are rejected.
	ErrUnauthorized = errors.New("api: invalid credentials")

	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("api: not found")
)

// APIError is a non-sentinel server failure with its wire code and message.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s (code=%s, http=%d, request_id=%s)",
		e.Message, e.Code, e.StatusCode, e.RequestID)
}

// IsRetryable reports whether the call might succeed if repeated.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
