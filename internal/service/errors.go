package service

import (
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	// Action names the client operation, e.g. "create-task".
	Action string

	// Code is the HTTP status code.
	Code int

	// Message is the backend's error text, or the status text if the body
	// carried none.
	Message string

	// Err is the underlying transport-level error, if any.
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Action, e.Code, e.Detail())
}

// Detail returns the backend's message, falling back to the status text.
func (e *APIError) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether the backend rejected the caller's credentials.
func (e *APIError) IsAuth() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}
