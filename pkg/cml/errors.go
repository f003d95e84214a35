package cml

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthenticationError is returned when the login endpoint rejects the credentials.
type AuthenticationError struct {
	ServerURL  string
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication with %s failed: %v", e.ServerURL, e.Err)
	}

	return fmt.Sprintf("authentication with %s failed with status %d: %s", e.ServerURL, e.StatusCode, e.Body)
}

// Unwrap returns the underlying cause, if any.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// RequestError is returned for any non-2xx response that survives the
// single reauthentication retry.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Path, e.StatusCode)
	}

	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// UnexpectedResponseShapeError is returned when a payload cannot be normalized.
type UnexpectedResponseShapeError struct {
	Operation string
	Detail    string
	Payload   string
}

// Error implements the error interface.
func (e *UnexpectedResponseShapeError) Error() string {
	if e.Payload == "" {
		return fmt.Sprintf("unexpected response format from %s: %s", e.Operation, e.Detail)
	}

	return fmt.Sprintf("unexpected response format from %s: %s: %s", e.Operation, e.Detail, e.Payload)
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrServerURLRequired   = errors.New("server URL is required")
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrNoHostInURL         = errors.New("no host specified in URL")
)

// IsAuthenticationError checks if the error is a rejected login.
func IsAuthenticationError(err error) bool {
	authErr := &AuthenticationError{}

	return errors.As(err, &authErr)
}

// IsUnauthorized checks if the error is a request rejected with 401.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnexpectedResponseShape checks if the error is a normalization failure.
func IsUnexpectedResponseShape(err error) bool {
	shapeErr := &UnexpectedResponseShapeError{}

	return errors.As(err, &shapeErr)
}

func hasStatus(err error, status int) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == status
	}

	return false
}
