package models

import (
	"errors"
	"fmt"
	"time"
)

// Common error codes for JSON responses
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
)

// Common errors
var (
	// ErrNotFound covers both "does not exist" and "caller is not allowed to
	// know it exists". The two cases must remain indistinguishable all the
	// way through the transport layer.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput marks malformed request data. Safe to surface verbatim:
	// it carries no information about resource existence.
	ErrInvalidInput = errors.New("invalid input")

	ErrUnauthorized       = errors.New("unauthorized access")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AppError carries an error code and HTTP status alongside the message
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ToHTTPError converts to an HTTP-compatible error response
func (e *AppError) ToHTTPError() *APIResponse {
	return &APIResponse{
		Success:   false,
		Error:     e.Message,
		Message:   e.Message,
		Timestamp: time.Now(),
	}
}

// NewHTTPError builds an AppError bound to an HTTP status code
func NewHTTPError(code, message string, statusCode int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}
