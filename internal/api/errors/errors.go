package errors

import (
	"net/http"

	apperrors "persona-video/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindMethodNotAllowed ErrorKind = "method_not_allowed"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindBadRequest       ErrorKind = "bad_request"
	KindInternal         ErrorKind = "internal"
)

// Client-facing messages
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgUnauthorized     = "Unauthorized - Invalid password"
	MsgAudioRequired    = "Audio data is required"
	MsgAudioTooLarge    = "Audio data is too large"
	MsgInternal         = "Internal server error"
)

// APIError is rendered as the flat {error, details} envelope
type APIError struct {
	Kind    ErrorKind `json:"-"`
	Message string    `json:"error"`
	Details string    `json:"details,omitempty"`
	// Cause is the domain error behind the response, never rendered
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the domain error behind the response
func (e *APIError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() *APIError {
	return &APIError{Kind: KindMethodNotAllowed, Message: MsgMethodNotAllowed}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() *APIError {
	return &APIError{
		Kind:    KindUnauthorized,
		Message: MsgUnauthorized,
		Cause:   apperrors.Authentication("access password mismatch"),
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

// NewInternalError creates an internal server error without details
func NewInternalError() *APIError {
	return &APIError{Kind: KindInternal, Message: MsgInternal}
}

// NewPipelineError maps any stage failure to a 500 whose details carry the
// stage's message and nothing else.
func NewPipelineError(err error) *APIError {
	if err == nil {
		return nil
	}
	return &APIError{Kind: KindInternal, Message: MsgInternal, Details: err.Error(), Cause: err}
}
