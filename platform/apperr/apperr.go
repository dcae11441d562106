// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors, and the HTTP layer
// maps them to appropriate HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates missing or malformed required input.
	KindValidation
	// KindConflict indicates the request conflicts with current state
	// (e.g., a transition out of a terminal stage).
	KindConflict
	// KindBadRequest indicates a malformed request body at the transport boundary.
	KindBadRequest
	// KindStorage indicates the persistence layer was unreachable or a query failed.
	KindStorage
	// KindExternal indicates a generative-text or push-delivery failure.
	KindExternal
	// KindMalformedResponse indicates the generative-text service returned
	// content that could not be parsed.
	KindMalformedResponse
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindExternal, KindMalformedResponse:
		return http.StatusBadGateway
	case KindStorage, KindInternal, KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is what the HTTP layer shows the caller. Storage and internal
// failures are reported generically; their detail stays in the logs.
func (e *Error) PublicMessage() string {
	switch e.Kind {
	case KindStorage:
		return "storage failure"
	case KindInternal, KindUnknown:
		return "internal server error"
	default:
		return e.Message
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the operation on the error and returns it.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails sets additional details on the error and returns it.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// FieldError describes one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) Error() string { return f.Field + ": " + f.Message }

// Convenience constructors for common error types.

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// ValidationFields creates a validation error enumerating the offending fields.
func ValidationFields(message string, fields ...FieldError) *Error {
	return New(KindValidation, message).WithDetails(fields)
}

// Conflict creates a conflict error.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// MalformedPayload creates the error returned when a request body is not valid JSON.
func MalformedPayload(err error) *Error {
	return Wrap(KindBadRequest, "malformed payload", err)
}

// Storage wraps a persistence-layer failure.
func Storage(op string, err error) *Error {
	return Wrap(KindStorage, "storage operation failed", err).WithOp(op)
}

// External wraps a third-party service failure.
func External(message string, err error) *Error {
	return Wrap(KindExternal, message, err)
}

// MalformedResponse wraps an unparseable generative-text response.
func MalformedResponse(err error) *Error {
	return Wrap(KindMalformedResponse, "malformed model response", err)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from an error chain.
// Returns KindUnknown if no *Error is present.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
