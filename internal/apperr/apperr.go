// Package apperr defines the error kinds the API maps onto HTTP statuses.
// Services return these; the handlers forward them to a single responder so
// no handler hand-picks status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindValidation   Kind = iota // malformed input against schema
	KindConflict                 // duplicate email
	KindUnauthorized             // bad credentials, invalid or stale token
	KindNotFound                 // unknown token or resource
)

// Error is an application error carrying a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional wrapped cause, never shown to the client
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a 400-kind error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Conflict returns a 409-kind error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unauthorized returns a 401-kind error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NotFound returns a 404-kind error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Wrap attaches a cause to an application error.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

// Status maps an error to an HTTP status code and a client-safe message.
// Errors that are not *Error become a generic 500.
func Status(err error) (int, string) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "Internal server error"
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest, appErr.Message
	case KindConflict:
		return http.StatusConflict, appErr.Message
	case KindUnauthorized:
		return http.StatusUnauthorized, appErr.Message
	case KindNotFound:
		return http.StatusNotFound, appErr.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
