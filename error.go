package bserve

import (
	"github.com/cockroachdb/errors"
)

// Error is the single error type surfaced from handlers to clients. It
// carries a message, the response status and an override flag that suppresses
// the default JSON error envelope so the message is sent verbatim.
type Error struct {
	status   Status
	msg      string
	override bool
}

// NewError inits a new error with the given status and message.
func NewError(status Status, msg string) *Error {
	return &Error{status: status, msg: msg}
}

// BadRequest returns a 400 error with a message.
func BadRequest(msg string) *Error { return NewError(StatusBadRequest, msg) }

// Unauthorized returns a 401 error with a message.
func Unauthorized(msg string) *Error { return NewError(StatusUnauthorized, msg) }

// Forbidden returns a 403 error with a message.
func Forbidden(msg string) *Error { return NewError(StatusForbidden, msg) }

// NotFound returns a 404 error with a message.
func NotFound(msg string) *Error { return NewError(StatusNotFound, msg) }

// Conflict returns a 409 error with a message.
func Conflict(msg string) *Error { return NewError(StatusConflict, msg) }

// ServerError returns a 500 error with a message.
func ServerError(msg string) *Error { return NewError(StatusInternalServerError, msg) }

// Verbatim returns an error whose message is sent to the client exactly as
// given, with no envelope and no forced content type.
func Verbatim(status Status, body string) *Error {
	return &Error{status: status, msg: body, override: true}
}

// Status returns the response status the error maps to.
func (e *Error) Status() Status { return e.status }

// Message returns the error's client-facing message.
func (e *Error) Message() string { return e.msg }

// Override reports whether the default JSON envelope is suppressed.
func (e *Error) Override() bool { return e.override }

func (e *Error) Error() string {
	return e.status.String() + ": " + e.msg
}

// StatusOf returns the error's status if it is or wraps an [*Error], and zero
// otherwise.
func StatusOf(err error) Status {
	if routeErr, ok := asError(err); ok {
		return routeErr.Status()
	}

	return 0
}

// asError uses errors.As to unwrap any error and look for an *Error.
func asError(err error) (*Error, bool) {
	var routeErr *Error
	ok := errors.As(err, &routeErr)

	return routeErr, ok
}
