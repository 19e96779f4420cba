// Package apperr defines the service error taxonomy and its HTTP mapping.
// Services return these; handlers translate them with response.FromError.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Code classifies a failure. Each code maps to exactly one HTTP status.
type Code string

const (
	CodeInvalidArgument Code = "invalid_argument" // 400
	CodeUnauthenticated Code = "unauthenticated"  // 401
	CodeForbidden       Code = "forbidden"        // 403
	CodeNotFound        Code = "not_found"        // 404
	CodeConflict        Code = "conflict"         // 409
	CodeInternal        Code = "internal"         // 500
)

// Error carries a code and a human-readable message. Err, when set, is the
// underlying cause and is never rendered to clients.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newErr(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func InvalidArgument(msg string) *Error { return newErr(CodeInvalidArgument, msg) }
func Unauthenticated(msg string) *Error { return newErr(CodeUnauthenticated, msg) }
func Forbidden(msg string) *Error       { return newErr(CodeForbidden, msg) }
func NotFound(msg string) *Error        { return newErr(CodeNotFound, msg) }
func Conflict(msg string) *Error        { return newErr(CodeConflict, msg) }

// Internal wraps an unexpected failure. The cause stays server-side.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "Internal Server Error", Err: err}
}

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidArgument:
		return fiber.StatusBadRequest
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// As extracts an *Error from err, or nil if err is not one.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
