// Package apperr defines the error taxonomy shared by all services. Every
// error a service returns on purpose is one of these kinds; anything else is
// treated as internal by the HTTP error handler.
package apperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindBlocked
	KindForbidden
	KindNotFound
	KindInvalidInput
	KindConflict
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindBlocked, KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindInvalidInput:
		return fiber.StatusBadRequest
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func InvalidInput(msg string) *Error    { return &Error{Kind: KindInvalidInput, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }

// Blocked carries the reason stored on the suspended account.
func Blocked(reason string) *Error {
	msg := "account blocked"
	if reason != "" {
		msg = "account blocked: " + reason
	}
	return &Error{Kind: KindBlocked, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// ErrorHandler renders the taxonomy as {error} JSON at the request boundary.
// Anything outside the taxonomy is logged and reported as an internal
// failure; no error crashes the process.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Kind == KindInternal {
			log.Printf("internal error: %v", appErr)
			return c.Status(appErr.Status()).JSON(fiber.Map{"error": "internal server error"})
		}
		return c.Status(appErr.Status()).JSON(fiber.Map{"error": appErr.Message})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	log.Printf("unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
