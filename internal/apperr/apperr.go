package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed operation so the delivery layer can map it to a
// stable response without parsing error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindOverlap
	KindInvalidAppointmentTime
	KindAlreadyStarted
	KindAuthorization
	KindNoProvider
)

// Error carries a kind and a client-safe message alongside the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause.Error())
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is makes two errors of the same kind match under errors.Is, so callers can
// compare against the package sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks. Never returned directly.
var (
	ErrValidation             = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrNotFound               = &Error{Kind: KindNotFound, Message: "not found"}
	ErrOverlap                = &Error{Kind: KindOverlap, Message: "time conflict"}
	ErrInvalidAppointmentTime = &Error{Kind: KindInvalidAppointmentTime, Message: "invalid appointment time"}
	ErrAlreadyStarted         = &Error{Kind: KindAlreadyStarted, Message: "already started"}
	ErrNotAuthorized          = &Error{Kind: KindAuthorization, Message: "not authorized"}
	ErrNoProvider             = &Error{Kind: KindNoProvider, Message: "no provider selected"}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Overlap(message string) *Error {
	return &Error{Kind: KindOverlap, Message: message}
}

// StatusCode maps an error to the HTTP status the delivery layer should
// answer with. Unrecognized errors are treated as internal.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case KindValidation, KindOverlap, KindInvalidAppointmentTime,
		KindAlreadyStarted, KindNoProvider:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to show to API clients.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
