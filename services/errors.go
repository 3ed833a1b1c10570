package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")
	ErrUpstream     = errors.New("upstream service error")
)

// Error carries a user-facing message while still matching its kind with errors.Is.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func invalid(msg string) error     { return newError(ErrValidation, msg) }
func notFound(msg string) error    { return newError(ErrNotFound, msg) }
func forbidden(msg string) error   { return newError(ErrForbidden, msg) }
func conflict(msg string) error    { return newError(ErrConflict, msg) }
func unavailable(msg string) error { return newError(ErrUnavailable, msg) }

// upstreamErr marks a failure of a third-party API.
func upstreamErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUpstream}, args...)...)
}

// notFoundOr maps gorm's missing-row error to a not-found error with msg.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(msg)
	}
	return err
}
