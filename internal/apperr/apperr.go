// Package apperr holds the error kinds that cross the operation boundary.
// An error built with New carries a human-readable message and matches its
// kind with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrGone         = errors.New("gone")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation")
)

var kinds = []struct {
	err    error
	name   string
	status int
}{
	{ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
	{ErrForbidden, "forbidden", http.StatusForbidden},
	{ErrNotFound, "not_found", http.StatusNotFound},
	{ErrGone, "gone", http.StatusGone},
	{ErrConflict, "conflict", http.StatusConflict},
	{ErrValidation, "validation", http.StatusBadRequest},
}

type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

func Unauthorized(msg string) error { return New(ErrUnauthorized, msg) }
func Forbidden(msg string) error    { return New(ErrForbidden, msg) }
func NotFound(msg string) error     { return New(ErrNotFound, msg) }
func Gone(msg string) error         { return New(ErrGone, msg) }
func Conflict(msg string) error     { return New(ErrConflict, msg) }
func Validation(msg string) error   { return New(ErrValidation, msg) }

// KindOf returns the machine-readable kind of err, "internal" for anything unclassified.
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}

	return "internal"
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}

	return http.StatusInternalServerError
}

// IsKnown reports whether err belongs to one of the kinds above.
func IsKnown(err error) bool {
	return KindOf(err) != "internal"
}
