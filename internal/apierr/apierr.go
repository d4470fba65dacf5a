// Package apierr carries an HTTP status and a user-facing detail alongside an error.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, detail string, err error) *Error {
	return &Error{Status: status, Detail: detail, Err: err}
}

func BadRequest(detail string) *Error {
	return New(http.StatusBadRequest, detail, nil)
}

func Unauthorized(detail string) *Error {
	return New(http.StatusUnauthorized, detail, nil)
}

func NotFound(detail string) *Error {
	return New(http.StatusNotFound, detail, nil)
}

// Conflict reports a duplicate resource. The public API answers 400 for it.
func Conflict(detail string) *Error {
	return New(http.StatusBadRequest, detail, nil)
}

func UnsupportedMediaType(detail string) *Error {
	return New(http.StatusUnsupportedMediaType, detail, nil)
}

// Upstream wraps a failure of the model backend, the extractor or the store.
func Upstream(detail string, err error) *Error {
	return New(http.StatusInternalServerError, detail, err)
}

// As extracts an *Error from err, if present.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, 500 when none.
func StatusOf(err error) int {
	if ae, ok := As(err); ok && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
