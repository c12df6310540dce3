// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the user-facing error taxonomy. Each error carries
// the HTTP status it maps to, a stable machine code and a message that is
// safe to show to admins. Anything that is not an *Error is an internal
// failure and maps to 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	CodeValidation       = "validation"
	CodeNotFound         = "not_found"
	CodeUnauthorized     = "unauthorized"
	CodeTooLarge         = "payload_too_large"
	CodeUnsupportedMedia = "unsupported_media_type"
	CodeUnavailable      = "unavailable"
)

// Error is a typed, user-correctable failure.
type Error struct {
	Status  int
	Code    string
	Message string
}

// New creates an Error with an explicit status and code.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Validation reports bad input: blank required fields, disallowed media
// URLs, unknown file extensions.
func Validation(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Sprintf(format, args...))
}

// NotFound reports an operation on an id that does not exist.
func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Sprintf(format, args...))
}

// Unauthorized reports a missing or invalid session or bad credentials.
func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, fmt.Sprintf(format, args...))
}

// TooLarge reports an upload exceeding the size limit.
func TooLarge(format string, args ...any) *Error {
	return New(http.StatusRequestEntityTooLarge, CodeTooLarge, fmt.Sprintf(format, args...))
}

// UnsupportedMedia reports a file whose type is not accepted.
func UnsupportedMedia(format string, args ...any) *Error {
	return New(http.StatusUnsupportedMediaType, CodeUnsupportedMedia, fmt.Sprintf(format, args...))
}

// Unavailable reports a feature whose backing service is not configured.
func Unavailable(format string, args ...any) *Error {
	return New(http.StatusServiceUnavailable, CodeUnavailable, fmt.Sprintf(format, args...))
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for err: the typed status for an
// *Error anywhere in the chain, 500 otherwise.
func StatusOf(err error) int {
	if ae, ok := As(err); ok {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the message safe to show the caller. Untyped errors
// are not leaked.
func MessageOf(err error) string {
	if ae, ok := As(err); ok {
		return ae.Message
	}
	return "Internal Server Error"
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	ae, ok := As(err)
	return ok && ae.Code == CodeValidation
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	ae, ok := As(err)
	return ok && ae.Code == CodeNotFound
}
