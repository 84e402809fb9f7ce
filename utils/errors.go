package utils

import (
	"errors"
	"net/http"
)

type ErrorKind int

const (
	KindServer ErrorKind = iota
	KindInvalidInput
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

// AppError is an error whose message is safe to show to API clients.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Status() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func InvalidInput(message string, fields ...string) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: message, Fields: fields}
}

func Unauthenticated(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Internal wraps an unexpected failure. The cause is kept for logs only.
func Internal(err error) *AppError {
	return &AppError{Kind: KindServer, Message: "Internal server error", Err: err}
}

// KindOf returns the taxonomy kind of err, treating foreign errors as server errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}
