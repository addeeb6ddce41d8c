package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for checking failure categories with errors.Is.
var (
	// ErrUnavailable wraps connectivity failures: the backend could not be
	// reached or the response could not be read.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrUnauthorized matches any *Error with status 401.
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrorCode categorizes backend error responses.
type ErrorCode string

const (
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeServer       ErrorCode = "SERVER_ERROR"
	ErrCodeHTTP         ErrorCode = "HTTP_ERROR"

	// ErrCodeDecode indicates a 2xx response whose body did not match the
	// expected shape.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
)

// Error is a non-2xx (or undecodable) backend response.
//
// Message is always human-readable: the backend's "error" field when present,
// otherwise a fixed per-endpoint message.
type Error struct {
	// Status is the HTTP status code.
	Status int

	// Code is derived from Status.
	Code ErrorCode

	// Message is the text shown to the user.
	Message string

	// RequestID is the X-Request-ID sent with the request.
	RequestID string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (status=%d, request=%s)", e.Code, e.Message, e.Status, e.RequestID)
	}
	return fmt.Sprintf("%s: %s (status=%d)", e.Code, e.Message, e.Status)
}

// Is reports whether target is ErrUnauthorized and e carries status 401.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusBadRequest:
		return ErrCodeBadRequest
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status >= 500:
		return ErrCodeServer
	default:
		return ErrCodeHTTP
	}
}

// Message returns the human-readable message for err: the backend message of
// an *Error, a fixed notice for ErrUnavailable, or err.Error() otherwise.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	if errors.Is(err, ErrUnavailable) {
		return "Unable to reach the server. Please try again later."
	}
	return err.Error()
}

// IsNotFound returns true if err is a 404 response.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeNotFound
	}
	return false
}
