package apperrors

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code    int
	Message string
	Err     error
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Reason is the machine-readable cause sent to clients. Wrapped errors of
// client-side failures carry it as their text; server failures never leak
// their cause.
func (e *AppError) Reason() string {
	if e.Code >= 500 {
		return "internal_error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	switch e.Code {
	case 401:
		return "unauthorized"
	case 403:
		return "forbidden"
	case 404:
		return "not_found"
	case 409:
		return "conflict"
	default:
		return "invalid_request"
	}
}

// Code returns the HTTP status attached to err, or 500 when err is not an
// AppError.
func Code(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 500
}
