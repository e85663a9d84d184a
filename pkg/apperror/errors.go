package apperror

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("could not validate credentials")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("already registered")
	ErrDeadlinePassed    = errors.New("deadline has passed")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrDeadlinePassed) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// PublicMessage returns the text that is safe to show to a client.
// Wrapped sentinels ("assignment not found: resource not found") are trimmed
// to the caller supplied prefix; internal errors never leak their cause.
func PublicMessage(err error) string {
	status := MapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		return ErrInternal.Error()
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	if status == http.StatusUnauthorized {
		return ErrUnauthorized.Error()
	}

	msg := err.Error()
	for _, sentinel := range []error{ErrNotFound, ErrForbidden, ErrConflict, ErrBadRequest, ErrInvalidInput, ErrDeadlinePassed, ErrRateLimitExceeded} {
		if errors.Is(err, sentinel) {
			if trimmed := strings.TrimSuffix(msg, ": "+sentinel.Error()); trimmed != msg {
				return trimmed
			}
			break
		}
	}
	return msg
}
