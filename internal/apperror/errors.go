// Package apperror carries the error kinds the API distinguishes and maps
// them onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream error")
	ErrInternal     = errors.New("internal error")
)

// statuses is checked in order; the first kind err wraps wins.
var statuses = []struct {
	kind   error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrValidation, http.StatusBadRequest},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrUpstream, http.StatusBadGateway},
	{ErrInternal, http.StatusInternalServerError},
}

// AppError is an error of a known kind with a client-facing message.
// Fields holds per-parameter messages for validation failures.
type AppError struct {
	Err     error
	Message string
	Status  int
	Fields  map[string]string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithField records a message for one query parameter and returns e.
func (e *AppError) WithField(name, message string) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[name] = message
	return e
}

func newf(kind error, format string, args []interface{}) *AppError {
	return &AppError{
		Err:     kind,
		Message: fmt.Sprintf(format, args...),
		Status:  statusOf(kind),
	}
}

// NotFound is a 404: no calendar imported, no upcoming race, no fixture.
func NotFound(format string, args ...interface{}) *AppError {
	return newf(ErrNotFound, format, args)
}

// Validation is a 400 for bad query parameters or config values.
func Validation(format string, args ...interface{}) *AppError {
	return newf(ErrValidation, format, args)
}

// Upstream is a 502 for a third-party API that failed or answered non-2xx.
func Upstream(format string, args ...interface{}) *AppError {
	return newf(ErrUpstream, format, args)
}

// Internal is a 500 whose message is still safe to show, such as a
// missing API key.
func Internal(format string, args ...interface{}) *AppError {
	return newf(ErrInternal, format, args)
}

// HTTPStatus maps err to a response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return statusOf(err)
}

func statusOf(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.kind) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}
