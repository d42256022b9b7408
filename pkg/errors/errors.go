package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an API failure carrying the code and HTTP status written into the response envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on Code so a cloned or wrapped error still matches its predefined value.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches code, status and message to err.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// WrapAs wraps err with the code and status of base.
func WrapAs(base *Error, err error, message string) *Error {
	if message == "" {
		message = base.Message
	}
	return Wrap(err, base.Code, base.Status, message)
}

var (
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// Timetable errors.
	ErrResultNotFound    = New("RESULT_NOT_FOUND", http.StatusNotFound, "timetable result not found")
	ErrCreditsShortfall  = New("CREDITS_SHORTFALL", http.StatusPreconditionFailed, "curriculum credits do not cover scheduled periods")
	ErrUnsupportedExport = New("UNSUPPORTED_EXPORT", http.StatusBadRequest, "unsupported export format")

	// Solver errors.
	ErrSolverDisabled = New("SOLVER_DISABLED", http.StatusServiceUnavailable, "solver is disabled")
	ErrSolverTimeout  = New("SOLVER_TIMEOUT", http.StatusServiceUnavailable, "solver did not answer in time")
	ErrSolverFailed   = New("SOLVER_FAILED", http.StatusBadGateway, "solver request failed")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return WrapAs(ErrInternal, err, "")
}

// Clone copies err, replacing the message when one is given.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
