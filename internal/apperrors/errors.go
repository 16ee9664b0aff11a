package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller's scope does not cover the resource.
var ErrForbidden = errors.New("forbidden for caller scope")

// ErrContention indicates that a lock or transaction conflict aborted the operation.
// The operation had no effect and may be retried as a whole.
var ErrContention = errors.New("contention on account, retry the operation")

// ErrConsistency indicates that the running balance invariant did not hold after a recomputation.
// It is never expected in practice and always aborts the enclosing transaction.
var ErrConsistency = errors.New("running balance invariant violated")

// AppError carries a status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the whole operation can safely be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrContention)
}

// StatusCode maps an error to the HTTP status the boundary layer should answer with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrContention):
		return http.StatusConflict
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
