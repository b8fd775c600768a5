// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenExpired  = errors.New("token expired")
	ErrAccessDenied  = errors.New("access denied")
	ErrInvalidModule = errors.New("invalid module")
	ErrRateLimited   = errors.New("rate limited")

	ErrStorageUnavailable = errors.New("storage unavailable")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	// Redirect, when set, is the page the client should go to instead.
	Redirect string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		"VALIDATION_ERROR",
	)
}

func InvalidCredentialsError() *AppError {
	return NewAppError(
		ErrUnauthorized,
		"invalid identifier or secret",
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
	)
}

func AccessDeniedError(message, redirect string) *AppError {
	e := NewAppError(
		ErrAccessDenied,
		message,
		http.StatusForbidden,
		"ACCESS_DENIED",
	)
	e.Redirect = redirect
	return e
}

func InvalidModuleError(module int) *AppError {
	return NewAppError(
		ErrInvalidModule,
		fmt.Sprintf("module %d does not exist", module),
		http.StatusBadRequest,
		"INVALID_MODULE",
	)
}

func RateLimitedError(retryAfterSeconds int) *AppError {
	return NewAppError(
		ErrRateLimited,
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfterSeconds),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	)
}

func StorageUnavailableError(err error) *AppError {
	return NewAppError(
		err,
		"state could not be saved, try again",
		http.StatusServiceUnavailable,
		"STORAGE_UNAVAILABLE",
	)
}

func InternalError(err error) *AppError {
	return NewAppError(
		err,
		"an internal error occurred",
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
	)
}
