// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("concurrent modification")
	ErrTransient       = errors.New("temporarily unavailable")
	ErrUpstream        = errors.New("upstream provider failure")
	ErrPaymentRequired = errors.New("active subscription required")
	ErrNotConfigured   = errors.New("not configured")
	ErrRateLimited     = errors.New("rate limited")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AppError is the error shape written to clients. Code is a stable machine
// readable identifier, Message is safe to show to end users.
type AppError struct {
	Err        error  `json:"-"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
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

func NewAppError(
	err error,
	message string,
	statusCode int,
	code string,
) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "VALIDATION_ERROR")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrNotFound, resource+" not found", http.StatusNotFound, "NOT_FOUND")
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func DuplicateError(resource string) *AppError {
	return NewAppError(ErrDuplicateKey, resource+" already exists", http.StatusConflict, "DUPLICATE")
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "access token expired", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "access token invalid", http.StatusUnauthorized, "TOKEN_INVALID")
}

func TransientError() *AppError {
	return NewAppError(
		ErrTransient,
		"the service is busy, please try again",
		http.StatusServiceUnavailable,
		"TRY_AGAIN",
	)
}

func UpstreamError(message string) *AppError {
	return NewAppError(ErrUpstream, message, http.StatusBadGateway, "UPSTREAM_ERROR")
}

func PaymentRequiredError() *AppError {
	return NewAppError(
		ErrPaymentRequired,
		"an active subscription is required",
		http.StatusPaymentRequired,
		"SUBSCRIPTION_INACTIVE",
	)
}

func RateLimitedError(retryAfterSeconds int) *AppError {
	return NewAppError(
		ErrRateLimited,
		fmt.Sprintf("too many requests, retry in %d seconds", retryAfterSeconds),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	)
}

// FromError maps a sentinel-wrapped service error to the client facing
// AppError. Unknown errors map to nil so the caller treats them as 500s.
func FromError(err error, resource string) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError(resource)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(err, cleanMessage(err, ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("authentication required")
	case errors.Is(err, ErrForbidden):
		return NewAppError(err, cleanMessage(err, ErrForbidden), http.StatusForbidden, "FORBIDDEN")
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateError(resource)
	case errors.Is(err, ErrTransient), errors.Is(err, ErrConflict):
		return TransientError()
	case errors.Is(err, ErrUpstream):
		return UpstreamError("payment provider request failed")
	case errors.Is(err, ErrPaymentRequired):
		return PaymentRequiredError()
	case errors.Is(err, ErrNotConfigured):
		return NewAppError(err, "service not configured", http.StatusInternalServerError, "NOT_CONFIGURED")
	}

	return nil
}

// cleanMessage returns the outermost context of a wrapped sentinel, which
// services use to carry a user facing reason ("score must be between 1 and 5").
func cleanMessage(err, sentinel error) string {
	var reason *reasonError
	if errors.As(err, &reason) {
		return reason.reason
	}
	return sentinel.Error()
}

type reasonError struct {
	reason   string
	sentinel error
}

func (e *reasonError) Error() string { return e.reason }

func (e *reasonError) Unwrap() error { return e.sentinel }

// Reason wraps a sentinel with a message that is safe to return to clients.
func Reason(sentinel error, format string, args ...any) error {
	return &reasonError{
		reason:   fmt.Sprintf(format, args...),
		sentinel: sentinel,
	}
}
