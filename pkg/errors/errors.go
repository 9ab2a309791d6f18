package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrConfiguration = errors.New("configuration invalid or incomplete")
	ErrCrypto        = errors.New("cryptographic operation failed")
	ErrExpired       = errors.New("token expired")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("forbidden")
	ErrBadRequest    = errors.New("bad request")
	ErrUpstream      = errors.New("upstream fetch failed")
	ErrRender        = errors.New("render failed")
	ErrInternal      = errors.New("internal server error")
)

// AppError carries a machine code plus a message that is safe for server logs.
// Caller-facing responses never include Message for 5xx-class errors.
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Constructors
func Configuration(msg string) *AppError {
	return &AppError{Code: "CONFIGURATION", Message: msg, Err: ErrConfiguration}
}

func Crypto(msg string) *AppError {
	return &AppError{Code: "CRYPTO", Message: msg, Err: ErrCrypto}
}

func Expired(msg string) *AppError {
	return &AppError{Code: "EXPIRED", Message: msg, Err: ErrExpired}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Upstream(msg string, err error) *AppError {
	if err != nil {
		return &AppError{Code: "UPSTREAM", Message: msg, Err: fmt.Errorf("%w: %w", ErrUpstream, err)}
	}
	return &AppError{Code: "UPSTREAM", Message: msg, Err: ErrUpstream}
}

func Render(msg string, err error) *AppError {
	if err != nil {
		return &AppError{Code: "RENDER", Message: msg, Err: fmt.Errorf("%w: %w", ErrRender, err)}
	}
	return &AppError{Code: "RENDER", Message: msg, Err: ErrRender}
}

func InternalServer(msg string, err error) *AppError {
	if err == nil {
		err = ErrInternal
	}
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}
