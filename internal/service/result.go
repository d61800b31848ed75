package service

import (
	"errors"
	"fmt"
)

// ErrorCode classifies expected domain failures. Anything a caller can act
// on flows back as one of these; panics and unknown errors surface as
// CodeServer at the operation boundary.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "not_found"
	CodeUnauthorized ErrorCode = "unauthorized"
	CodeValidation   ErrorCode = "validation_error"
	CodeServer       ErrorCode = "server_error"
)

// Error is a structured domain error: a code plus a human-readable message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return newError(CodeNotFound, format, args...)
}

func unauthorized(format string, args ...any) *Error {
	return newError(CodeUnauthorized, format, args...)
}

func invalid(format string, args ...any) *Error {
	return newError(CodeValidation, format, args...)
}

func serverError(format string, args ...any) *Error {
	return newError(CodeServer, format, args...)
}

// CodeOf extracts the domain error code; unexpected errors are ServerError.
func CodeOf(err error) ErrorCode {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeServer
}
