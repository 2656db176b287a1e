package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError carries a stable code, the HTTP status it maps to and the
// underlying cause. Two AppErrors match under errors.Is when their codes do.
type AppError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Context    string `json:"context,omitempty"`
	cause      error
}

func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Context != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Context)
		sb.WriteString(")")
	}
	if e.cause != nil {
		fmt.Fprintf(&sb, ": %v", e.cause)
	}
	return sb.String()
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an AppError with the default message and status for code.
func New(code Code, opts ...Option) *AppError {
	err := &AppError{
		Code:       code,
		Message:    messages[code],
		StatusCode: getDefaultStatusCode(code),
	}
	for _, opt := range opts {
		opt(err)
	}
	if err.Message == "" {
		err.Message = string(code)
	}
	return err
}

type Option func(*AppError)

// WithContext names the input or resource involved.
func WithContext(context string) Option {
	return func(e *AppError) {
		e.Context = context
	}
}

func WithStatusCode(statusCode int) Option {
	return func(e *AppError) {
		e.StatusCode = statusCode
	}
}

func WithCause(cause error) Option {
	return func(e *AppError) {
		e.cause = cause
	}
}

func NotFound(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusNotFound))
}

// Validation reports malformed caller input.
func Validation(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusBadRequest))
}

// Unprocessable reports well-formed input the curve cannot satisfy.
func Unprocessable(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusUnprocessableEntity))
}

func Conflict(code Code, context string) *AppError {
	return New(code, WithContext(context), WithStatusCode(http.StatusConflict))
}

func Internal(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusInternalServerError))
}

// External reports a failing dependency such as the RPC node or the database.
func External(code Code, context string, cause error) *AppError {
	return New(code, WithContext(context), WithCause(cause), WithStatusCode(http.StatusServiceUnavailable))
}

// Wrap returns err unchanged when it already is an AppError (filling an
// empty context) and otherwise wraps it as an internal error with code.
func Wrap(err error, code Code, context string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if context != "" && appErr.Context == "" {
			appErr.Context = context
		}
		return appErr
	}
	return Internal(code, context, err)
}

// GetCode extracts the code from err, or CodeUnknownError for foreign errors.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknownError
}

// StatusCode returns the HTTP status carried by err, or 500 for foreign errors.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// LogFields flattens err into logger key-value pairs.
func LogFields(err error) []any {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return []any{"error", err}
	}
	kv := []any{"error_code", string(appErr.Code), "error", appErr.Message}
	if appErr.Context != "" {
		kv = append(kv, "error_context", appErr.Context)
	}
	if appErr.cause != nil {
		kv = append(kv, "cause", appErr.cause.Error())
	}
	return kv
}

func getDefaultStatusCode(code Code) int {
	switch {
	case code == CodeInsufficientLiquidity,
		code == CodeTargetUnreachable,
		code == CodeOverflow:
		return http.StatusUnprocessableEntity

	case strings.Contains(string(code), "NOT_FOUND"):
		return http.StatusNotFound

	case strings.Contains(string(code), "INVALID"):
		return http.StatusBadRequest

	case strings.Contains(string(code), "CONNECTION"),
		strings.Contains(string(code), "TIMEOUT"),
		code == CodeCircuitOpen,
		code == CodeServiceUnavailable,
		code == CodeSpotPriceUnavailable:
		return http.StatusServiceUnavailable

	case code == CodeEthereumRPCError,
		code == CodeContractCallFailed:
		return http.StatusBadGateway

	case code == CodeRegistryDuplicateLink:
		return http.StatusConflict

	case code == CodeRateLimitExceeded:
		return http.StatusTooManyRequests

	default:
		return http.StatusInternalServerError
	}
}
