package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"
)

type ErrorCode string

const (
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	CodeConfig   ErrorCode = "CONFIG_ERROR"
	CodeInput    ErrorCode = "INPUT_ERROR"
	CodeParse    ErrorCode = "PARSE_ERROR"
	CodeRender   ErrorCode = "RENDER_ERROR"
	CodeCanceled ErrorCode = "CANCELED"
)

type AppError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Cause     error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(format string, args ...any) *AppError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Cause:     err,
		Timestamp: time.Now().UTC(),
	}
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func InternalWrap(err error, message string) *AppError {
	return Wrap(err, CodeInternal, message)
}

func Config(message string) *AppError {
	return New(CodeConfig, message)
}

func ConfigWrap(err error, message string) *AppError {
	return Wrap(err, CodeConfig, message)
}

func Input(message string) *AppError {
	return New(CodeInput, message)
}

func InputWrap(err error, message string) *AppError {
	return Wrap(err, CodeInput, message)
}

func Parse(message string) *AppError {
	return New(CodeParse, message)
}

func ParseWrap(err error, message string) *AppError {
	return Wrap(err, CodeParse, message)
}

func RenderWrap(err error, message string) *AppError {
	return Wrap(err, CodeRender, message)
}

// CodeOf returns the code of the outermost AppError in err's chain.
// Context cancellation is reported as CodeCanceled whatever wraps it.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return CodeCanceled
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch CodeOf(err) {
	case "":
		return 0
	case CodeConfig:
		return 2
	case CodeInput:
		return 3
	case CodeParse:
		return 4
	case CodeRender:
		return 5
	case CodeCanceled:
		return 130
	default:
		return 1
	}
}

// Log reports err at error level with its code and cause.
func Log(ctx context.Context, logger *slog.Logger, msg string, err error) {
	attrs := []any{
		"error_code", CodeOf(err),
		"exit_code", ExitCode(err),
		"error", err,
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		attrs = append(attrs, "error_message", appErr.Message)
		if appErr.Details != "" {
			attrs = append(attrs, "details", appErr.Details)
		}
		if appErr.Cause != nil {
			attrs = append(attrs, "cause", appErr.Cause)
		}
	}

	logger.Log(ctx, slog.LevelError, msg, attrs...)
}
