package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the kind of failure.
type Category string

const (
	CategoryConfig Category = "config"
	CategoryAPI    Category = "api"
	CategoryCache  Category = "cache"
	CategoryRender Category = "render"
	CategoryExport Category = "export"
	CategoryLive   Category = "live"
	CategoryCLI    Category = "cli"
)

// Error is a structured error with an explanation and a hint.
type Error struct {
	// Code is a unique error identifier (e.g., "N020").
	Code string

	// Category is the kind of failure.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually naming what failed.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Fields lists per-field problems, such as validation failures.
	Fields map[string][]string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *Error) WithDetailf(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithFields attaches per-field problems.
func (e *Error) WithFields(fields map[string][]string) *Error {
	e.Fields = fields
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates an Error with a formatted message and no code.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns err as an *Error, wrapping it in code if it is not one
// already. It returns nil for a nil err.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(code).Wrap(err)
}
