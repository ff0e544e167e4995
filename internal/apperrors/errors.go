// Package apperrors defines the error taxonomy shared by services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	CodeValidationFailed         ErrorCode = "VALIDATION_FAILED"
	CodeInvalidConversationState ErrorCode = "INVALID_CONVERSATION_STATE"
	CodeUnauthorized             ErrorCode = "UNAUTHORIZED"
	CodeNotFound                 ErrorCode = "NOT_FOUND"
	CodeRateLimited              ErrorCode = "RATE_LIMITED"
	CodeProviderError            ErrorCode = "PROVIDER_ERROR"
	CodeMalformedRecipeJSON      ErrorCode = "MALFORMED_RECIPE_JSON"
	CodeInternal                 ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. Matching is by code, with MALFORMED_RECIPE_JSON
// also matching ErrProvider.
var (
	ErrValidation               = &AppError{Code: CodeValidationFailed}
	ErrInvalidConversationState = &AppError{Code: CodeInvalidConversationState}
	ErrUnauthorized             = &AppError{Code: CodeUnauthorized}
	ErrNotFound                 = &AppError{Code: CodeNotFound}
	ErrRateLimited              = &AppError{Code: CodeRateLimited}
	ErrProvider                 = &AppError{Code: CodeProviderError}
	ErrMalformedRecipeJSON      = &AppError{Code: CodeMalformedRecipeJSON}
)

// AppError is an error with a stable code, a client-safe message and an
// optional internal cause.
type AppError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Cause   error             `json:"-"`
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, " (%s)", e.Details)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same code. A malformed completion is
// also a provider error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	return e.Code == CodeMalformedRecipeJSON && t.Code == CodeProviderError
}

// StatusCode returns the HTTP status for the error.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeValidationFailed, CodeInvalidConversationState:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WithCause attaches the underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NewValidationError(message string) *AppError {
	return New(CodeValidationFailed, message)
}

// NewFieldValidationError builds a validation error with per-field detail
// from validator.ValidationErrors. Other errors keep their message.
func NewFieldValidationError(err error) *AppError {
	appErr := NewValidationError("invalid request")
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		appErr.Details = err.Error()
		return appErr.WithCause(err)
	}
	appErr.Fields = make(map[string]string, len(verrs))
	for _, fe := range verrs {
		appErr.Fields[lowerFirst(fe.Field())] = describeTag(fe)
	}
	return appErr.WithCause(err)
}

func NewInvalidConversationState(message string) *AppError {
	return New(CodeInvalidConversationState, message)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func NewNotFoundError(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

func NewRateLimitedError(message string) *AppError {
	return New(CodeRateLimited, message)
}

// NewProviderError wraps a failed call to the AI provider. The client only
// sees the generic message.
func NewProviderError(provider string, cause error) *AppError {
	return &AppError{
		Code:    CodeProviderError,
		Message: "the AI provider is unavailable, please try again later",
		Details: provider,
		Cause:   cause,
	}
}

func NewMalformedRecipeJSON(cause error) *AppError {
	return &AppError{
		Code:    CodeMalformedRecipeJSON,
		Message: "the AI response could not be understood, please try again",
		Cause:   cause,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Cause: cause}
}

// From returns err as an *AppError, wrapping unknown errors as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("internal server error", err)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt", "min":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
