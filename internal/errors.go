package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive        ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired        ErrorCode = "TOKEN_EXPIRED"
	ErrCodeAuthFailed          ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeInvalidRefreshToken ErrorCode = "INVALID_REFRESH_TOKEN"
	ErrCodeInvalidResetToken   ErrorCode = "INVALID_RESET_TOKEN"

	ErrCodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
	ErrCodeMissingRole             ErrorCode = "MISSING_ROLE"

	ErrCodeMissingAuthContext   ErrorCode = "MISSING_AUTH_CONTEXT"
	ErrCodeMissingTenantContext ErrorCode = "MISSING_TENANT_CONTEXT"
	ErrCodeUnknownTenant        ErrorCode = "UNKNOWN_TENANT"

	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
)

// AppError is the error shape surfaced by every handler. Operational marks
// expected client-facing conditions; programming errors are non-operational
// and their detail is suppressed from responses in production.
type AppError struct {
	Type        ErrorType   `json:"type"`
	Code        ErrorCode   `json:"code"`
	Message     string      `json:"message"`
	Details     interface{} `json:"details,omitempty"`
	StatusCode  int         `json:"-"`
	Operational bool        `json:"-"`
	Cause       error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		StatusCode:  http.StatusBadRequest,
		Operational: true,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:        ErrorTypeValidation,
		Code:        ErrCodeValidationFailed,
		Message:     "Validation failed",
		StatusCode:  http.StatusBadRequest,
		Operational: true,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:        ErrorTypeNotFound,
		Code:        code,
		Message:     message,
		StatusCode:  http.StatusNotFound,
		Operational: true,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:        ErrorTypeUnauthorized,
		Code:        code,
		Message:     message,
		StatusCode:  http.StatusUnauthorized,
		Operational: true,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:        ErrorTypeForbidden,
		Code:        code,
		Message:     message,
		StatusCode:  http.StatusForbidden,
		Operational: true,
	}
}

// NewInternalError wraps an unexpected failure behind a generic message.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:        ErrorTypeInternal,
		Code:        "INTERNAL_ERROR",
		Message:     message,
		StatusCode:  http.StatusInternalServerError,
		Operational: true,
		Cause:       cause,
	}
}

// NewProgrammingError signals a route-wiring or invariant bug, not a client
// error. Handlers log these at error level and hide detail in production.
func NewProgrammingError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		StatusCode:  http.StatusInternalServerError,
		Operational: false,
	}
}

var (
	// Same message for bad password, unknown user and inactive account so the
	// login endpoint never distinguishes them.
	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewUnauthorizedError("invalid email or password", ErrCodeUserInactive)

	ErrInvalidToken        = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired        = NewUnauthorizedError("token expired", ErrCodeTokenExpired)
	ErrAuthFailed          = NewUnauthorizedError("authentication failed", ErrCodeAuthFailed)
	ErrInvalidRefreshToken = NewUnauthorizedError("invalid refresh token", ErrCodeInvalidRefreshToken)
	ErrInvalidResetToken   = NewValidationError("invalid or expired reset token", ErrCodeInvalidResetToken)

	ErrInsufficientPermissions = NewForbiddenError("insufficient permissions", ErrCodeInsufficientPermissions)
	ErrMissingRole             = NewForbiddenError("insufficient permissions", ErrCodeMissingRole)

	ErrMissingAuthContext   = NewProgrammingError("authorization invoked without authenticated context", ErrCodeMissingAuthContext)
	ErrMissingTenantContext = NewProgrammingError("tenant context missing on tenant-scoped route", ErrCodeMissingTenantContext)
	ErrUnknownTenant        = NewUnauthorizedError("unknown tenant", ErrCodeUnknownTenant)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
