package errors

import (
	"net/http"

	"orienteer/internal/domain/entity"
	"orienteer/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// WithStatus returns a copy carrying a different HTTP status code.
func (e *BaseError) WithStatus(httpCode int) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   e.details,
	}
}

// WithMessage returns a copy carrying a different user-facing message.
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   message,
		details:   e.details,
	}
}

// Is matches BaseErrors by business code so that copies made with WithStatus,
// WithMessage or WithDetails still match their predefined sentinel.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// Predefined error types
var (
	// Authentication errors. Messages stay generic: the failure reason is logged, never returned.
	ErrUnauthenticated = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
		"Authentication required",
		"",
	)

	ErrSchemeNotAllowed = NewBaseError(
		http.StatusForbidden,
		"SCHEME_NOT_ALLOWED",
		"These credentials cannot be used for this operation",
		"",
	)

	// Ownership guard errors. Handlers may override status and message per resource type.
	ErrNoCredentials = NewBaseError(
		http.StatusUnauthorized,
		"NO_CREDENTIALS",
		"No credentials provided",
		"",
	)

	ErrCredentialsMismatch = NewBaseError(
		http.StatusUnauthorized,
		"CREDENTIALS_MISMATCH",
		"Credentials do not match this resource",
		"",
	)

	ErrResourceNotFound = NewBaseError(
		http.StatusNotFound,
		"RESOURCE_NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrNotResourceOwner = NewBaseError(
		http.StatusForbidden,
		"NOT_RESOURCE_OWNER",
		"You are not the owner of this resource",
		"",
	)

	// OAuth-related errors, named after the RFC 6749 error codes.
	ErrOAuthInvalidClient = NewBaseError(
		http.StatusUnauthorized,
		"invalid_client",
		"Client authentication failed",
		"",
	)

	ErrOAuthInvalidGrant = NewBaseError(
		http.StatusBadRequest,
		"invalid_grant",
		"Invalid or expired grant",
		"",
	)

	ErrOAuthUnauthorizedClient = NewBaseError(
		http.StatusBadRequest,
		"unauthorized_client",
		"Client is not allowed to use this grant type",
		"",
	)

	ErrOAuthUnsupportedGrantType = NewBaseError(
		http.StatusBadRequest,
		"unsupported_grant_type",
		"Unsupported grant type",
		"",
	)

	ErrOAuthInvalidScope = NewBaseError(
		http.StatusBadRequest,
		"invalid_scope",
		"Requested scope exceeds the granted scope",
		"",
	)

	ErrOAuthClientCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"CLIENT_CREATION_FAILED",
		"Failed to register client",
		"",
	)

	ErrTokenIssueFailed = NewBaseError(
		http.StatusInternalServerError,
		"TOKEN_ISSUE_FAILED",
		"Failed to issue token",
		"",
	)

	// Event password errors
	ErrEventPasswordIssueFailed = NewBaseError(
		http.StatusInternalServerError,
		"EVENT_PASSWORD_ISSUE_FAILED",
		"Failed to issue event password",
		"",
	)

	ErrEventPasswordNotFound = NewBaseError(
		http.StatusNotFound,
		"EVENT_PASSWORD_NOT_FOUND",
		"Event password not found",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"Database transaction failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// AuthError is raised by credential verification sub-protocols. It carries a
// stable reason code and, for basic credentials, the event id for audit logging.
type AuthError struct {
	Reason  entity.FailureReason
	EventID string
	Err     error
}

// NewAuthError creates an AuthError for the given reason.
func NewAuthError(reason entity.FailureReason, eventID string, err error) *AuthError {
	return &AuthError{
		Reason:  reason,
		EventID: eventID,
		Err:     err,
	}
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Reason.String() + ": " + e.Err.Error()
	}

	return e.Reason.String()
}

// Unwrap exposes the underlying cause
func (e *AuthError) Unwrap() error {
	return e.Err
}

// HTTPCode returns the HTTP status code; authentication failures are always 401
func (e *AuthError) HTTPCode() int {
	return http.StatusUnauthorized
}

// ErrorCode returns the business error code
func (e *AuthError) ErrorCode() string {
	return ErrUnauthenticated.ErrorCode()
}

// Message returns the generic user-facing message; the reason is never exposed
func (e *AuthError) Message() string {
	return ErrUnauthenticated.Message()
}

// Details is always empty for authentication failures
func (e *AuthError) Details() string {
	return ""
}
