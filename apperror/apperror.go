// Package apperror defines a centralized system for application-specific errors.
// Every failure that can reach an HTTP response is represented by an *AppError
// carrying an ErrorType; the type decides both the HTTP status code and the
// wire-level exception code that appears in the response envelope headers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType enumerates the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// TokenMissingError means no bearer token was sent with the request
	TokenMissingError
	// TokenVerificationError means the bearer token failed signature or claim checks
	TokenVerificationError
	// TokenExpiredError means the bearer token is past its expiry
	TokenExpiredError
	// InvalidCredentialsError represents a failed login attempt
	InvalidCredentialsError
	// ForbiddenError represents an authorization failure (authenticated but not allowed)
	ForbiddenError
	// NotFoundError represents a resource not found error
	NotFoundError
	// InvalidPropertiesError represents a request schema/validation failure
	InvalidPropertiesError
	// ConflictError represents a conflict, e.g., resource already exists
	ConflictError
	// OTPExpiredError means the one-time password is past its expiry window
	OTPExpiredError
	// OTPVerificationError means the supplied one-time password did not match
	OTPVerificationError
	// BadRequestError represents a generic malformed request
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
)

// AppError is the application's error type. It wraps an optional underlying
// error (`Err`) and may carry structured details (`Data`), e.g. the per-field
// breakdown of a validation failure.
type AppError struct {
	Type    ErrorType
	Message string
	Data    interface{}
	Err     error
}

// Error satisfies the standard error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, enabling errors.Is / errors.As
// inspection of the wrapped chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError:
		return http.StatusInternalServerError
	case TokenMissingError, TokenVerificationError, TokenExpiredError:
		return http.StatusUnauthorized
	case InvalidCredentialsError, OTPVerificationError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case InvalidPropertiesError:
		return http.StatusUnprocessableEntity
	case ConflictError:
		return http.StatusConflict
	case OTPExpiredError, BadRequestError:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the exception code string placed in the response envelope
// headers. Clients branch on these, so they are part of the API contract.
func (e *AppError) Code() string {
	switch e.Type {
	case DatabaseError:
		return "DatabaseException"
	case TokenMissingError:
		return "TokenMissingException"
	case TokenVerificationError:
		return "TokenVerificationException"
	case TokenExpiredError:
		return "TokenExpiredException"
	case InvalidCredentialsError:
		return "InvalidCredentialsException"
	case ForbiddenError:
		return "ForbiddenException"
	case NotFoundError:
		return "NotFoundException"
	case InvalidPropertiesError:
		return "InvalidPropertiesException"
	case ConflictError:
		return "DuplicateEntryException"
	case OTPExpiredError:
		return "OTPExpiredException"
	case OTPVerificationError:
		return "OTPVerificationException"
	case BadRequestError:
		return "BadRequestException"
	case InternalError:
		return "InternalServerException"
	default:
		return "UnexpectedException"
	}
}

// NewAppError creates a new AppError. Constructors below cover the common
// types; this generic factory is for dynamically determined ones.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewTokenMissingError creates a new TokenMissingError
func NewTokenMissingError() *AppError {
	return NewAppError(TokenMissingError, "Access denied. No token credentials sent", nil)
}

// NewTokenVerificationError creates a new TokenVerificationError
func NewTokenVerificationError(message string, underlyingError error) *AppError {
	return NewAppError(TokenVerificationError, message, underlyingError)
}

// NewTokenExpiredError creates a new TokenExpiredError
func NewTokenExpiredError(underlyingError error) *AppError {
	return NewAppError(TokenExpiredError, "Token has expired", underlyingError)
}

// NewInvalidCredentialsError creates a new InvalidCredentialsError
func NewInvalidCredentialsError(message string) *AppError {
	return NewAppError(InvalidCredentialsError, message, nil)
}

// NewForbiddenError creates a new ForbiddenError
func NewForbiddenError() *AppError {
	return NewAppError(ForbiddenError, "User unauthorized for action", nil)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string) *AppError {
	return NewAppError(NotFoundError, message, nil)
}

// NewInvalidPropertiesError creates a new InvalidPropertiesError. `data`
// carries the per-field failures and is surfaced in the envelope headers.
func NewInvalidPropertiesError(data interface{}) *AppError {
	return &AppError{
		Type:    InvalidPropertiesError,
		Message: "One or more request properties are invalid",
		Data:    data,
	}
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// NewOTPExpiredError creates a new OTPExpiredError
func NewOTPExpiredError() *AppError {
	return NewAppError(OTPExpiredError, "OTP has expired", nil)
}

// NewOTPVerificationError creates a new OTPVerificationError
func NewOTPVerificationError() *AppError {
	return NewAppError(OTPVerificationError, "OTP verification failed", nil)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// FromError attempts to convert a generic error to an *AppError.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsForbidden checks if an error is a Forbidden error
func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ForbiddenError
}

// IsConflict checks if an error is a Conflict error
func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}

// IsInvalidProperties checks if an error is an InvalidProperties error
func IsInvalidProperties(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == InvalidPropertiesError
}
