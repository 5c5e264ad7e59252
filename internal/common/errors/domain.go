package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryForbidden    ErrorCategory = "FORBIDDEN"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryInternal     ErrorCategory = "INTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		cause:    cause,
	}
}

// Is lets errors.Is match a wrapped-with-cause copy against its sentinel.
func (e *domainError) Is(target error) bool {
	var de *domainError
	if !errors.As(target, &de) {
		return false
	}
	return e.code == de.code
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"JWT_SECRET must be at least 32 bytes",
	)

	ErrMissingFields = NewDomainError(
		"MISSING_FIELDS",
		CategoryValidation,
		http.StatusBadRequest,
		"all fields are required",
	)

	ErrInvalidEmail = NewDomainError(
		"INVALID_EMAIL",
		CategoryValidation,
		http.StatusBadRequest,
		"email address is not valid",
	)

	ErrInvalidUserID = NewDomainError(
		"INVALID_USER_ID",
		CategoryValidation,
		http.StatusBadRequest,
		"user id must be a positive integer",
	)

	ErrInvalidCredentials = NewDomainError(
		"INVALID_CREDENTIALS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid email or password",
	)

	ErrMissingAuthorization = NewDomainError(
		"MISSING_AUTHORIZATION",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"missing or invalid authorization header",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryForbidden,
		http.StatusForbidden,
		"token is not valid",
	)

	ErrTokenExpired = NewDomainError(
		"TOKEN_EXPIRED",
		CategoryForbidden,
		http.StatusForbidden,
		"token has expired",
	)

	ErrDuplicateUser = NewDomainError(
		"DUPLICATE_USER",
		CategoryConflict,
		http.StatusConflict,
		"username or email already exists",
	)

	ErrDatabaseError = NewDomainError(
		"DATABASE_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"database operation failed",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)
