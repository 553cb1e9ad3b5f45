package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Authentication and session errors. Callers match these with errors.Is; the
// transport layer is responsible for turning them into status codes.
var (
	// ErrInvalidCredentials covers unknown email, wrong password and accounts
	// without a password. The three cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailAlreadyExists is returned when registration would violate email uniqueness.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrTokenInvalid covers bad signatures, malformed tokens, and refresh tokens
	// that are unknown, revoked or past their stored expiry.
	ErrTokenInvalid = errors.New("token is invalid")

	// ErrTokenExpired is returned when a token's signature is valid but its exp claim has passed.
	ErrTokenExpired = errors.New("token has expired")

	// ErrUserNotFound is returned when a valid token names a subject that no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyLinkedToOtherAccount is returned when a provider identity already belongs to a different user.
	ErrAlreadyLinkedToOtherAccount = errors.New("identity is already linked to another account")

	// ErrProviderAlreadyLinked is returned when the user already has a different identity for the provider.
	ErrProviderAlreadyLinked = errors.New("account already has an identity for this provider")

	// ErrUnknownProvider is returned for provider names with no registered adapter or normalizer.
	ErrUnknownProvider = errors.New("unknown identity provider")

	// ErrInvalidOAuthState is returned when an OAuth state parameter is missing, expired or reused.
	ErrInvalidOAuthState = errors.New("invalid oauth state")

	// ErrConfiguration is returned at startup when required configuration is absent.
	ErrConfiguration = errors.New("configuration error")
)

// AppError is an error carrying the HTTP status code and client-facing message
// the transport layer should use.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, nil)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, nil)
}

func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}

func NewGatewayTimeoutError(message string) *AppError {
	return NewAppError(http.StatusGatewayTimeout, message, nil)
}
