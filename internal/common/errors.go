// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors (request taxonomy).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorBadRequest   = errors.New("bad request")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error is a client-facing error: Message is safe to return to callers and
// Kind is one of the taxonomy sentinels above.
type Error struct {
	Kind    error
	Message string
}

// NewError creates an Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrUserExists         = NewError(ErrorConflict, "User already exists")
	ErrEmailInUse         = NewError(ErrorConflict, "Email already in use")
	ErrInvalidUserData    = NewError(ErrorBadRequest, "Invalid user data")
	ErrInvalidCredentials = NewError(ErrorUnauthorized, "Invalid credentials")
	ErrUserNotFound       = NewError(ErrorNotFound, "User not found")

	ErrNoToken          = NewError(ErrorUnauthorized, "Not authorized, no token")
	ErrTokenFailed      = NewError(ErrorUnauthorized, "Not authorized, token failed")
	ErrTokenUserMissing = NewError(ErrorUnauthorized, "Not authorized, user not found")

	ErrBandIDRequired = NewError(ErrorBadRequest, "Band ID is required")
	ErrNotBandMember  = NewError(ErrorForbidden, "Not authorized, not a band member")
	ErrNotBandAdmin   = NewError(ErrorForbidden, "Not authorized, admin privileges required")
	ErrInvalidBand    = NewError(ErrorBadRequest, "Invalid band data")
	ErrInvalidRole    = NewError(ErrorBadRequest, "Invalid role")
	ErrAlreadyMember  = NewError(ErrorConflict, "User is already a band member")

	ErrStorageDisabled = NewError(ErrorInternal, "Image storage is not configured")
)
