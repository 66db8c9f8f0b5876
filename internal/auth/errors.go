package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for credential verification.
var (
	// ErrTokenMissing indicates that no token was provided.
	ErrTokenMissing = errors.New("token missing")

	// ErrTokenMalformed indicates that the token or its carrier header is
	// structurally invalid.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenExpired indicates that the token has expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked indicates that the token is no longer live: it was
	// revoked on sign-out or superseded by a refresh.
	ErrTokenRevoked = errors.New("token revoked")
)

// TokenError carries a user-actionable message alongside the verification
// failure class. The message is safe to return to clients.
type TokenError struct {
	Err     error
	Message string
}

// Error implements the error interface.
func (e *TokenError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the verification failure class.
func (e *TokenError) Unwrap() error {
	return e.Err
}

// NewTokenError creates a TokenError for the given failure class.
func NewTokenError(class error, message string) *TokenError {
	return &TokenError{Err: class, Message: message}
}

// UserMessage returns the client-safe message for a verification error,
// falling back to a generic message for errors without one.
func UserMessage(err error) string {
	var terr *TokenError
	if errors.As(err, &terr) && terr.Message != "" {
		return terr.Message
	}
	return "Unauthorized"
}
