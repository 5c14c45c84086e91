package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenRevoked indicates a refresh token that was already rotated,
	// revoked or expired. Re-login is required.
	ErrTokenRevoked = errors.New("token revoked")
	ErrAccountDisabled = errors.New("account disabled")
	// ErrPasswordChangeRequired gates logins until the initial password
	// has been replaced.
	ErrPasswordChangeRequired = errors.New("password change required")
)
