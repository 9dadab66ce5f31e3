package auth

import "errors"

// Token verification failures. They are distinguishable internally but all
// surface to callers as the same authentication failure.
var (
	ErrBadSignature   = errors.New("token signature invalid")
	ErrMalformedToken = errors.New("token malformed")
	ErrExpiredToken   = errors.New("token expired")
	ErrWrongTokenType = errors.New("token type mismatch")
	ErrMissingSubject = errors.New("token subject missing")
)

// Authentication outcomes.
var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrMissingRefreshToken = errors.New("refresh token required")
)

// Error codes carried by apperrors.AppError.
const (
	CodeUnauthenticated     = "unauthenticated"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeInvalidRefreshToken = "invalid_refresh_token"
	CodeMissingRefreshToken = "missing_refresh_token"
	CodeAuthError           = "auth_error"
)
