package auth

import (
	"time"

	"github.com/yanqian/book-rental/internal/domain/user"
)

// Config drives authentication behavior.
type Config struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	// AllowExpiredRefresh accepts refresh tokens past their own expiry.
	AllowExpiredRefresh bool
}

// TokenType discriminates access and refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are extracted from a verified token.
type Claims struct {
	Subject   string
	TokenType TokenType
	ExpiresAt time.Time
	IssuedAt  time.Time
	ID        string
}

// VerifyOptions relaxes or tightens token verification.
type VerifyOptions struct {
	// AllowExpired skips the expiry check; the signature is always checked.
	AllowExpired bool
	// ExpectRefresh requires a refresh token instead of rejecting one.
	ExpectRefresh bool
}

// Identity is the account resolved from a bearer credential.
type Identity user.View

// LoginRequest captures login details.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UserSummary is the account excerpt returned on login.
type UserSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// LoginResponse returns the signed tokens.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	User         UserSummary `json:"user"`
	RefreshToken string      `json:"refresh_token,omitempty"`
}

// RefreshRequest encapsulates refresh token payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshSubject names the account a refreshed token was minted for.
type RefreshSubject struct {
	Email string `json:"email"`
}

// RefreshResponse carries a newly minted access token.
type RefreshResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        RefreshSubject `json:"user"`
}

const bearerTokenType = "bearer"
