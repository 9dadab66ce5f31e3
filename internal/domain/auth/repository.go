package auth

import (
	"context"

	"github.com/yanqian/book-rental/internal/domain/user"
)

//go:generate mockgen -destination=mocks/mock_user_lookup.go -package=mocks github.com/yanqian/book-rental/internal/domain/auth UserLookup

// UserLookup finds accounts by email.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (user.User, bool, error)
}

// PasswordVerifier checks a plaintext password against a stored digest.
type PasswordVerifier interface {
	Verify(plaintext, digest string) bool
}

// TokenVerifier decodes and validates tokens.
type TokenVerifier interface {
	Verify(token string, opts VerifyOptions) (Claims, error)
}
