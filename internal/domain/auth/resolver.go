package auth

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/yanqian/book-rental/pkg/errors"
)

// Resolver turns a bearer credential into the account it was issued for.
// It only reads, so it is safe to run once per request.
type Resolver struct {
	tokens TokenVerifier
	users  UserLookup
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(tokens TokenVerifier, users UserLookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
		logger: logger.With("component", "auth.resolver"),
	}
}

// Resolve verifies credential as an access token and loads the matching account.
func (r *Resolver) Resolve(ctx context.Context, credential string) (Identity, error) {
	claims, err := r.tokens.Verify(credential, VerifyOptions{})
	if err != nil {
		r.logger.Debug("bearer rejected", "error", err)
		return Identity{}, unauthenticated(fmt.Errorf("%w: %w", ErrUnauthenticated, err))
	}
	account, found, err := r.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return Identity{}, apperrors.Wrap(CodeAuthError, "failed to load user", err)
	}
	if !found {
		r.logger.Debug("bearer subject has no account", "token_id", claims.ID)
		return Identity{}, unauthenticated(ErrUserNotFound)
	}
	return Identity(account.ToView()), nil
}

func unauthenticated(err error) error {
	return apperrors.Wrap(CodeUnauthenticated, "could not validate credentials", err)
}
