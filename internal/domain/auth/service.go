package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/book-rental/internal/domain/user"
	apperrors "github.com/yanqian/book-rental/pkg/errors"
)

// absentAccountDigest is compared against when no account matches, so an
// unknown email costs the same bcrypt work as a wrong password.
const absentAccountDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service exposes authentication workflows.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)
	Resolve(ctx context.Context, credential string) (Identity, error)
}

type service struct {
	cfg       Config
	codec     *TokenCodec
	resolver  *Resolver
	users     UserLookup
	passwords PasswordVerifier
	logger    *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, codec *TokenCodec, resolver *Resolver, users UserLookup, passwords PasswordVerifier, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		codec:     codec,
		resolver:  resolver,
		users:     users,
		passwords: passwords,
		logger:    logger.With("component", "auth.service"),
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := user.NormalizeEmail(req.Email)
	if err != nil || req.Password == "" {
		return LoginResponse{}, invalidCredentials()
	}
	account, found, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(CodeAuthError, "failed to fetch user", err)
	}
	digest := account.PasswordHash
	if !found {
		digest = absentAccountDigest
	}
	if !s.passwords.Verify(req.Password, digest) || !found {
		s.logger.Info("login rejected")
		return LoginResponse{}, invalidCredentials()
	}
	access, err := s.codec.IssueAccessToken(account.Email)
	if err != nil {
		return LoginResponse{}, err
	}
	refresh, err := s.codec.IssueRefreshToken(account.Email)
	if err != nil {
		return LoginResponse{}, err
	}
	s.logger.Info("login succeeded", "user_id", account.ID)
	return LoginResponse{
		AccessToken:  access,
		TokenType:    bearerTokenType,
		RefreshToken: refresh,
		User: UserSummary{
			ID:       account.ID,
			Name:     account.Name,
			Email:    account.Email,
			IsActive: account.IsActive,
		},
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return RefreshResponse{}, apperrors.Wrap(CodeMissingRefreshToken, "Refresh token required", ErrMissingRefreshToken)
	}
	// Expiry is relaxed here so it can be decided below, apart from the signature and type checks.
	claims, err := s.codec.Verify(refreshToken, VerifyOptions{AllowExpired: true, ExpectRefresh: true})
	if err != nil {
		return RefreshResponse{}, invalidRefresh(err)
	}
	if !s.cfg.AllowExpiredRefresh && s.codec.Expired(claims) {
		return RefreshResponse{}, invalidRefresh(ErrExpiredToken)
	}
	access, err := s.codec.IssueAccessToken(claims.Subject)
	if err != nil {
		return RefreshResponse{}, err
	}
	return RefreshResponse{
		AccessToken: access,
		TokenType:   bearerTokenType,
		User:        RefreshSubject{Email: claims.Subject},
	}, nil
}

func (s *service) Resolve(ctx context.Context, credential string) (Identity, error) {
	return s.resolver.Resolve(ctx, credential)
}

func invalidCredentials() error {
	return apperrors.Wrap(CodeInvalidCredentials, "Incorrect email or password", ErrInvalidCredentials)
}

func invalidRefresh(cause error) error {
	return apperrors.Wrap(CodeInvalidRefreshToken, "Invalid refresh token", fmt.Errorf("%w: %w", ErrInvalidRefreshToken, cause))
}
