package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/book-rental/pkg/errors"
)

// TokenCodec issues and verifies HS256 signed tokens. It holds no mutable state.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec constructs a codec from the process-wide auth configuration.
func NewTokenCodec(cfg Config) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

// WithClock returns a copy of the codec reading time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	clone := *c
	clone.now = now
	return &clone
}

// IssueAccessToken signs a short-lived access token for subject.
func (c *TokenCodec) IssueAccessToken(subject string) (string, error) {
	return c.Issue(subject, TokenTypeAccess, c.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for subject.
func (c *TokenCodec) IssueRefreshToken(subject string) (string, error) {
	return c.Issue(subject, TokenTypeRefresh, c.refreshTTL)
}

// Issue signs a token of the given type expiring ttl from now.
func (c *TokenCodec) Issue(subject string, tokenType TokenType, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", apperrors.Wrap(CodeAuthError, "cannot issue token without subject", ErrMissingSubject)
	}
	now := c.now()
	claims := tokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", apperrors.Wrap(CodeAuthError, "failed to sign token", err)
	}
	return signed, nil
}

// Verify checks the signature and, unless relaxed by opts, the expiry and token type.
func (c *TokenCodec) Verify(token string, opts VerifyOptions) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, invalidToken("token missing", ErrMalformedToken)
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if opts.AllowExpired {
		parserOpts = append(parserOpts, jwt.WithoutClaimsValidation())
	} else {
		parserOpts = append(parserOpts, jwt.WithExpirationRequired())
	}
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return c.secret, nil
	}, parserOpts...)
	if err != nil {
		return Claims{}, classifyParseError(err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, invalidToken("token invalid", ErrBadSignature)
	}

	switch {
	case opts.ExpectRefresh && claims.TokenType != TokenTypeRefresh:
		return Claims{}, invalidToken("refresh token required", ErrWrongTokenType)
	case !opts.ExpectRefresh && claims.TokenType == TokenTypeRefresh:
		return Claims{}, invalidToken("refresh token used as access token", ErrWrongTokenType)
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.Email
	}
	if subject == "" {
		return Claims{}, invalidToken("token subject missing", ErrMissingSubject)
	}

	out := Claims{
		Subject:   subject,
		TokenType: claims.TokenType,
		ID:        claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// Expired reports whether claims are past expiry on the codec's clock.
// A token whose expiry equals the current instant is expired.
func (c *TokenCodec) Expired(claims Claims) bool {
	if claims.ExpiresAt.IsZero() {
		return true
	}
	return !c.now().Before(claims.ExpiresAt)
}

// tokenClaims is the wire form. Email is only read, for tokens minted before
// the subject moved to "sub".
type tokenClaims struct {
	jwt.RegisteredClaims
	Email     string    `json:"email,omitempty"`
	TokenType TokenType `json:"type,omitempty"`
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return invalidToken("token expired", fmt.Errorf("%w: %w", ErrExpiredToken, err))
	case errors.Is(err, jwt.ErrTokenMalformed):
		return invalidToken("token malformed", fmt.Errorf("%w: %w", ErrMalformedToken, err))
	default:
		return invalidToken("token validation failed", fmt.Errorf("%w: %w", ErrBadSignature, err))
	}
}

func invalidToken(message string, err error) error {
	return apperrors.Wrap("invalid_token", message, err)
}
