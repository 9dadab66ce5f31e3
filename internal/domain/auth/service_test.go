package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanqian/book-rental/internal/domain/auth/password"
	"github.com/yanqian/book-rental/internal/domain/user"
	apperrors "github.com/yanqian/book-rental/pkg/errors"
)

func TestService_LoginThenResolve(t *testing.T) {
	svc, _ := newServiceUnderTest(t, Config{}, fixedNow)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Reader@Example.com", Password: "pass1234"})
	require.NoError(t, err)
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, UserSummary{ID: 1, Name: "Reader", Email: "reader@example.com", IsActive: true}, resp.User)

	identity, err := svc.Resolve(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), identity.ID)
	require.Equal(t, "reader@example.com", identity.Email)
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newServiceUnderTest(t, Config{}, fixedNow)

	cases := []LoginRequest{
		{Email: "reader@example.com", Password: "wrong-pass"},
		{Email: "nobody@example.com", Password: "pass1234"},
		{Email: "reader@example.com", Password: ""},
		{Email: "not an email", Password: "pass1234"},
	}
	var messages []string
	for _, req := range cases {
		resp, err := svc.Login(context.Background(), req)
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.True(t, apperrors.IsCode(err, CodeInvalidCredentials))
		require.Empty(t, resp.AccessToken)
		require.Empty(t, resp.RefreshToken)
		messages = append(messages, err.Error())
	}
	for _, msg := range messages[1:] {
		require.Equal(t, messages[0], msg)
	}
}

func TestService_LoginUnknownEmailStillVerifies(t *testing.T) {
	cfg := Config{Secret: "test-secret", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}
	users := &lookupStub{users: map[string]user.User{}}
	codec := NewTokenCodec(cfg)
	verifier := &countingVerifier{}
	svc := NewService(cfg, codec, NewResolver(codec, users, newTestLogger()), users, verifier, newTestLogger())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "pass1234"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, []string{absentAccountDigest}, verifier.digests)

	cost, err := bcrypt.Cost([]byte(absentAccountDigest))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}

func TestService_ResolveForgedToken(t *testing.T) {
	svc, _ := newServiceUnderTest(t, Config{}, fixedNow)
	forged, err := NewTokenCodec(Config{Secret: "not-the-secret", AccessTokenTTL: time.Hour}).
		WithClock(func() time.Time { return fixedNow }).
		IssueAccessToken("reader@example.com")
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), forged)
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestService_ResolveDeletedAccount(t *testing.T) {
	svc, users := newServiceUnderTest(t, Config{}, fixedNow)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "reader@example.com", Password: "pass1234"})
	require.NoError(t, err)

	users.remove("reader@example.com")

	_, err = svc.Resolve(context.Background(), resp.AccessToken)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.True(t, apperrors.IsCode(err, CodeUnauthenticated))
}

func TestService_Refresh(t *testing.T) {
	svc, _ := newServiceUnderTest(t, Config{}, fixedNow)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "reader@example.com", Password: "pass1234"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "bearer", refreshed.TokenType)
	require.Equal(t, "reader@example.com", refreshed.User.Email)
	require.NotEqual(t, resp.AccessToken, refreshed.AccessToken)

	identity, err := svc.Resolve(context.Background(), refreshed.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", identity.Email)
}

func TestService_RefreshWithAccessToken(t *testing.T) {
	svc, _ := newServiceUnderTest(t, Config{}, fixedNow)
	resp, err := svc.Login(context.Background(), LoginRequest{Email: "reader@example.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
	require.ErrorIs(t, err, ErrWrongTokenType)
	require.True(t, apperrors.IsCode(err, CodeInvalidRefreshToken))
}

func TestService_RefreshMissingToken(t *testing.T) {
	svc, _ := newServiceUnderTest(t, Config{}, fixedNow)

	_, err := svc.Refresh(context.Background(), "  ")
	require.ErrorIs(t, err, ErrMissingRefreshToken)
	require.True(t, apperrors.IsCode(err, CodeMissingRefreshToken))
	require.False(t, apperrors.IsCode(err, CodeInvalidRefreshToken))
}

func TestService_RefreshTokenExpiry(t *testing.T) {
	issued := fixedNow.Add(-8 * 24 * time.Hour)
	issuer := newTestCodec(issued)
	stale, err := issuer.IssueRefreshToken("reader@example.com")
	require.NoError(t, err)

	strict, _ := newServiceUnderTest(t, Config{}, fixedNow)
	_, err = strict.Refresh(context.Background(), stale)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
	require.ErrorIs(t, err, ErrExpiredToken)

	lenient, _ := newServiceUnderTest(t, Config{AllowExpiredRefresh: true}, fixedNow)
	refreshed, err := lenient.Refresh(context.Background(), stale)
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", refreshed.User.Email)
}

func newServiceUnderTest(t *testing.T, cfg Config, now time.Time) (Service, *lookupStub) {
	t.Helper()
	cfg.Secret = "test-secret"
	cfg.AccessTokenTTL = 30 * time.Minute
	cfg.RefreshTokenTTL = 7 * 24 * time.Hour

	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	digest, err := hasher.Hash("pass1234")
	require.NoError(t, err)

	users := &lookupStub{users: map[string]user.User{
		"reader@example.com": {ID: 1, Name: "Reader", Email: "reader@example.com", PasswordHash: digest, IsActive: true},
	}}
	codec := NewTokenCodec(cfg).WithClock(func() time.Time { return now })
	resolver := NewResolver(codec, users, newTestLogger())
	return NewService(cfg, codec, resolver, users, hasher, newTestLogger()), users
}

// countingVerifier accepts every password and records the digests it saw.
type countingVerifier struct {
	digests []string
}

func (v *countingVerifier) Verify(_, digest string) bool {
	v.digests = append(v.digests, digest)
	return true
}

type lookupStub struct {
	mu    sync.Mutex
	users map[string]user.User
}

func (l *lookupStub) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.users[email]
	return u, ok, nil
}

func (l *lookupStub) remove(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.users, email)
}
