package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/book-rental/pkg/errors"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCodec(now time.Time) *TokenCodec {
	return NewTokenCodec(Config{
		Secret:          "test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}).WithClock(func() time.Time { return now })
}

func TestTokenCodec_AccessRoundTrip(t *testing.T) {
	codec := newTestCodec(fixedNow)

	token, err := codec.IssueAccessToken("reader@example.com")
	require.NoError(t, err)

	claims, err := codec.Verify(token, VerifyOptions{})
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", claims.Subject)
	require.Equal(t, TokenTypeAccess, claims.TokenType)
	require.Equal(t, fixedNow.Add(30*time.Minute), claims.ExpiresAt.UTC())
	require.NotEmpty(t, claims.ID)

	again, err := codec.Verify(token, VerifyOptions{})
	require.NoError(t, err)
	require.Equal(t, claims, again)
}

func TestTokenCodec_RefreshTTL(t *testing.T) {
	codec := newTestCodec(fixedNow)

	token, err := codec.IssueRefreshToken("reader@example.com")
	require.NoError(t, err)

	claims, err := codec.Verify(token, VerifyOptions{ExpectRefresh: true})
	require.NoError(t, err)
	require.Equal(t, TokenTypeRefresh, claims.TokenType)
	require.Equal(t, fixedNow.Add(7*24*time.Hour), claims.ExpiresAt.UTC())
}

func TestTokenCodec_ExpiryBoundary(t *testing.T) {
	issuer := newTestCodec(fixedNow)
	token, err := issuer.Issue("reader@example.com", TokenTypeAccess, 10*time.Second)
	require.NoError(t, err)

	_, err = issuer.WithClock(func() time.Time { return fixedNow.Add(9 * time.Second) }).Verify(token, VerifyOptions{})
	require.NoError(t, err)

	atExpiry := issuer.WithClock(func() time.Time { return fixedNow.Add(10 * time.Second) })
	_, err = atExpiry.Verify(token, VerifyOptions{})
	require.ErrorIs(t, err, ErrExpiredToken)
	require.True(t, atExpiry.Expired(Claims{ExpiresAt: fixedNow.Add(10 * time.Second)}))

	claims, err := atExpiry.Verify(token, VerifyOptions{AllowExpired: true})
	require.NoError(t, err)
	require.Equal(t, "reader@example.com", claims.Subject)
}

func TestTokenCodec_TypeDiscrimination(t *testing.T) {
	codec := newTestCodec(fixedNow)
	access, err := codec.IssueAccessToken("reader@example.com")
	require.NoError(t, err)
	refresh, err := codec.IssueRefreshToken("reader@example.com")
	require.NoError(t, err)

	_, err = codec.Verify(access, VerifyOptions{ExpectRefresh: true})
	require.ErrorIs(t, err, ErrWrongTokenType)

	_, err = codec.Verify(refresh, VerifyOptions{})
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestTokenCodec_BadSignature(t *testing.T) {
	codec := newTestCodec(fixedNow)
	forger := NewTokenCodec(Config{Secret: "other-secret", AccessTokenTTL: time.Hour}).
		WithClock(func() time.Time { return fixedNow })

	token, err := forger.IssueAccessToken("reader@example.com")
	require.NoError(t, err)

	_, err = codec.Verify(token, VerifyOptions{})
	require.ErrorIs(t, err, ErrBadSignature)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	_, err = codec.Verify(token, VerifyOptions{AllowExpired: true})
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := newTestCodec(fixedNow)
	claims := jwt.MapClaims{"sub": "reader@example.com", "exp": fixedNow.Add(time.Hour).Unix()}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = codec.Verify(hs512, VerifyOptions{})
	require.ErrorIs(t, err, ErrBadSignature)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Verify(none, VerifyOptions{})
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := newTestCodec(fixedNow)

	for _, token := range []string{"", "   ", "not.a.jwt", "abc"} {
		_, err := codec.Verify(token, VerifyOptions{})
		require.ErrorIs(t, err, ErrMalformedToken, token)
	}
}

func TestTokenCodec_SubjectFallsBackToEmailClaim(t *testing.T) {
	codec := newTestCodec(fixedNow)
	legacy, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "legacy@example.com",
		"type":  "refresh",
		"exp":   fixedNow.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := codec.Verify(legacy, VerifyOptions{ExpectRefresh: true})
	require.NoError(t, err)
	require.Equal(t, "legacy@example.com", claims.Subject)
}

func TestTokenCodec_MissingSubject(t *testing.T) {
	codec := newTestCodec(fixedNow)
	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": fixedNow.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(anonymous, VerifyOptions{})
	require.ErrorIs(t, err, ErrMissingSubject)

	_, err = codec.IssueAccessToken(" ")
	require.ErrorIs(t, err, ErrMissingSubject)
}

func TestTokenCodec_MissingExpiry(t *testing.T) {
	codec := newTestCodec(fixedNow)
	endless, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "reader@example.com",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(endless, VerifyOptions{})
	require.ErrorIs(t, err, ErrExpiredToken)

	claims, err := codec.Verify(endless, VerifyOptions{AllowExpired: true})
	require.NoError(t, err)
	require.True(t, codec.Expired(claims))
}
