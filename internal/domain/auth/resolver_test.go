package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/book-rental/internal/domain/auth/mocks"
	"github.com/yanqian/book-rental/internal/domain/user"
	apperrors "github.com/yanqian/book-rental/pkg/errors"
)

func TestResolver_ResolvesAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)
	codec := newTestCodec(fixedNow)
	resolver := NewResolver(codec, lookup, newTestLogger())

	account := user.User{ID: 7, Name: "Reader", Email: "reader@example.com", IsActive: true, CreatedAt: fixedNow}
	lookup.EXPECT().GetByEmail(gomock.Any(), "reader@example.com").Return(account, true, nil).Times(2)

	token, err := codec.IssueAccessToken(account.Email)
	require.NoError(t, err)

	identity, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, int64(7), identity.ID)
	require.Equal(t, "Reader", identity.Name)
	require.True(t, identity.IsActive)

	again, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, identity, again)
}

func TestResolver_RejectsBadTokensWithoutLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)
	codec := newTestCodec(fixedNow)
	resolver := NewResolver(codec, lookup, newTestLogger())

	refresh, err := codec.IssueRefreshToken("reader@example.com")
	require.NoError(t, err)
	expired, err := codec.Issue("reader@example.com", TokenTypeAccess, -time.Minute)
	require.NoError(t, err)
	forged, err := NewTokenCodec(Config{Secret: "forged", AccessTokenTTL: time.Hour}).
		WithClock(func() time.Time { return fixedNow }).
		IssueAccessToken("reader@example.com")
	require.NoError(t, err)

	cases := map[string]struct {
		token string
		cause error
	}{
		"refresh": {token: refresh, cause: ErrWrongTokenType},
		"expired": {token: expired, cause: ErrExpiredToken},
		"forged":  {token: forged, cause: ErrBadSignature},
		"garbage": {token: "garbage", cause: ErrMalformedToken},
		"empty":   {token: "", cause: ErrMalformedToken},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tc.token)
			require.ErrorIs(t, err, ErrUnauthenticated)
			require.ErrorIs(t, err, tc.cause)
			require.True(t, apperrors.IsCode(err, CodeUnauthenticated))
			require.Equal(t, "could not validate credentials", apperrors.MessageOf(err))
		})
	}
}

func TestResolver_UserNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)
	codec := newTestCodec(fixedNow)
	resolver := NewResolver(codec, lookup, newTestLogger())

	lookup.EXPECT().GetByEmail(gomock.Any(), "gone@example.com").Return(user.User{}, false, nil)

	token, err := codec.IssueAccessToken("gone@example.com")
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), token)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.True(t, apperrors.IsCode(err, CodeUnauthenticated))
	require.Equal(t, "could not validate credentials", apperrors.MessageOf(err))
}

func TestResolver_LookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)
	codec := newTestCodec(fixedNow)
	resolver := NewResolver(codec, lookup, newTestLogger())

	boom := errors.New("connection reset")
	lookup.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user.User{}, false, boom)

	token, err := codec.IssueAccessToken("reader@example.com")
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), token)
	require.ErrorIs(t, err, boom)
	require.True(t, apperrors.IsCode(err, CodeAuthError))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}
