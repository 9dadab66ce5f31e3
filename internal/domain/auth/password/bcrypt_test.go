package password

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	digest, err := h.Hash("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", digest)

	require.True(t, h.Verify("correct horse", digest))
	require.False(t, h.Verify("correct horse!", digest))
	require.False(t, h.Verify("", digest))
}

func TestHasher_SaltsEachDigest(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	first, err := h.Hash("same-password")
	require.NoError(t, err)
	second, err := h.Hash("same-password")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, h.Verify("same-password", first))
	require.True(t, h.Verify("same-password", second))
}

func TestHasher_CorruptDigestFailsClosed(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	digest, err := h.Hash("secret-value")
	require.NoError(t, err)

	for _, corrupt := range []string{"", "not-a-hash", digest[:len(digest)-5], "$2a$04$" + "short"} {
		require.False(t, h.Verify("secret-value", corrupt), corrupt)
	}
}

func TestHasher_EmptyPassword(t *testing.T) {
	h, err := NewHasher(0)
	require.NoError(t, err)

	_, err = h.Hash("")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestNewHasher_RejectsCostOutOfRange(t *testing.T) {
	_, err := NewHasher(bcrypt.MaxCost + 1)
	require.Error(t, err)
	_, err = NewHasher(1)
	require.Error(t, err)
}
