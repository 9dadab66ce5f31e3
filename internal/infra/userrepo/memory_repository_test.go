package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/book-rental/internal/domain/user"
	"github.com/yanqian/book-rental/pkg/pagination"
)

func TestMemoryRepository_CRUD(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	alice, err := repo.Create(ctx, user.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "h", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, int64(1), alice.ID)
	require.False(t, alice.CreatedAt.IsZero())

	_, err = repo.Create(ctx, user.User{Name: "Dup", Email: "alice@example.com"})
	require.ErrorIs(t, err, user.ErrEmailExists)

	bob, err := repo.Create(ctx, user.User{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	bob.Email = "alice@example.com"
	_, err = repo.Update(ctx, bob)
	require.ErrorIs(t, err, user.ErrEmailExists)

	bob.Email = "robert@example.com"
	updated, err := repo.Update(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, "robert@example.com", updated.Email)

	_, found, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.False(t, found)
	got, found, err := repo.GetByEmail(ctx, "robert@example.com")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, bob.ID, got.ID)

	page, err := pagination.New(1, 10)
	require.NoError(t, err)
	listed, err := repo.List(ctx, page)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, bob.ID, listed[0].ID)

	require.NoError(t, repo.Delete(ctx, alice.ID))
	require.ErrorIs(t, repo.Delete(ctx, alice.ID), user.ErrNotFound)
	_, found, err = repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, found)
}
