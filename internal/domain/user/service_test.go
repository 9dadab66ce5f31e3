package user

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/book-rental/pkg/errors"
	"github.com/yanqian/book-rental/pkg/pagination"
)

func TestService_RegisterAndGet(t *testing.T) {
	svc := NewService(newMemoryRepo(), renters{}, plainHasher{}, newTestLogger())

	view, err := svc.Register(context.Background(), CreateRequest{
		Name:     "  Ada Lovelace ",
		Email:    "Ada@Example.com",
		Password: "engines1843",
	})
	require.NoError(t, err)
	require.NotZero(t, view.ID)
	require.Equal(t, "Ada Lovelace", view.Name)
	require.Equal(t, "ada@example.com", view.Email)
	require.True(t, view.IsActive)

	got, err := svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	require.Equal(t, view, got)
}

func TestService_RegisterStoresHashNotPlaintext(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, renters{}, plainHasher{}, newTestLogger())

	view, err := svc.Register(context.Background(), CreateRequest{Name: "Bob", Email: "bob@example.com", Password: "password1"})
	require.NoError(t, err)

	stored := repo.users[view.ID]
	require.Equal(t, "hashed:password1", stored.PasswordHash)
}

func TestService_RegisterValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), renters{}, plainHasher{}, newTestLogger())
	negative := -3

	cases := []CreateRequest{
		{Name: "", Email: "a@example.com", Password: "password1"},
		{Name: "Ann", Email: "not-an-email", Password: "password1"},
		{Name: "Ann", Email: "a@example.com", Password: "short"},
		{Name: "Ann", Email: "a@example.com", Password: "password1", Age: &negative},
		{Name: strings.Repeat("x", 101), Email: "a@example.com", Password: "password1"},
		{Name: "Ann", Email: "a@example.com", Password: strings.Repeat("p", 73)},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, "invalid_input"), err.Error())
	}
}

func TestService_DuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryRepo(), renters{}, plainHasher{}, newTestLogger())

	_, err := svc.Register(context.Background(), CreateRequest{Name: "One", Email: "user@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), CreateRequest{Name: "Two", Email: "USER@example.com", Password: "password2"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "email_exists"))
}

func TestService_UpdatePartial(t *testing.T) {
	svc := NewService(newMemoryRepo(), renters{}, plainHasher{}, newTestLogger())
	first, err := svc.Register(context.Background(), CreateRequest{Name: "One", Email: "one@example.com", Password: "password1"})
	require.NoError(t, err)
	second, err := svc.Register(context.Background(), CreateRequest{Name: "Two", Email: "two@example.com", Password: "password2"})
	require.NoError(t, err)

	name := "Uno"
	inactive := false
	updated, err := svc.Update(context.Background(), first.ID, UpdateRequest{Name: &name, IsActive: &inactive})
	require.NoError(t, err)
	require.Equal(t, "Uno", updated.Name)
	require.Equal(t, "one@example.com", updated.Email)
	require.False(t, updated.IsActive)

	taken := second.Email
	_, err = svc.Update(context.Background(), first.ID, UpdateRequest{Email: &taken})
	require.True(t, apperrors.IsCode(err, "email_exists"))

	same := "ONE@example.com"
	_, err = svc.Update(context.Background(), first.ID, UpdateRequest{Email: &same})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 999, UpdateRequest{Name: &name})
	require.True(t, apperrors.IsCode(err, "user_not_found"))
}

func TestService_ListAndDelete(t *testing.T) {
	svc := NewService(newMemoryRepo(), renters{}, plainHasher{}, newTestLogger())
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Register(context.Background(), CreateRequest{Name: "User", Email: email, Password: "password1"})
		require.NoError(t, err)
	}

	views, err := svc.List(context.Background(), pagination.Page{Skip: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "b@example.com", views[0].Email)

	require.NoError(t, svc.Delete(context.Background(), views[0].ID))
	_, err = svc.Get(context.Background(), views[0].ID)
	require.True(t, apperrors.IsCode(err, "user_not_found"))

	err = svc.Delete(context.Background(), views[0].ID)
	require.True(t, apperrors.IsCode(err, "user_not_found"))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func TestService_RegisterAcceptsMaxLengthPassword(t *testing.T) {
	svc := NewService(newMemoryRepo(), renters{}, plainHasher{}, newTestLogger())

	_, err := svc.Register(context.Background(), CreateRequest{Name: "Ann", Email: "a@example.com", Password: strings.Repeat("p", 72)})
	require.NoError(t, err)
}

func TestService_DeleteRefusedWithRentals(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, renters{1: true}, plainHasher{}, newTestLogger())
	view, err := svc.Register(context.Background(), CreateRequest{Name: "Ann", Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), view.ID)

	err = svc.Delete(context.Background(), view.ID)
	require.True(t, apperrors.IsCode(err, "user_in_use"), "%v", err)
	require.ErrorIs(t, err, ErrInUse)
	_, err = svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
}

// renters lists the user IDs that have rentals.
type renters map[int64]bool

func (r renters) HasRentals(_ context.Context, userID int64) (bool, error) {
	return r[userID], nil
}

type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Create(_ context.Context, u User) (User, error) {
	m.seq++
	u.ID = m.seq
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return u, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *memoryRepo) List(_ context.Context, page pagination.Page) ([]User, error) {
	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	start, end := page.Bounds(len(ids))
	out := make([]User, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, m.users[id])
	}
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, u User) (User, error) {
	if _, ok := m.users[u.ID]; !ok {
		return User{}, ErrNotFound
	}
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return u, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}
