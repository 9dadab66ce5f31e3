package userrepo

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/book-rental/internal/domain/user"
	"github.com/yanqian/book-rental/pkg/pagination"
)

// MemoryRepository provides an in-memory user store for tests/dev.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[int64]user.User
	emailIndex map[string]int64
	seq        int64
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[int64]user.User),
		emailIndex: make(map[string]int64),
	}
}

// Create stores the user record.
func (r *MemoryRepository) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.emailIndex[u.Email]; exists {
		return user.User{}, user.ErrEmailExists
	}
	r.seq++
	now := time.Now().UTC()
	u.ID = r.seq
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = u
	r.emailIndex[u.Email] = u.ID
	return u, nil
}

// GetByEmail returns a user by email.
func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.emailIndex[email]; ok {
		return r.users[id], true, nil
	}
	return user.User{}, false, nil
}

// GetByID fetches by ID.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok, nil
}

// List returns users ordered by ID.
func (r *MemoryRepository) List(_ context.Context, page pagination.Page) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]user.User, 0, len(r.users))
	for id := int64(1); id <= r.seq; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	start, end := page.Bounds(len(out))
	return out[start:end], nil
}

// Update replaces the stored record, keeping the email index consistent.
func (r *MemoryRepository) Update(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.users[u.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if owner, exists := r.emailIndex[u.Email]; exists && owner != u.ID {
		return user.User{}, user.ErrEmailExists
	}
	delete(r.emailIndex, current.Email)
	u.CreatedAt = current.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = u
	r.emailIndex[u.Email] = u.ID
	return u, nil
}

// Delete removes the user. Rental references are not tracked here.
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	delete(r.users, id)
	delete(r.emailIndex, u.Email)
	return nil
}

var _ user.Repository = (*MemoryRepository)(nil)
