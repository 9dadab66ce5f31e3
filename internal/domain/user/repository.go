package user

import (
	"context"

	"github.com/yanqian/book-rental/pkg/pagination"
)

// Repository abstracts user persistence.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	List(ctx context.Context, page pagination.Page) ([]User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id int64) error
}

// PasswordHasher produces the stored credential for a plaintext password.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// RentalChecker reports whether any rental, open or returned, references a user.
type RentalChecker interface {
	HasRentals(ctx context.Context, userID int64) (bool, error)
}
