package rental

import (
	"context"
	"time"

	"github.com/yanqian/book-rental/internal/domain/user"
	"github.com/yanqian/book-rental/pkg/pagination"
)

// Repository persists rentals together with the book stock they consume.
type Repository interface {
	// Create stores the rental and takes one available copy of the book in the same unit of work.
	Create(ctx context.Context, r Rental) (Rental, error)
	GetByID(ctx context.Context, id int64) (Rental, bool, error)
	List(ctx context.Context, page pagination.Page) ([]Rental, error)
	ListByUser(ctx context.Context, userID int64, page pagination.Page) ([]Rental, error)
	// ListOverdue returns unreturned rentals due before now.
	ListOverdue(ctx context.Context, now time.Time) ([]Rental, error)
	// MarkReturned persists the settlement and gives the copy back to the book.
	MarkReturned(ctx context.Context, r Rental) (Rental, error)
}

// UserChecker resolves renters.
type UserChecker interface {
	GetByID(ctx context.Context, id int64) (user.User, bool, error)
}
