package book

import (
	"context"

	"github.com/yanqian/book-rental/pkg/pagination"
)

// Repository abstracts catalog persistence.
type Repository interface {
	Create(ctx context.Context, book Book) (Book, error)
	GetByID(ctx context.Context, id int64) (Book, bool, error)
	List(ctx context.Context, page pagination.Page) ([]Book, error)
	// Update loads the book, lets apply edit it and stores the result while
	// holding the row, so stock moved by checkouts in between is not lost.
	// Errors from apply are returned unchanged.
	Update(ctx context.Context, id int64, apply func(*Book) error) (Book, error)
	Delete(ctx context.Context, id int64) error
}
