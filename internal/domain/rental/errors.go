package rental

import "errors"

var (
	// ErrNotFound indicates the rental does not exist.
	ErrNotFound = errors.New("rental not found")
	// ErrBookNotFound indicates the rented book does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookUnavailable indicates the book is inactive or has no copies left.
	ErrBookUnavailable = errors.New("book unavailable")
	// ErrAlreadyReturned indicates the rental was settled before.
	ErrAlreadyReturned = errors.New("rental already returned")
)
