package book

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("book not found")
	// ErrISBNExists indicates a duplicate ISBN.
	ErrISBNExists = errors.New("isbn already exists")
	// ErrInUse is returned when any rental, open or returned, references the book.
	ErrInUse = errors.New("book has rentals")
)
