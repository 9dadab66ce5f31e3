package user

import "errors"

var (
	// ErrEmailExists indicates a duplicate email address.
	ErrEmailExists = errors.New("email already exists")
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("user not found")
)

// ErrInUse is returned when rentals still reference the account.
var ErrInUse = errors.New("user has rentals")
