// Package pagination normalizes skip/limit listing windows.
package pagination

import "errors"

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Page is an offset window over an ordered listing.
type Page struct {
	Skip  int
	Limit int
}

// New validates skip and limit. A zero limit selects DefaultLimit.
func New(skip, limit int) (Page, error) {
	if skip < 0 {
		return Page{}, errors.New("skip must be non-negative")
	}
	if limit < 0 {
		return Page{}, errors.New("limit must be non-negative")
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		return Page{}, errors.New("limit cannot exceed 500")
	}
	return Page{Skip: skip, Limit: limit}, nil
}

// Default returns the first page with the default limit.
func Default() Page {
	return Page{Limit: DefaultLimit}
}

// Bounds returns the [start, end) slice indexes for a collection of size n.
func (p Page) Bounds(n int) (int, int) {
	start := p.Skip
	if start > n {
		start = n
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	end := start + limit
	if end > n {
		end = n
	}
	return start, end
}
