package book

import "time"

// Book is a catalog title with a fixed number of lendable copies.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	Price           float64   `json:"price"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateRequest captures a new catalog entry.
type CreateRequest struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	ISBN            string   `json:"isbn"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	TotalCopies     *int     `json:"total_copies"`
	AvailableCopies *int     `json:"available_copies"`
	Price           *float64 `json:"price"`
	PublicationYear *int     `json:"publication_year"`
	IsActive        *bool    `json:"is_active"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Title           *string  `json:"title"`
	Author          *string  `json:"author"`
	ISBN            *string  `json:"isbn"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	TotalCopies     *int     `json:"total_copies"`
	AvailableCopies *int     `json:"available_copies"`
	Price           *float64 `json:"price"`
	PublicationYear *int     `json:"publication_year"`
	IsActive        *bool    `json:"is_active"`
}
