package rental

import "time"

// Status is the persisted lifecycle state of a rental.
type Status string

const (
	StatusActive   Status = "active"
	StatusReturned Status = "returned"
	// StatusOverdue is derived on read for active rentals past their due date.
	StatusOverdue Status = "overdue"
)

// DefaultLateFeeMultiplier applies to every overdue day on top of the daily rate.
const DefaultLateFeeMultiplier = 1.5

// Config tunes rental charging.
type Config struct {
	LateFeeMultiplier float64
}

// Rental is one checkout of one book copy.
type Rental struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	BookID      int64      `json:"book_id"`
	RentalDate  time.Time  `json:"rental_date"`
	DueDate     time.Time  `json:"due_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	DailyRate   float64    `json:"daily_rate"`
	TotalAmount *float64   `json:"total_amount,omitempty"`
	IsReturned  bool       `json:"is_returned"`
	LateFee     float64    `json:"late_fee"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateRequest captures a checkout. DueDate accepts RFC 3339, a naive
// timestamp (treated as UTC) or a plain date.
type CreateRequest struct {
	UserID    int64    `json:"user_id"`
	BookID    int64    `json:"book_id"`
	DueDate   string   `json:"due_date"`
	DailyRate *float64 `json:"daily_rate"`
}
