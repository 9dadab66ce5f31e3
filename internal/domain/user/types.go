package user

import "time"

// User represents a persisted account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Age          *int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// View trims sensitive fields.
type View struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest captures the registration payload.
type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age"`
	IsActive *bool  `json:"is_active"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Age      *int    `json:"age"`
	IsActive *bool   `json:"is_active"`
}

// ToView converts the record to its public representation.
func (u User) ToView() View {
	return View{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
