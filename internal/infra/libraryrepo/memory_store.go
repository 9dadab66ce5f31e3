// Package libraryrepo stores books and the rentals that draw down their stock.
// Both repositories of a store share one lock or one database so a checkout
// and its stock change commit together.
package libraryrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/book-rental/internal/domain/book"
	"github.com/yanqian/book-rental/internal/domain/rental"
	"github.com/yanqian/book-rental/internal/domain/user"
	"github.com/yanqian/book-rental/pkg/pagination"
)

// MemoryStore keeps the catalog and rentals in process for tests/dev.
type MemoryStore struct {
	mu        sync.RWMutex
	books     map[int64]book.Book
	isbnIndex map[string]int64
	rentals   map[int64]rental.Rental
	bookSeq   int64
	rentalSeq int64
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:     make(map[int64]book.Book),
		isbnIndex: make(map[string]int64),
		rentals:   make(map[int64]rental.Rental),
	}
}

// Books returns the catalog view of the store.
func (s *MemoryStore) Books() *MemoryBookRepository {
	return &MemoryBookRepository{s: s}
}

// Rentals returns the rental view of the store.
func (s *MemoryStore) Rentals() *MemoryRentalRepository {
	return &MemoryRentalRepository{s: s}
}

// MemoryBookRepository implements book.Repository.
type MemoryBookRepository struct {
	s *MemoryStore
}

// Create stores the book.
func (r *MemoryBookRepository) Create(_ context.Context, b book.Book) (book.Book, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.isbnIndex[b.ISBN]; exists {
		return book.Book{}, book.ErrISBNExists
	}
	s.bookSeq++
	now := time.Now().UTC()
	b.ID = s.bookSeq
	b.CreatedAt = now
	b.UpdatedAt = now
	s.books[b.ID] = b
	s.isbnIndex[b.ISBN] = b.ID
	return b, nil
}

// GetByID fetches by ID.
func (r *MemoryBookRepository) GetByID(_ context.Context, id int64) (book.Book, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.books[id]
	return b, ok, nil
}

// List returns books ordered by ID.
func (r *MemoryBookRepository) List(_ context.Context, page pagination.Page) ([]book.Book, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]book.Book, 0, len(s.books))
	for id := int64(1); id <= s.bookSeq; id++ {
		if b, ok := s.books[id]; ok {
			out = append(out, b)
		}
	}
	start, end := page.Bounds(len(out))
	return out[start:end], nil
}

// Update edits the stored record under the store lock.
func (r *MemoryBookRepository) Update(_ context.Context, id int64, apply func(*book.Book) error) (book.Book, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	b := current
	if err := apply(&b); err != nil {
		return book.Book{}, err
	}
	if owner, exists := s.isbnIndex[b.ISBN]; exists && owner != id {
		return book.Book{}, book.ErrISBNExists
	}
	delete(s.isbnIndex, current.ISBN)
	b.ID = id
	b.CreatedAt = current.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	s.books[id] = b
	s.isbnIndex[b.ISBN] = id
	return b, nil
}

// Delete removes a book that no rental references.
func (r *MemoryBookRepository) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return book.ErrNotFound
	}
	for _, rent := range s.rentals {
		if rent.BookID == id {
			return book.ErrInUse
		}
	}
	delete(s.books, id)
	delete(s.isbnIndex, b.ISBN)
	return nil
}

// MemoryRentalRepository implements rental.Repository.
type MemoryRentalRepository struct {
	s *MemoryStore
}

// Create records the rental and takes one copy of the book.
func (r *MemoryRentalRepository) Create(_ context.Context, rent rental.Rental) (rental.Rental, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[rent.BookID]
	if !ok {
		return rental.Rental{}, rental.ErrBookNotFound
	}
	if !b.IsActive || b.AvailableCopies <= 0 {
		return rental.Rental{}, rental.ErrBookUnavailable
	}
	now := time.Now().UTC()
	b.AvailableCopies--
	b.UpdatedAt = now
	s.books[b.ID] = b

	s.rentalSeq++
	rent.ID = s.rentalSeq
	if rent.CreatedAt.IsZero() {
		rent.CreatedAt = now
	}
	if rent.UpdatedAt.IsZero() {
		rent.UpdatedAt = now
	}
	s.rentals[rent.ID] = rent
	return rent, nil
}

// GetByID fetches by ID.
func (r *MemoryRentalRepository) GetByID(_ context.Context, id int64) (rental.Rental, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rent, ok := r.s.rentals[id]
	return rent, ok, nil
}

// List returns rentals ordered by ID.
func (r *MemoryRentalRepository) List(_ context.Context, page pagination.Page) ([]rental.Rental, error) {
	return r.filter(page, func(rental.Rental) bool { return true }), nil
}

// ListByUser returns one renter's rentals ordered by ID.
func (r *MemoryRentalRepository) ListByUser(_ context.Context, userID int64, page pagination.Page) ([]rental.Rental, error) {
	return r.filter(page, func(rent rental.Rental) bool { return rent.UserID == userID }), nil
}

// ListOverdue returns open rentals due before now, earliest due first.
func (r *MemoryRentalRepository) ListOverdue(_ context.Context, now time.Time) ([]rental.Rental, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]rental.Rental, 0)
	for _, rent := range r.s.rentals {
		if !rent.IsReturned && rent.DueDate.Before(now) {
			out = append(out, rent)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out, nil
}

// MarkReturned stores the settlement and gives the copy back.
func (r *MemoryRentalRepository) MarkReturned(_ context.Context, rent rental.Rental) (rental.Rental, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.rentals[rent.ID]
	if !ok {
		return rental.Rental{}, rental.ErrNotFound
	}
	if current.IsReturned {
		return rental.Rental{}, rental.ErrAlreadyReturned
	}
	current.ReturnDate = rent.ReturnDate
	current.TotalAmount = rent.TotalAmount
	current.LateFee = rent.LateFee
	current.IsReturned = true
	current.Status = rental.StatusReturned
	current.UpdatedAt = rent.UpdatedAt
	s.rentals[current.ID] = current

	if b, ok := s.books[current.BookID]; ok && b.AvailableCopies < b.TotalCopies {
		b.AvailableCopies++
		b.UpdatedAt = time.Now().UTC()
		s.books[b.ID] = b
	}
	return current, nil
}

// HasRentals reports whether any rental references userID.
func (r *MemoryRentalRepository) HasRentals(_ context.Context, userID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rent := range r.s.rentals {
		if rent.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRentalRepository) filter(page pagination.Page, keep func(rental.Rental) bool) []rental.Rental {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rental.Rental, 0)
	for id := int64(1); id <= s.rentalSeq; id++ {
		if rent, ok := s.rentals[id]; ok && keep(rent) {
			out = append(out, rent)
		}
	}
	start, end := page.Bounds(len(out))
	return out[start:end]
}

var (
	_ book.Repository    = (*MemoryBookRepository)(nil)
	_ rental.Repository  = (*MemoryRentalRepository)(nil)
	_ user.RentalChecker = (*MemoryRentalRepository)(nil)
)
