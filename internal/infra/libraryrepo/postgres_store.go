package libraryrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/book-rental/internal/domain/book"
	"github.com/yanqian/book-rental/internal/domain/rental"
	"github.com/yanqian/book-rental/internal/domain/user"
	"github.com/yanqian/book-rental/pkg/pagination"
)

const (
	bookColumns   = `id, title, author, isbn, description, category, total_copies, available_copies, price, publication_year, is_active, created_at, updated_at`
	rentalColumns = `id, user_id, book_id, rental_date, due_date, return_date, daily_rate, total_amount, is_returned, late_fee, status, created_at, updated_at`
)

// PostgresBookRepository implements book.Repository.
type PostgresBookRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookRepository creates a new repository.
func NewPostgresBookRepository(pool *pgxpool.Pool) *PostgresBookRepository {
	return &PostgresBookRepository{pool: pool}
}

// Create inserts a new book row.
func (r *PostgresBookRepository) Create(ctx context.Context, b book.Book) (book.Book, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO books (title, author, isbn, description, category, total_copies, available_copies, price, publication_year, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+bookColumns,
		b.Title, b.Author, b.ISBN, b.Description, b.Category, b.TotalCopies, b.AvailableCopies, b.Price, b.PublicationYear, b.IsActive)
	created, err := scanBook(row)
	if err != nil {
		return book.Book{}, mapBookError(err)
	}
	return created, nil
}

// GetByID fetches by primary key.
func (r *PostgresBookRepository) GetByID(ctx context.Context, id int64) (book.Book, bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		return book.Book{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return book.Book{}, false, rows.Err()
	}
	b, err := scanBook(rows)
	if err != nil {
		return book.Book{}, false, err
	}
	return b, true, rows.Err()
}

// List returns one page of books ordered by ID.
func (r *PostgresBookRepository) List(ctx context.Context, page pagination.Page) ([]book.Book, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookColumns+`
		FROM books
		ORDER BY id
		OFFSET $1 LIMIT $2
	`, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	books := make([]book.Book, 0, page.Limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Update locks the row, applies the edit and writes it back in one transaction.
func (r *PostgresBookRepository) Update(ctx context.Context, id int64, apply func(*book.Book) error) (book.Book, error) {
	var updated book.Book
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		b, err := scanBook(tx.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return mapBookError(err)
		}
		if err := apply(&b); err != nil {
			return err
		}
		row := tx.QueryRow(ctx, `
			UPDATE books
			SET title = $2, author = $3, isbn = $4, description = $5, category = $6, total_copies = $7,
				available_copies = $8, price = $9, publication_year = $10, is_active = $11, updated_at = NOW()
			WHERE id = $1
			RETURNING `+bookColumns,
			id, b.Title, b.Author, b.ISBN, b.Description, b.Category, b.TotalCopies, b.AvailableCopies, b.Price, b.PublicationYear, b.IsActive)
		updated, err = scanBook(row)
		return mapBookError(err)
	})
	if err != nil {
		return book.Book{}, err
	}
	return updated, nil
}

// Delete removes a book no rental references.
func (r *PostgresBookRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return mapBookError(err)
	}
	if tag.RowsAffected() == 0 {
		return book.ErrNotFound
	}
	return nil
}

// PostgresRentalRepository implements rental.Repository.
type PostgresRentalRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRentalRepository creates a new repository.
func NewPostgresRentalRepository(pool *pgxpool.Pool) *PostgresRentalRepository {
	return &PostgresRentalRepository{pool: pool}
}

// Create takes one copy of the book and inserts the rental in one transaction.
func (r *PostgresRentalRepository) Create(ctx context.Context, rent rental.Rental) (rental.Rental, error) {
	var created rental.Rental
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE books
			SET available_copies = available_copies - 1, updated_at = NOW()
			WHERE id = $1 AND is_active AND available_copies > 0
		`, rent.BookID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, rent.BookID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return rental.ErrBookNotFound
			}
			return rental.ErrBookUnavailable
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO rentals (user_id, book_id, rental_date, due_date, daily_rate, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+rentalColumns,
			rent.UserID, rent.BookID, rent.RentalDate, rent.DueDate, rent.DailyRate, string(rental.StatusActive))
		created, err = scanRental(row)
		return err
	})
	if err != nil {
		return rental.Rental{}, err
	}
	return created, nil
}

// GetByID fetches by primary key.
func (r *PostgresRentalRepository) GetByID(ctx context.Context, id int64) (rental.Rental, bool, error) {
	rentals, err := r.query(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1 LIMIT 1`, id)
	if err != nil || len(rentals) == 0 {
		return rental.Rental{}, false, err
	}
	return rentals[0], true, nil
}

// List returns one page of rentals ordered by ID.
func (r *PostgresRentalRepository) List(ctx context.Context, page pagination.Page) ([]rental.Rental, error) {
	return r.query(ctx, `
		SELECT `+rentalColumns+`
		FROM rentals
		ORDER BY id
		OFFSET $1 LIMIT $2
	`, page.Skip, page.Limit)
}

// ListByUser returns one page of a renter's rentals ordered by ID.
func (r *PostgresRentalRepository) ListByUser(ctx context.Context, userID int64, page pagination.Page) ([]rental.Rental, error) {
	return r.query(ctx, `
		SELECT `+rentalColumns+`
		FROM rentals
		WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`, userID, page.Skip, page.Limit)
}

// ListOverdue returns open rentals due before now, earliest due first.
func (r *PostgresRentalRepository) ListOverdue(ctx context.Context, now time.Time) ([]rental.Rental, error) {
	return r.query(ctx, `
		SELECT `+rentalColumns+`
		FROM rentals
		WHERE NOT is_returned AND due_date < $1
		ORDER BY due_date, id
	`, now)
}

// MarkReturned settles the rental and gives the copy back in one transaction.
func (r *PostgresRentalRepository) MarkReturned(ctx context.Context, rent rental.Rental) (rental.Rental, error) {
	var returned rental.Rental
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE rentals
			SET return_date = $2, total_amount = $3, late_fee = $4, is_returned = TRUE, status = $5, updated_at = NOW()
			WHERE id = $1 AND NOT is_returned
			RETURNING `+rentalColumns,
			rent.ID, rent.ReturnDate, rent.TotalAmount, rent.LateFee, string(rental.StatusReturned))
		var err error
		returned, err = scanRental(row)
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rentals WHERE id = $1)`, rent.ID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return rental.ErrNotFound
			}
			return rental.ErrAlreadyReturned
		}
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE books
			SET available_copies = LEAST(available_copies + 1, total_copies), updated_at = NOW()
			WHERE id = $1
		`, returned.BookID)
		return err
	})
	if err != nil {
		return rental.Rental{}, err
	}
	return returned, nil
}

// HasRentals reports whether any rental references userID.
func (r *PostgresRentalRepository) HasRentals(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rentals WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}

func (r *PostgresRentalRepository) query(ctx context.Context, query string, args ...any) ([]rental.Rental, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rentals := make([]rental.Rental, 0)
	for rows.Next() {
		rent, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rent)
	}
	return rentals, rows.Err()
}

// withTx commits when fn succeeds and rolls back otherwise.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()
	return fn(tx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (book.Book, error) {
	var b book.Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Category, &b.TotalCopies,
		&b.AvailableCopies, &b.Price, &b.PublicationYear, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return book.Book{}, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}

func scanRental(row rowScanner) (rental.Rental, error) {
	var (
		rent   rental.Rental
		status string
	)
	if err := row.Scan(&rent.ID, &rent.UserID, &rent.BookID, &rent.RentalDate, &rent.DueDate, &rent.ReturnDate,
		&rent.DailyRate, &rent.TotalAmount, &rent.IsReturned, &rent.LateFee, &status, &rent.CreatedAt, &rent.UpdatedAt); err != nil {
		return rental.Rental{}, err
	}
	rent.Status = rental.Status(status)
	rent.RentalDate = rent.RentalDate.UTC()
	rent.DueDate = rent.DueDate.UTC()
	if rent.ReturnDate != nil {
		returned := rent.ReturnDate.UTC()
		rent.ReturnDate = &returned
	}
	rent.CreatedAt = rent.CreatedAt.UTC()
	rent.UpdatedAt = rent.UpdatedAt.UTC()
	return rent, nil
}

func mapBookError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return book.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return book.ErrISBNExists
		case pgerrcode.ForeignKeyViolation:
			return book.ErrInUse
		}
	}
	return err
}

var (
	_ book.Repository    = (*PostgresBookRepository)(nil)
	_ rental.Repository  = (*PostgresRentalRepository)(nil)
	_ user.RentalChecker = (*PostgresRentalRepository)(nil)
)
