package book

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/yanqian/book-rental/pkg/errors"
	"github.com/yanqian/book-rental/pkg/pagination"
)

// Service exposes the book catalog.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Book, error)
	List(ctx context.Context, page pagination.Page) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (Book, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger.With("component", "book.service")}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Book, error) {
	var (
		b   Book
		err error
	)
	if b.Title, err = requiredText("title", req.Title); err != nil {
		return Book{}, invalidInput(err)
	}
	if b.Author, err = requiredText("author", req.Author); err != nil {
		return Book{}, invalidInput(err)
	}
	if b.ISBN, err = normalizeISBN(req.ISBN); err != nil {
		return Book{}, invalidInput(err)
	}
	if req.Price == nil {
		return Book{}, apperrors.Wrap("invalid_input", "price is required", nil)
	}
	if err := validatePrice(*req.Price); err != nil {
		return Book{}, invalidInput(err)
	}
	if err := validateYear(req.PublicationYear); err != nil {
		return Book{}, invalidInput(err)
	}
	b.Price = *req.Price
	b.PublicationYear = req.PublicationYear
	b.Description = trimOptional(req.Description)
	b.Category = trimOptional(req.Category)
	b.TotalCopies = 1
	if req.TotalCopies != nil {
		b.TotalCopies = *req.TotalCopies
	}
	b.AvailableCopies = b.TotalCopies
	if req.AvailableCopies != nil {
		b.AvailableCopies = *req.AvailableCopies
	}
	if err := validateTotal(b.TotalCopies); err != nil {
		return Book{}, invalidInput(err)
	}
	if err := validateCopies(b.TotalCopies, b.AvailableCopies); err != nil {
		return Book{}, invalidInput(err)
	}
	b.IsActive = true
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		if errors.Is(err, ErrISBNExists) {
			return Book{}, apperrors.Wrap("isbn_exists", "ISBN already registered", err)
		}
		return Book{}, apperrors.Wrap("book_error", "failed to create book", err)
	}
	s.logger.Info("book created", "book_id", created.ID)
	return created, nil
}

func (s *service) List(ctx context.Context, page pagination.Page) ([]Book, error) {
	books, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, apperrors.Wrap("book_error", "failed to list books", err)
	}
	return books, nil
}

func (s *service) Get(ctx context.Context, id int64) (Book, error) {
	b, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, apperrors.Wrap("book_error", "failed to load book", err)
	}
	if !found {
		return Book{}, apperrors.Wrap("book_not_found", "Book not found", nil)
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (Book, error) {
	updated, err := s.repo.Update(ctx, id, func(b *Book) error {
		return applyUpdate(b, req)
	})
	if err != nil {
		if apperrors.CodeOf(err) != "" {
			return Book{}, err
		}
		switch {
		case errors.Is(err, ErrISBNExists):
			return Book{}, apperrors.Wrap("isbn_exists", "ISBN already registered", err)
		case errors.Is(err, ErrNotFound):
			return Book{}, apperrors.Wrap("book_not_found", "Book not found", err)
		}
		return Book{}, apperrors.Wrap("book_error", "failed to update book", err)
	}
	return updated, nil
}

// applyUpdate edits b in place. It runs against the stored row, so
// AvailableCopies reflects every checkout committed before it.
func applyUpdate(b *Book, req UpdateRequest) error {
	var err error
	if req.Title != nil {
		if b.Title, err = requiredText("title", *req.Title); err != nil {
			return invalidInput(err)
		}
	}
	if req.Author != nil {
		if b.Author, err = requiredText("author", *req.Author); err != nil {
			return invalidInput(err)
		}
	}
	if req.ISBN != nil {
		if b.ISBN, err = normalizeISBN(*req.ISBN); err != nil {
			return invalidInput(err)
		}
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return invalidInput(err)
		}
		b.Price = *req.Price
	}
	if req.PublicationYear != nil {
		if err := validateYear(req.PublicationYear); err != nil {
			return invalidInput(err)
		}
		b.PublicationYear = req.PublicationYear
	}
	if req.Description != nil {
		b.Description = trimOptional(req.Description)
	}
	if req.Category != nil {
		b.Category = trimOptional(req.Category)
	}
	if req.TotalCopies != nil {
		if err := validateTotal(*req.TotalCopies); err != nil {
			return invalidInput(err)
		}
		// Copies on loan stay on loan when the stock size changes.
		b.AvailableCopies += *req.TotalCopies - b.TotalCopies
		b.TotalCopies = *req.TotalCopies
	}
	if req.AvailableCopies != nil {
		b.AvailableCopies = *req.AvailableCopies
	}
	if err := validateCopies(b.TotalCopies, b.AvailableCopies); err != nil {
		return invalidInput(err)
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return apperrors.Wrap("book_not_found", "Book not found", err)
		case errors.Is(err, ErrInUse):
			return apperrors.Wrap("book_in_use", "book has rental history", err)
		}
		return apperrors.Wrap("book_error", "failed to delete book", err)
	}
	s.logger.Info("book deleted", "book_id", id)
	return nil
}

func invalidInput(err error) error {
	return apperrors.Wrap("invalid_input", err.Error(), nil)
}
