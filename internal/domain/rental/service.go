package rental

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/book-rental/pkg/errors"
	"github.com/yanqian/book-rental/pkg/pagination"
	"github.com/yanqian/book-rental/pkg/util"
)

// Service manages book checkouts and returns.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Rental, error)
	List(ctx context.Context, page pagination.Page) ([]Rental, error)
	Get(ctx context.Context, id int64) (Rental, error)
	ListByUser(ctx context.Context, userID int64, page pagination.Page) ([]Rental, error)
	ListOverdue(ctx context.Context) ([]Rental, error)
	Return(ctx context.Context, id int64) (Rental, error)
}

type service struct {
	cfg    Config
	repo   Repository
	users  UserChecker
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, users UserChecker, logger *slog.Logger) Service {
	return newService(cfg, repo, users, logger, util.NowUTC)
}

func newService(cfg Config, repo Repository, users UserChecker, logger *slog.Logger, now func() time.Time) *service {
	if cfg.LateFeeMultiplier <= 0 {
		cfg.LateFeeMultiplier = DefaultLateFeeMultiplier
	}
	return &service{
		cfg:    cfg,
		repo:   repo,
		users:  users,
		logger: logger.With("component", "rental.service"),
		now:    now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Rental, error) {
	if req.UserID <= 0 || req.BookID <= 0 {
		return Rental{}, apperrors.Wrap("invalid_input", "user_id and book_id are required", nil)
	}
	if req.DailyRate == nil {
		return Rental{}, apperrors.Wrap("invalid_input", "daily_rate is required", nil)
	}
	if *req.DailyRate < 0 {
		return Rental{}, apperrors.Wrap("invalid_input", "daily_rate cannot be negative", nil)
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return Rental{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	now := s.now()
	if !due.After(now) {
		return Rental{}, apperrors.Wrap("invalid_input", "due_date must be in the future", nil)
	}
	if err := s.ensureUser(ctx, req.UserID); err != nil {
		return Rental{}, err
	}

	created, err := s.repo.Create(ctx, Rental{
		UserID:     req.UserID,
		BookID:     req.BookID,
		RentalDate: now,
		DueDate:    due,
		DailyRate:  *req.DailyRate,
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			return Rental{}, apperrors.Wrap("book_not_found", "Book not found", err)
		case errors.Is(err, ErrBookUnavailable):
			return Rental{}, apperrors.Wrap("book_unavailable", "Book is not available for rental", err)
		}
		return Rental{}, apperrors.Wrap("rental_error", "failed to create rental", err)
	}
	s.logger.Info("rental created", "rental_id", created.ID, "user_id", created.UserID, "book_id", created.BookID)
	return created, nil
}

func (s *service) List(ctx context.Context, page pagination.Page) ([]Rental, error) {
	rentals, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, apperrors.Wrap("rental_error", "failed to list rentals", err)
	}
	return s.presentAll(rentals), nil
}

func (s *service) Get(ctx context.Context, id int64) (Rental, error) {
	r, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Rental{}, apperrors.Wrap("rental_error", "failed to load rental", err)
	}
	if !found {
		return Rental{}, apperrors.Wrap("rental_not_found", "Rental not found", nil)
	}
	return present(r, s.now()), nil
}

func (s *service) ListByUser(ctx context.Context, userID int64, page pagination.Page) ([]Rental, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	rentals, err := s.repo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, apperrors.Wrap("rental_error", "failed to list rentals", err)
	}
	return s.presentAll(rentals), nil
}

func (s *service) ListOverdue(ctx context.Context) ([]Rental, error) {
	rentals, err := s.repo.ListOverdue(ctx, s.now())
	if err != nil {
		return nil, apperrors.Wrap("rental_error", "failed to list overdue rentals", err)
	}
	return s.presentAll(rentals), nil
}

func (s *service) Return(ctx context.Context, id int64) (Rental, error) {
	r, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Rental{}, apperrors.Wrap("rental_error", "failed to load rental", err)
	}
	if !found {
		return Rental{}, apperrors.Wrap("rental_not_found", "Rental not found", nil)
	}
	if r.IsReturned {
		return Rental{}, apperrors.Wrap("already_returned", "Book already returned", ErrAlreadyReturned)
	}

	returned, err := s.repo.MarkReturned(ctx, settle(r, s.now(), s.cfg.LateFeeMultiplier))
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyReturned):
			return Rental{}, apperrors.Wrap("already_returned", "Book already returned", err)
		case errors.Is(err, ErrNotFound):
			return Rental{}, apperrors.Wrap("rental_not_found", "Rental not found", err)
		}
		return Rental{}, apperrors.Wrap("rental_error", "failed to return rental", err)
	}
	s.logger.Info("rental returned", "rental_id", returned.ID, "late_fee", returned.LateFee)
	return returned, nil
}

func (s *service) ensureUser(ctx context.Context, id int64) error {
	_, found, err := s.users.GetByID(ctx, id)
	if err != nil {
		return apperrors.Wrap("rental_error", "failed to load user", err)
	}
	if !found {
		return apperrors.Wrap("user_not_found", "User not found", nil)
	}
	return nil
}

func (s *service) presentAll(rentals []Rental) []Rental {
	now := s.now()
	for i := range rentals {
		rentals[i] = present(rentals[i], now)
	}
	return rentals
}
