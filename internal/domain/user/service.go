package user

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/yanqian/book-rental/pkg/errors"
	"github.com/yanqian/book-rental/pkg/pagination"
)

// Service exposes the user directory.
type Service interface {
	Register(ctx context.Context, req CreateRequest) (View, error)
	List(ctx context.Context, page pagination.Page) ([]View, error)
	Get(ctx context.Context, id int64) (View, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (View, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo    Repository
	rentals RentalChecker
	hasher  PasswordHasher
	logger  *slog.Logger
}

// NewService constructs a Service instance.
func NewService(repo Repository, rentals RentalChecker, hasher PasswordHasher, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		rentals: rentals,
		hasher:  hasher,
		logger:  logger.With("component", "user.service"),
	}
}

func (s *service) Register(ctx context.Context, req CreateRequest) (View, error) {
	name, err := normalizeName(req.Name)
	if err != nil {
		return View{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	email, err := NormalizeEmail(req.Email)
	if err != nil {
		return View{}, apperrors.Wrap("invalid_input", "invalid email address", err)
	}
	if err := validatePassword(req.Password); err != nil {
		return View{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	if err := validateAge(req.Age); err != nil {
		return View{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	_, exists, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return View{}, apperrors.Wrap("user_error", "failed to check user", err)
	}
	if exists {
		return View{}, apperrors.Wrap("email_exists", "Email already registered", nil)
	}
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return View{}, apperrors.Wrap("user_error", "failed to hash password", err)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	created, err := s.repo.Create(ctx, User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Age:          req.Age,
		IsActive:     active,
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return View{}, apperrors.Wrap("email_exists", "Email already registered", err)
		}
		return View{}, apperrors.Wrap("user_error", "failed to create user", err)
	}
	s.logger.Info("user registered", "user_id", created.ID)
	return created.ToView(), nil
}

func (s *service) List(ctx context.Context, page pagination.Page) ([]View, error) {
	users, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, apperrors.Wrap("user_error", "failed to list users", err)
	}
	views := make([]View, 0, len(users))
	for _, u := range users {
		views = append(views, u.ToView())
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, id int64) (View, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return u.ToView(), nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (View, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if req.Name != nil {
		name, err := normalizeName(*req.Name)
		if err != nil {
			return View{}, apperrors.Wrap("invalid_input", err.Error(), nil)
		}
		u.Name = name
	}
	if req.Email != nil {
		email, err := NormalizeEmail(*req.Email)
		if err != nil {
			return View{}, apperrors.Wrap("invalid_input", "invalid email address", err)
		}
		if email != u.Email {
			other, exists, err := s.repo.GetByEmail(ctx, email)
			if err != nil {
				return View{}, apperrors.Wrap("user_error", "failed to check user", err)
			}
			if exists && other.ID != id {
				return View{}, apperrors.Wrap("email_exists", "Email already registered", nil)
			}
		}
		u.Email = email
	}
	if req.Age != nil {
		if err := validateAge(req.Age); err != nil {
			return View{}, apperrors.Wrap("invalid_input", err.Error(), nil)
		}
		u.Age = req.Age
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			return View{}, apperrors.Wrap("email_exists", "Email already registered", err)
		case errors.Is(err, ErrNotFound):
			return View{}, apperrors.Wrap("user_not_found", "User not found", err)
		}
		return View{}, apperrors.Wrap("user_error", "failed to update user", err)
	}
	return updated.ToView(), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	referenced, err := s.rentals.HasRentals(ctx, id)
	if err != nil {
		return apperrors.Wrap("user_error", "failed to check rentals", err)
	}
	if referenced {
		return apperrors.Wrap("user_in_use", "user has rental history", ErrInUse)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return apperrors.Wrap("user_not_found", "User not found", err)
		case errors.Is(err, ErrInUse):
			return apperrors.Wrap("user_in_use", "user has rental history", err)
		}
		return apperrors.Wrap("user_error", "failed to delete user", err)
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *service) load(ctx context.Context, id int64) (User, error) {
	u, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, apperrors.Wrap("user_error", "failed to load user", err)
	}
	if !found {
		return User{}, apperrors.Wrap("user_not_found", "User not found", nil)
	}
	return u, nil
}
