package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/book-rental/internal/domain/auth"
	"github.com/yanqian/book-rental/internal/domain/auth/password"
	"github.com/yanqian/book-rental/internal/domain/book"
	"github.com/yanqian/book-rental/internal/domain/rental"
	"github.com/yanqian/book-rental/internal/domain/user"
	"github.com/yanqian/book-rental/internal/infra/config"
	"github.com/yanqian/book-rental/internal/infra/libraryrepo"
	"github.com/yanqian/book-rental/internal/infra/migrations"
	"github.com/yanqian/book-rental/internal/infra/ratelimit"
	"github.com/yanqian/book-rental/internal/infra/userrepo"
	httpiface "github.com/yanqian/book-rental/internal/interface/http"
	"github.com/yanqian/book-rental/pkg/logger"
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Log.Level, cfg.Log.Format)
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:              cfg.Auth.Secret,
		AccessTokenTTL:      cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL:     cfg.Auth.RefreshTokenTTL,
		AllowExpiredRefresh: cfg.Auth.AllowExpiredRefresh,
	}
}

func provideRentalConfig(cfg *config.Config) rental.Config {
	return rental.Config{LateFeeMultiplier: cfg.Rental.LateFeeMultiplier}
}

func providePasswordHasher(cfg *config.Config) (*password.Hasher, error) {
	return password.NewHasher(cfg.Auth.BcryptCost)
}

// repositories groups the storage adapters selected at startup.
type repositories struct {
	users      user.Repository
	books      book.Repository
	rentals    rental.Repository
	rentalRefs user.RentalChecker
}

func provideRepositories(cfg *config.Config, logger *slog.Logger) (repositories, func(), error) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		store := libraryrepo.NewMemoryStore()
		return repositories{
			users:      userrepo.NewMemoryRepository(),
			books:      store.Books(),
			rentals:    store.Rentals(),
			rentalRefs: store.Rentals(),
		}, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if cfg.Postgres.Migrate {
		if err := migrations.Up(ctx, dsn); err != nil {
			return repositories{}, nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("postgres migrations applied")
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("initialize postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return repositories{}, nil, fmt.Errorf("postgres ping: %w", err)
	}
	logger.Info("postgres repositories enabled")
	rentals := libraryrepo.NewPostgresRentalRepository(pool)
	return repositories{
		users:      userrepo.NewPostgresRepository(pool),
		books:      libraryrepo.NewPostgresBookRepository(pool),
		rentals:    rentals,
		rentalRefs: rentals,
	}, pool.Close, nil
}

func provideUserRepository(r repositories) user.Repository { return r.users }

func provideBookRepository(r repositories) book.Repository { return r.books }

func provideRentalRepository(r repositories) rental.Repository { return r.rentals }

func provideRentalChecker(r repositories) user.RentalChecker { return r.rentalRefs }

func provideUserLookup(repo user.Repository) auth.UserLookup { return repo }

func provideUserChecker(repo user.Repository) rental.UserChecker { return repo }

func provideRateLimiter(cfg *config.Config, logger *slog.Logger) (httpiface.RateLimiter, func()) {
	if !cfg.HTTP.RateLimit.Enabled {
		return nil, func() {}
	}
	fallback := httpiface.NewMemoryRateLimiter(cfg.HTTP.RateLimit)
	if !cfg.Valkey.Enabled {
		return fallback, func() {}
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory rate limiter", "error", err)
		return fallback, func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory rate limiter", "error", err)
		return fallback, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory rate limiter", "error", err)
		client.Close()
		return fallback, func() {}
	}
	logger.Info("valkey rate limiter enabled", "addr", cfg.Valkey.Addr)
	limiter := ratelimit.NewValkeyLimiter(client, cfg.Valkey.Prefix, cfg.HTTP.RateLimit.RequestsPerMinute, time.Minute)
	return limiter, client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
