//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/book-rental/internal/bootstrap"
	"github.com/yanqian/book-rental/internal/domain/auth"
	"github.com/yanqian/book-rental/internal/domain/auth/password"
	"github.com/yanqian/book-rental/internal/domain/book"
	"github.com/yanqian/book-rental/internal/domain/rental"
	"github.com/yanqian/book-rental/internal/domain/user"
	"github.com/yanqian/book-rental/internal/infra/config"
	httpiface "github.com/yanqian/book-rental/internal/interface/http"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideAuthConfig,
		provideRentalConfig,
		providePasswordHasher,
		provideRepositories,
		provideUserRepository,
		provideBookRepository,
		provideRentalRepository,
		provideRentalChecker,
		provideUserLookup,
		provideUserChecker,
		provideRateLimiter,
		auth.NewTokenCodec,
		auth.NewResolver,
		auth.NewService,
		user.NewService,
		book.NewService,
		rental.NewService,
		wire.Bind(new(auth.TokenVerifier), new(*auth.TokenCodec)),
		wire.Bind(new(auth.PasswordVerifier), new(*password.Hasher)),
		wire.Bind(new(user.PasswordHasher), new(*password.Hasher)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
