package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/book-rental/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
// A nil limiter disables rate limiting.
func NewRouter(cfg *config.Config, handler *Handler, limiter RateLimiter) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(limiter, handler.logger),
	)

	requireAuth := authMiddleware(handler.authSvc)

	router.GET("/", handler.Health)
	router.POST("/login", handler.Login)
	router.POST("/refresh", handler.Refresh)
	router.GET("/me", requireAuth, handler.Me)

	users := router.Group("/users")
	{
		users.POST("/", handler.RegisterUser)
		users.POST("/login", handler.LoginForm)
		users.GET("/", requireAuth, handler.ListUsers)
		users.GET("/:id", requireAuth, handler.GetUser)
		users.PUT("/:id", requireAuth, handler.UpdateUser)
		users.DELETE("/:id", requireAuth, handler.DeleteUser)
		users.GET("/:id/rentals", requireAuth, handler.ListUserRentals)
	}

	books := router.Group("/books", requireAuth)
	{
		books.POST("/", handler.CreateBook)
		books.GET("/", handler.ListBooks)
		books.GET("/:id", handler.GetBook)
		books.PUT("/:id", handler.UpdateBook)
		books.DELETE("/:id", handler.DeleteBook)
	}

	rentals := router.Group("/rentals", requireAuth)
	{
		rentals.POST("/", handler.CreateRental)
		rentals.GET("/", handler.ListRentals)
		rentals.GET("/overdue", handler.ListOverdueRentals)
		rentals.GET("/:id", handler.GetRental)
		rentals.PUT("/:id/return", handler.ReturnRental)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
