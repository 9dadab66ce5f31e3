package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/book-rental/internal/domain/auth"
	"github.com/yanqian/book-rental/internal/domain/book"
	"github.com/yanqian/book-rental/internal/domain/rental"
	"github.com/yanqian/book-rental/internal/domain/user"
	"github.com/yanqian/book-rental/pkg/pagination"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc   auth.Service
	userSvc   user.Service
	bookSvc   book.Service
	rentalSvc rental.Service
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(authSvc auth.Service, userSvc user.Service, bookSvc book.Service, rentalSvc rental.Service, logger *slog.Logger) *Handler {
	return &Handler{
		authSvc:   authSvc,
		userSvc:   userSvc,
		bookSvc:   bookSvc,
		rentalSvc: rentalSvc,
		logger:    logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Book Rental API is running"})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", name+" must be a positive integer", err))
		return 0, false
	}
	return id, true
}

func queryPage(c *gin.Context) (pagination.Page, bool) {
	skip, err := queryInt(c, "skip")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "skip must be an integer", err))
		return pagination.Page{}, false
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be an integer", err))
		return pagination.Page{}, false
	}
	if _, set := c.GetQuery("limit"); set && limit == 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be positive", nil))
		return pagination.Page{}, false
	}
	page, err := pagination.New(skip, limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return pagination.Page{}, false
	}
	return page, true
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
