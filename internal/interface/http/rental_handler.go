package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/book-rental/internal/domain/rental"
)

// CreateRental checks a book out.
func (h *Handler) CreateRental(c *gin.Context) {
	var req rental.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.rentalSvc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListRentals returns one page of rentals.
func (h *Handler) ListRentals(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	rentals, err := h.rentalSvc.List(c.Request.Context(), page)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, rentals)
}

// GetRental returns one rental.
func (h *Handler) GetRental(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.rentalSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, r)
}

// ListOverdueRentals returns open rentals past their due date.
func (h *Handler) ListOverdueRentals(c *gin.Context) {
	rentals, err := h.rentalSvc.ListOverdue(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, rentals)
}

// ReturnRental settles a rental and restocks its book.
func (h *Handler) ReturnRental(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.rentalSvc.Return(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, r)
}
