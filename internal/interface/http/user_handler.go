package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/book-rental/internal/domain/user"
)

// RegisterUser creates an account.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req user.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListUsers returns one page of accounts.
func (h *Handler) ListUsers(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	users, err := h.userSvc.List(c.Request.Context(), page)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns one account.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateUser applies a partial update.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req user.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.userSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser removes an account.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUserRentals returns one page of an account's rentals.
func (h *Handler) ListUserRentals(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := queryPage(c)
	if !ok {
		return
	}
	rentals, err := h.rentalSvc.ListByUser(c.Request.Context(), id, page)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, rentals)
}
