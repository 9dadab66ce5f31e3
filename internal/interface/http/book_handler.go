package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/book-rental/internal/domain/book"
)

// CreateBook adds a catalog entry.
func (h *Handler) CreateBook(c *gin.Context) {
	var req book.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.bookSvc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListBooks returns one page of the catalog.
func (h *Handler) ListBooks(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	books, err := h.bookSvc.List(c.Request.Context(), page)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook returns one catalog entry.
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.bookSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBook applies a partial update.
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req book.UpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.bookSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBook removes a catalog entry.
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.bookSvc.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
