package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/book-rental/internal/domain/auth"
)

// Login exchanges JSON credentials for tokens.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	h.login(c, req)
}

// LoginForm accepts credentials as query parameters, form fields or JSON.
func (h *Handler) LoginForm(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if req.Email == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}
	h.login(c, req)
}

func (h *Handler) login(c *gin.Context, req auth.LoginRequest) {
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh mints a new access token from a refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		abortWithError(c, unauthorized(nil))
		return
	}
	c.JSON(http.StatusOK, identity)
}
