package http

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/book-rental/internal/domain/auth"
	apperrors "github.com/yanqian/book-rental/pkg/errors"
)

// IdentityResolver turns a bearer credential into the calling account.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (auth.Identity, error)
}

func authMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, unauthorized(nil))
			return
		}
		identity, err := resolver.Resolve(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if apperrors.IsCode(err, auth.CodeUnauthenticated) {
				abortWithError(c, unauthorized(err))
				return
			}
			abortWithError(c, fromDomainError(err))
			return
		}
		setIdentity(c, identity)
		c.Next()
	}
}
