package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/book-rental/internal/domain/auth"
)

const (
	identityKey  = "auth_identity"
	requestIDKey = "request_id"
)

func setIdentity(c *gin.Context, identity auth.Identity) {
	c.Set(identityKey, identity)
}

func getIdentity(c *gin.Context) (auth.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
