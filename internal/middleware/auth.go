package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-chat/backend/internal/auth"
)

const UserIDKey = "user_id"

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

// OptionalAuth sets user_id from a valid bearer token. Requests without a
// token, or with an invalid one, continue anonymously.
func OptionalAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok || authn == nil {
			c.Next()
			return
		}
		if id, err := authn.Authenticate(c.Request.Context(), token); err == nil {
			c.Set(UserIDKey, id.UID)
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id, if any.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(UserIDKey)
	return id, id != ""
}
