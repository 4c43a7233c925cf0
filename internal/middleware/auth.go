package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"member-gateway/internal/session"
)

const sessionKey = "session"

// SessionFromContext returns the authenticated session attached by
// RequireSession.
func SessionFromContext(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

type AuthMiddleware struct {
	Store *session.Store
}

func NewAuthMiddleware(store *session.Store) *AuthMiddleware {
	return &AuthMiddleware{Store: store}
}

// RequireSession authenticates the raw Authorization header value as a
// session id. Activity is refreshed before the handler runs, so a call
// that later fails upstream still counts as activity.
func (a *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("Authorization")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		sess, ok := a.Store.Get(id)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		a.Store.Touch(id, time.Now())
		c.Set(sessionKey, sess)

		c.Next()
	}
}
