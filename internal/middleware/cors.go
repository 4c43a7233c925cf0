package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS attaches the static allow-list headers and short-circuits
// preflight requests with 204 before rate limiting runs.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowOrigin := "*"
	if len(allowedOrigins) > 0 && allowedOrigins[0] != "*" {
		allowOrigin = strings.Join(allowedOrigins, ", ")
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
