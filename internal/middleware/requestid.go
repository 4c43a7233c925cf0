package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"member-gateway/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// RequestIDFromContext returns the correlation id attached to the request.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestID echoes the caller-supplied correlation id, or generates one,
// and attaches it to every response including error branches. Computed
// once per request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		logger.Info("request", map[string]any{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})

		c.Next()
	}
}
