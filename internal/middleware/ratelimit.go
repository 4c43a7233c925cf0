package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"member-gateway/internal/ratelimit"
)

// RateLimit charges every request, the liveness probe included, against
// the caller's sliding-window quota. The bucket key is the first
// X-Forwarded-For hop; direct callers without the header share the
// "unknown" bucket.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(clientID(c), time.Now()) {
			retryAfter := limiter.RetryAfterSeconds()
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests",
				"retryAfter": retryAfter,
			})
			return
		}
		c.Next()
	}
}

func clientID(c *gin.Context) string {
	forwarded := c.GetHeader("X-Forwarded-For")
	if forwarded == "" {
		return "unknown"
	}
	first, _, _ := strings.Cut(forwarded, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "unknown"
	}
	return first
}
