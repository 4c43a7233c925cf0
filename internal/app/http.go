package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"member-gateway/internal/config"
	"member-gateway/internal/discord"
	"member-gateway/internal/handler"
	"member-gateway/internal/logger"
	"member-gateway/internal/middleware"
	"member-gateway/internal/ratelimit"
	"member-gateway/internal/session"
)

// setupHTTP assembles the dispatch pipeline. Middleware order is the
// response precedence: correlation id on everything, preflight answered
// before rate limiting, rate limiting before any route (login and the
// liveness probe included).
func setupHTTP(
	cfg config.Config,
	store *session.Store,
	limiter *ratelimit.Limiter,
	factory discord.Factory,
) *gin.Engine {

	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.Error("panic recovered", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      fmt.Sprint(err),
		})
		// Fixed message; internal error text never reaches the client.
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal Server Error",
		})
	}))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RateLimit(limiter))

	h := handler.NewHandler(factory, store, cfg.DiscordTimeout)
	h.RegisterRoutes(router, middleware.NewAuthMiddleware(store))

	return router
}
