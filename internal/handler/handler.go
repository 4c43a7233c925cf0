package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"member-gateway/internal/discord"
	"member-gateway/internal/logger"
	"member-gateway/internal/middleware"
	"member-gateway/internal/session"
)

const capacityMessage = "Maximum number of concurrent users reached"

type Handler struct {
	factory        discord.Factory
	store          *session.Store
	discordTimeout time.Duration
}

func NewHandler(
	factory discord.Factory,
	store *session.Store,
	discordTimeout time.Duration,
) *Handler {
	return &Handler{
		factory:        factory,
		store:          store,
		discordTimeout: discordTimeout,
	}
}

// RegisterRoutes wires the HTTP surface. auth guards everything under
// /api except login.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth *middleware.AuthMiddleware) {
	r.GET("/_ah/health", h.Health)
	r.POST("/api/auth/login", h.Login)

	api := r.Group("/api")
	api.Use(auth.RequireSession())

	api.POST("/auth/logout", h.Logout)
	api.GET("/members", h.Members)
	api.GET("/channels", h.Channels)
	api.GET("/messages", h.Messages)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

type loginRequest struct {
	Token string `json:"token"`
}

func (h *Handler) Login(c *gin.Context) {
	requestID := middleware.RequestIDFromContext(c)

	// Cheap capacity pre-check before the expensive Discord connect.
	if h.store.Full() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": capacityMessage})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	svc := h.factory.New()

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.discordTimeout)
	defer cancel()

	info, err := svc.Initialize(ctx, req.Token)
	if err != nil {
		logger.Error("login failed", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The connect ran with no store lock held; Create re-validates the
	// cap, so a login that lost the race frees its connection here.
	sess, err := h.store.Create(svc, req.Token, time.Now())
	if err != nil {
		svc.Close()
		if errors.Is(err, session.ErrCapacityReached) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": capacityMessage})
			return
		}
		logger.Error("session create failed", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	logger.Info("session created", map[string]any{
		"request_id": requestID,
		"session_id": sess.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"sessionId":   sess.ID,
		"message":     "Logged in successfully",
		"serverName":  info.ServerName,
		"memberCount": info.MemberCount,
		"iconURL":     info.IconURL,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	// Only the remover closes the gateway; a racing sweep that got there
	// first leaves nothing to do.
	if removed, ok := h.store.Remove(sess.ID); ok {
		release := removed.Acquire()
		if err := removed.Gateway.Close(); err != nil {
			logger.Warn("gateway close failed", map[string]any{
				"session_id": removed.ID,
				"error":      err.Error(),
			})
		}
		release()

		logger.Info("session closed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"session_id": removed.ID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
