package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"member-gateway/internal/logger"
	"member-gateway/internal/middleware"
)

const defaultMessageLimit = 100

func (h *Handler) Members(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	defer sess.Acquire()()

	members, err := sess.Gateway.Members(c.Request.Context())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *Handler) Channels(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	defer sess.Acquire()()

	channels, err := sess.Gateway.Channels(c.Request.Context())
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

func (h *Handler) Messages(c *gin.Context) {
	channelID := c.Query("channelId")
	if channelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Channel ID is required"})
		return
	}

	limit := defaultMessageLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 || limit > defaultMessageLimit {
		limit = defaultMessageLimit
	}

	sess := middleware.SessionFromContext(c)
	defer sess.Acquire()()

	messages, err := sess.Gateway.Messages(c.Request.Context(), channelID, limit)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// upstreamError surfaces a collaborator failure verbatim. Nothing is
// retried here; retry is the caller's call.
func upstreamError(c *gin.Context, err error) {
	logger.Error("operation failed", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"path":       c.Request.URL.Path,
		"error":      err.Error(),
	})
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
