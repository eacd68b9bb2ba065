package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moodz/moodzapi/internal/feed"
	"github.com/moodz/moodzapi/pkg/telemetry"
)

func (r *Router) getFeed(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "feed.get")
	defer span.End()

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := r.service.GetFeed(ctx, c.Param("id"), limit)
	if err != nil {
		if errors.Is(err, feed.ErrUnknownViewer) {
			abortWithError(c, http.StatusNotFound, "user not found")
			return
		}
		// Materialization failures are retryable; no stale feed is
		// fabricated in their place.
		r.logger.Error("feed read failed",
			zap.String("viewer", c.Param("id")),
			zap.Error(err))
		abortWithError(c, http.StatusServiceUnavailable, "feed temporarily unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"feed": entries})
}
