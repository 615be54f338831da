package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetTrending returns the current trending set straight from the provider,
// without enrichment. Handy for checking what the next cycle would cover.
func (h *Handler) GetTrending(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-trending")
	defer span.End()

	coins, err := h.trending.FetchTrending(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coins": coins})
}

// GetThreads lists recently published threads from the publish history.
func (h *Handler) GetThreads(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-threads")
	defer span.End()

	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "publish history disabled"})
		return
	}

	limit := 20
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	threads, err := h.history.RecentThreads(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"threads": threads})
}
