package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/gin-gonic/gin"
)

// StreamStats streams stats for a period using Server-Sent Events (SSE)
func (h *Handler) StreamStats(c *gin.Context) {
	period, err := models.ParsePeriod(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid period",
			"details": err.Error(),
		})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	for {
		h.sendStats(c, flusher, period)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sendStats writes one "stats" event; lookup failures are logged and skipped
func (h *Handler) sendStats(c *gin.Context, flusher http.Flusher, period models.Period) {
	stats, err := h.stats.Get(c.Request.Context(), period)
	if err != nil {
		slog.Error("Failed to get stats for SSE", "period", period, "error", err)
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		slog.Error("Failed to marshal stats", "error", err)
		return
	}

	// SSE format: "event: stats\ndata: <json>\n\n"
	fmt.Fprintf(c.Writer, "event: stats\ndata: %s\n\n", data)
	flusher.Flush()
}

// ServeIndex serves the lid control page
func (h *Handler) ServeIndex(c *gin.Context) {
	state, err := h.store.GetLidState(c.Request.Context())
	if err != nil {
		slog.Warn("Rendering index without lid state", "error", err)
		state = models.LidClosed
	}

	label := "Open"
	if state == models.LidOpen {
		label = "Close"
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"State":       state.String(),
		"ButtonLabel": label,
	})
}

// ServeStatsPage serves the statistics dashboard
func (h *Handler) ServeStatsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "stats.html", gin.H{
		"Periods": []models.Period{
			models.PeriodToday,
			models.PeriodWeek,
			models.PeriodMonth,
			models.PeriodYear,
			models.PeriodAll,
		},
	})
}
