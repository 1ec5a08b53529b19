package api

import (
	"log/slog"
	"net/http"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/gin-gonic/gin"
)

// GetStatsData handles GET /stats-data/:period
// Returns aggregated disposal statistics for the period
func (h *Handler) GetStatsData(c *gin.Context) {
	period, err := models.ParsePeriod(c.Param("period"))
	if err != nil {
		slog.Warn("Invalid period", "period", c.Param("period"))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid period",
			"details": err.Error(),
		})
		return
	}

	stats, err := h.stats.Get(c.Request.Context(), period)
	if err != nil {
		slog.Error("Failed to get stats", "period", period, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve statistics",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
