package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/amitbasuri/smartbin/internal/metrics"
	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/internal/pipeline"
	"github.com/gin-gonic/gin"
)

// Toggle handles POST /toggle
// Flips the lid; when it opens, the new item is captured and analyzed
func (h *Handler) Toggle(c *gin.Context) {
	state, err := h.store.ToggleLid(c.Request.Context())
	if err != nil {
		slog.Error("Failed to toggle lid", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to toggle lid",
		})
		return
	}

	metrics.RecordToggle(state.String())
	slog.Info("Lid toggled", "state", state, "request_id", c.GetString(requestIDKey))

	resp := models.ToggleResponse{State: state}
	if state == models.LidOpen {
		// The lid is already open: finish processing even if the client goes away
		item, err := h.processor.ProcessNewItem(context.WithoutCancel(c.Request.Context()))
		switch {
		case err == nil:
			resp.Item = item
			h.stats.Invalidate()
		case errors.Is(err, pipeline.ErrCaptureFailed), errors.Is(err, pipeline.ErrNoObjects):
			slog.Warn("No item recorded", "reason", err)
		default:
			slog.Error("Failed to process item", "error", err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetState handles GET /state
func (h *Handler) GetState(c *gin.Context) {
	state, err := h.store.GetLidState(c.Request.Context())
	if err != nil {
		slog.Error("Failed to get lid state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve lid state",
		})
		return
	}

	c.JSON(http.StatusOK, models.StateResponse{State: state})
}
