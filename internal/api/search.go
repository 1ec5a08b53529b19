package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/gin-gonic/gin"
)

// Search handles GET /search?q=keyword
// Matches detected objects and free-text analyses, newest first
func (h *Handler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter q is required",
		})
		return
	}

	items, err := h.store.SearchItems(c.Request.Context(), keyword, h.searchLimit)
	if err != nil {
		slog.Error("Failed to search items", "keyword", keyword, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to search items",
		})
		return
	}

	c.JSON(http.StatusOK, models.SearchResponse{Items: items})
}
