package api

import (
	"context"
	"fmt"
	"time"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Store is the storage surface used by the HTTP handlers
type Store interface {
	ToggleLid(ctx context.Context) (models.LidState, error)
	GetLidState(ctx context.Context) (models.LidState, error)
	SearchItems(ctx context.Context, keyword string, limit int) ([]models.Item, error)
}

// ItemProcessor runs the capture pipeline when the lid opens
type ItemProcessor interface {
	ProcessNewItem(ctx context.Context) (*models.Item, error)
}

// StatsProvider serves (possibly cached) statistics per period
type StatsProvider interface {
	Get(ctx context.Context, period models.Period) (*models.StatsResponse, error)
	Invalidate()
}

// Config holds HTTP layer configuration
type Config struct {
	StreamInterval      time.Duration
	ToggleRatePerSecond float64
	ToggleBurst         int
	SearchLimit         int
}

// Handler handles HTTP requests for the smart bin API
type Handler struct {
	store          Store
	processor      ItemProcessor
	stats          StatsProvider
	streamInterval time.Duration
	toggleLimiter  *rate.Limiter
	searchLimit    int
}

// NewHandler creates a new API handler
func NewHandler(store Store, processor ItemProcessor, stats StatsProvider, config Config) *Handler {
	if config.StreamInterval == 0 {
		config.StreamInterval = 2 * time.Second
	}
	if config.ToggleRatePerSecond <= 0 {
		config.ToggleRatePerSecond = 2
	}
	if config.ToggleBurst <= 0 {
		config.ToggleBurst = 4
	}
	if config.SearchLimit <= 0 {
		config.SearchLimit = 50
	}

	return &Handler{
		store:          store,
		processor:      processor,
		stats:          stats,
		streamInterval: config.StreamInterval,
		toggleLimiter:  rate.NewLimiter(rate.Limit(config.ToggleRatePerSecond), config.ToggleBurst),
		searchLimit:    config.SearchLimit,
	}
}

// RegisterRoutes registers all routes on the given router
func (h *Handler) RegisterRoutes(r *gin.Engine) error {
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(RequestID(), Metrics())

	// Health check endpoint
	r.GET("/health", h.Health)

	// Pages
	r.GET("/", h.ServeIndex)
	r.GET("/stats", h.ServeStatsPage)
	r.StaticFS("/static", web.Static())

	// Bin endpoints
	r.POST("/toggle", RateLimit(h.toggleLimiter), h.Toggle)
	r.GET("/state", h.GetState)
	r.GET("/stats-data/:period", h.GetStatsData)
	r.GET("/stats-stream/:period", h.StreamStats)
	r.GET("/search", h.Search)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return nil
}

// Health checks if the service is healthy
func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy"})
}
