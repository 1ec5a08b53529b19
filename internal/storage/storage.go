package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/amitbasuri/smartbin/internal/models"
)

// Common errors
var (
	ErrItemNotFound        = errors.New("item not found")
	ErrStateNotInitialized = errors.New("bin state not initialized")
)

// StatsQuery selects the window and list sizes for an aggregate stats read
type StatsQuery struct {
	Since       *time.Time // nil means all time
	CommonLimit int
	RecentLimit int
}

// Store defines the interface for bin storage operations
// This allows for different implementations (PostgreSQL, in-memory, etc.)
type Store interface {
	// ToggleLid atomically flips the lid and returns the new state
	ToggleLid(ctx context.Context) (models.LidState, error)

	// GetLidState returns the current lid state
	GetLidState(ctx context.Context) (models.LidState, error)

	// CreateItem stores a newly processed item and returns it
	CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.Item, error)

	// GetItem retrieves an item by its ID
	GetItem(ctx context.Context, id int64) (*models.Item, error)

	// SearchItems returns items whose detected objects or free-text analysis contain keyword
	SearchItems(ctx context.Context, keyword string, limit int) ([]models.Item, error)

	// GetStats aggregates disposal statistics for the query window
	GetStats(ctx context.Context, q StatsQuery) (*models.StatsResponse, error)

	// ClaimNextPendingItem atomically claims the next item whose analysis is due
	// Returns nil if no items are due
	ClaimNextPendingItem(ctx context.Context) (*models.Item, error)

	// CompleteAnalysis stores a successful analysis and its category
	CompleteAnalysis(ctx context.Context, id int64, analysis json.RawMessage, category models.Category) error

	// ScheduleRetry schedules another analysis attempt with exponential backoff
	ScheduleRetry(ctx context.Context, id int64, errorMessage string) error

	// MarkAnalysisFailed permanently marks an item's analysis as failed
	MarkAnalysisFailed(ctx context.Context, id int64, errorMessage string) error
}
