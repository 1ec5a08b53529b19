package postgres

import (
	"context"

	"github.com/amitbasuri/smartbin/internal/models"
)

// CreateItem stores a processed item
// Items without an analysis are stored as pending so the worker retries them
func (s *Store) CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.Item, error) {
	status := models.AnalysisComplete
	if req.Analysis == nil {
		status = models.AnalysisPending
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	timeoutSeconds := req.TimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 60
	}

	objects := req.DetectedObjects
	if objects == nil {
		objects = []string{}
	}

	var analysis []byte
	if req.Analysis != nil {
		analysis = []byte(req.Analysis)
	}

	var category *string
	if req.Category != nil {
		c := req.Category.String()
		category = &c
	}

	query := `
		INSERT INTO items (
			image_path, detected_objects, analysis, category, analysis_status,
			retry_count, max_retries, timeout_seconds, last_error,
			next_run_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, NOW(), NOW(), NOW())
		RETURNING ` + itemColumns

	return scanItem(s.pool.QueryRow(ctx, query,
		req.ImagePath,
		objects,
		analysis,
		category,
		status,
		maxRetries,
		timeoutSeconds,
		req.AnalysisError,
	))
}
