package postgres

import (
	"encoding/json"
	"time"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/jackc/pgx/v5"
)

// scanItem scans a row selected with itemColumns
func scanItem(row pgx.Row) (*models.Item, error) {
	var (
		item      models.Item
		analysis  []byte
		category  *string
		status    string
		createdAt time.Time
	)

	err := row.Scan(
		&item.ID,
		&item.ImagePath,
		&item.DetectedObjects,
		&analysis,
		&category,
		&status,
		&item.RetryCount,
		&item.MaxRetries,
		&item.BackoffSeconds,
		&item.TimeoutSeconds,
		&item.LastError,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if len(analysis) > 0 {
		item.Analysis = json.RawMessage(analysis)
	}
	if category != nil {
		c := models.Category(*category)
		item.Category = &c
	}
	if item.DetectedObjects == nil {
		item.DetectedObjects = []string{}
	}
	item.AnalysisStatus = models.AnalysisStatus(status)
	item.Timestamp = models.NewTimestamp(createdAt)

	return &item, nil
}
