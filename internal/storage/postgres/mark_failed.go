package postgres

import (
	"context"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/internal/storage"
)

// MarkAnalysisFailed permanently marks an item's analysis as failed (no more retries)
// The item stays in the stats totals without a category
func (s *Store) MarkAnalysisFailed(ctx context.Context, id int64, errorMessage string) error {
	query := `
		UPDATE items
		SET
			analysis_status = $1,
			last_error = $2,
			locked_at = NULL,
			lock_expires_at = NULL,
			updated_at = NOW()
		WHERE id = $3
	`

	result, err := s.pool.Exec(ctx, query, models.AnalysisFailed, errorMessage, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrItemNotFound
	}

	return nil
}
