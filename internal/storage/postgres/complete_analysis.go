package postgres

import (
	"context"
	"encoding/json"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/internal/storage"
)

// CompleteAnalysis stores a successful analysis and releases the item's lock
func (s *Store) CompleteAnalysis(ctx context.Context, id int64, analysis json.RawMessage, category models.Category) error {
	query := `
		UPDATE items
		SET
			analysis = $1,
			category = $2,
			analysis_status = $3,
			last_error = NULL,
			locked_at = NULL,
			lock_expires_at = NULL,
			updated_at = NOW()
		WHERE id = $4
	`

	result, err := s.pool.Exec(ctx, query, []byte(analysis), category.String(), models.AnalysisComplete, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrItemNotFound
	}

	return nil
}
