package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/jackc/pgx/v5"
)

// ClaimNextPendingItem atomically claims the next item whose analysis is due
// Items with expired locks are reclaimed first so a crashed worker cannot starve them
func (s *Store) ClaimNextPendingItem(ctx context.Context) (*models.Item, error) {
	now := time.Now()

	query := `
		UPDATE items
		SET
			locked_at = $1,
			lock_expires_at = $1 + (timeout_seconds || ' seconds')::interval,
			updated_at = $1
		WHERE id = (
			SELECT id
			FROM items
			WHERE analysis_status = $2
			  AND next_run_at <= $1
			  AND (lock_expires_at IS NULL OR lock_expires_at <= $1)
			ORDER BY
			  CASE WHEN lock_expires_at IS NOT NULL AND lock_expires_at <= $1 THEN 0 ELSE 1 END,
			  created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + itemColumns

	item, err := scanItem(s.pool.QueryRow(ctx, query, now, models.AnalysisPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Nothing due
		}
		return nil, err
	}

	return item, nil
}
