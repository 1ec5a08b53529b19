package postgres

import (
	"context"
	"errors"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/internal/storage"
	"github.com/jackc/pgx/v5"
)

// ToggleLid atomically flips the lid state and returns the new state
// Concurrent toggles serialize on the single bin_state row
func (s *Store) ToggleLid(ctx context.Context) (models.LidState, error) {
	query := `
		UPDATE bin_state
		SET is_open = NOT is_open, updated_at = NOW()
		WHERE id = 1
		RETURNING is_open
	`

	var isOpen bool
	if err := s.pool.QueryRow(ctx, query).Scan(&isOpen); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storage.ErrStateNotInitialized
		}
		return "", err
	}

	return models.LidStateFromOpen(isOpen), nil
}

// GetLidState returns the current lid state
func (s *Store) GetLidState(ctx context.Context) (models.LidState, error) {
	query := `SELECT is_open FROM bin_state WHERE id = 1`

	var isOpen bool
	if err := s.pool.QueryRow(ctx, query).Scan(&isOpen); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storage.ErrStateNotInitialized
		}
		return "", err
	}

	return models.LidStateFromOpen(isOpen), nil
}
