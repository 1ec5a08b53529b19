package postgres

import (
	"context"
	"errors"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/internal/storage"
	"github.com/jackc/pgx/v5"
)

// GetItem retrieves an item by ID
func (s *Store) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrItemNotFound
		}
		return nil, err
	}

	return item, nil
}
