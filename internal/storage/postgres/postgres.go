package postgres

import (
	"context"

	"github.com/amitbasuri/smartbin/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ storage.Store = (*Store)(nil)

// DBPool is the subset of *pgxpool.Pool used by the store
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements the storage.Store interface using PostgreSQL
type Store struct {
	pool DBPool
}

// NewStore creates a new PostgreSQL store
func NewStore(pool DBPool) *Store {
	return &Store{
		pool: pool,
	}
}

// itemColumns is the column list scanned by scanItem
const itemColumns = `id, image_path, detected_objects, analysis, category, analysis_status,
	retry_count, max_retries, backoff_seconds, timeout_seconds, last_error, created_at`
