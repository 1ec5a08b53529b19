package postgres

import (
	"context"
	"time"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/internal/storage"
)

// GetStats aggregates disposal statistics for the query window
// A nil Since is passed as NULL and disables the lower bound
func (s *Store) GetStats(ctx context.Context, q storage.StatsQuery) (*models.StatsResponse, error) {
	countsQuery := `
		SELECT
			COUNT(*) as total_disposed,
			COUNT(*) FILTER (WHERE category = 'recyclable') as recyclable,
			COUNT(*) FILTER (WHERE category = 'compostable') as compostable,
			COUNT(*) FILTER (WHERE category = 'hazardous') as hazardous,
			COUNT(*) FILTER (WHERE category = 'general_waste') as general_waste
		FROM items
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
	`

	var total, recyclable, compostable, hazardous, generalWaste int64
	err := s.pool.QueryRow(ctx, countsQuery, q.Since).Scan(
		&total,
		&recyclable,
		&compostable,
		&hazardous,
		&generalWaste,
	)
	if err != nil {
		return nil, err
	}

	stats := models.StatsResponse{
		TotalDisposed: float64(total),
		Recyclable:    float64(recyclable),
		Compostable:   float64(compostable),
		Hazardous:     float64(hazardous),
		GeneralWaste:  float64(generalWaste),
	}
	stats.CarbonFootprint = models.NewFootprint(models.CarbonFootprint(stats.CategoryCounts()))

	if stats.CommonItems, err = s.commonItems(ctx, q.Since, q.CommonLimit); err != nil {
		return nil, err
	}
	if stats.RecentItems, err = s.recentItems(ctx, q.Since, q.RecentLimit); err != nil {
		return nil, err
	}

	return &stats, nil
}

// commonItems returns the most frequently detected objects, ties broken by label
func (s *Store) commonItems(ctx context.Context, since *time.Time, limit int) ([]models.CommonItem, error) {
	query := `
		SELECT obj, COUNT(*) AS n
		FROM items, unnest(detected_objects) AS obj
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		GROUP BY obj
		ORDER BY n DESC, obj ASC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CommonItem{}
	for rows.Next() {
		var (
			label string
			n     int64
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		items = append(items, models.CommonItem{Label: label, Count: float64(n)})
	}

	return items, rows.Err()
}

// recentItems returns the latest disposals, newest first
func (s *Store) recentItems(ctx context.Context, since *time.Time, limit int) ([]models.RecentItem, error) {
	query := `
		SELECT created_at, detected_objects
		FROM items
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.RecentItem{}
	for rows.Next() {
		var (
			createdAt time.Time
			objects   []string
		)
		if err := rows.Scan(&createdAt, &objects); err != nil {
			return nil, err
		}
		if objects == nil {
			objects = []string{}
		}
		items = append(items, models.RecentItem{
			Timestamp:       models.NewTimestamp(createdAt),
			DetectedObjects: objects,
		})
	}

	return items, rows.Err()
}
