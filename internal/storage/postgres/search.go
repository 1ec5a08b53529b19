package postgres

import (
	"context"
	"strings"

	"github.com/amitbasuri/smartbin/internal/models"
)

// SearchItems matches keyword case-insensitively against detected objects and against
// free-text analyses stored as {"analysis": "..."}
func (s *Store) SearchItems(ctx context.Context, keyword string, limit int) ([]models.Item, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE EXISTS (
				SELECT 1 FROM unnest(detected_objects) AS obj
				WHERE obj ILIKE '%' || $1 || '%'
			)
		   OR analysis->>'analysis' ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, escapeLike(keyword), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// escapeLike escapes LIKE metacharacters so the keyword matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
