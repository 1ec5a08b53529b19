package postgres

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/internal/storage"
)

// ScheduleRetry schedules another analysis attempt with exponential backoff
func (s *Store) ScheduleRetry(ctx context.Context, id int64, errorMessage string) error {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}

	// Retries exhausted
	if item.RetryCount >= item.MaxRetries {
		return s.MarkAnalysisFailed(ctx, id, fmt.Sprintf("max retries exceeded: %s", errorMessage))
	}

	retryCount := item.RetryCount + 1
	nextRunAt := time.Now().Add(calculateBackoff(item.BackoffSeconds, retryCount))

	query := `
		UPDATE items
		SET
			analysis_status = $1,
			retry_count = $2,
			last_error = $3,
			next_run_at = $4,
			locked_at = NULL,
			lock_expires_at = NULL,
			updated_at = NOW()
		WHERE id = $5
	`

	result, err := s.pool.Exec(ctx, query,
		models.AnalysisPending,
		retryCount,
		errorMessage,
		nextRunAt,
		id,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrItemNotFound
	}

	return nil
}

// calculateBackoff computes exponential backoff with jitter
// Formula: base * 2^(retry_count-1), capped at one hour, ±25% jitter, minimum 1s
func calculateBackoff(baseSeconds int, retryCount int) time.Duration {
	// Cap the exponent to prevent overflow
	exponent := retryCount - 1
	if exponent > 20 {
		exponent = 20
	}
	if exponent < 0 {
		exponent = 0
	}

	exponential := float64(baseSeconds) * math.Pow(2, float64(exponent))
	if exponential > 3600 {
		exponential = 3600
	}

	jitterPercent := (rand.Float64() * 0.5) - 0.25 // Range: -0.25 to +0.25
	backoff := exponential + exponential*jitterPercent

	if backoff < 1 {
		backoff = 1
	}

	return time.Duration(backoff) * time.Second
}
