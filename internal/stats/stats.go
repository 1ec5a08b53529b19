// Package stats serves aggregated disposal statistics per period with a short-lived cache.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/amitbasuri/smartbin/internal/metrics"
	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/amitbasuri/smartbin/internal/storage"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Reader is the storage read used by the service
type Reader interface {
	GetStats(ctx context.Context, q storage.StatsQuery) (*models.StatsResponse, error)
}

// Config holds stats service configuration
type Config struct {
	CacheTTL     time.Duration // <= 0 disables caching
	CacheSize    int
	CommonLimit  int
	RecentLimit  int
	QueryTimeout time.Duration // bound on the shared store query
}

// Service answers stats lookups. Concurrent misses for the same period share one query.
type Service struct {
	store       Reader
	cache       *expirable.LRU[models.Period, *models.StatsResponse]
	group       singleflight.Group
	commonLimit int
	recentLimit int
	timeout     time.Duration
	now         func() time.Time
}

// NewService creates a new stats service
func NewService(store Reader, config Config) *Service {
	if config.CacheSize <= 0 {
		config.CacheSize = 16
	}
	if config.CommonLimit <= 0 {
		config.CommonLimit = 5
	}
	if config.RecentLimit <= 0 {
		config.RecentLimit = 10
	}
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = 30 * time.Second
	}

	s := &Service{
		store:       store,
		commonLimit: config.CommonLimit,
		recentLimit: config.RecentLimit,
		timeout:     config.QueryTimeout,
		now:         time.Now,
	}
	if config.CacheTTL > 0 {
		s.cache = expirable.NewLRU[models.Period, *models.StatsResponse](config.CacheSize, nil, config.CacheTTL)
	}

	return s
}

// Get returns the statistics for period
func (s *Service) Get(ctx context.Context, period models.Period) (*models.StatsResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(period); ok {
			metrics.RecordStatsRequest(period.String(), true)
			return cached, nil
		}
	}
	metrics.RecordStatsRequest(period.String(), false)

	// The shared query outlives any single caller; each caller only stops waiting on its own ctx
	ch := s.group.DoChan(period.String(), func() (interface{}, error) {
		queryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		resp, err := s.store.GetStats(queryCtx, storage.StatsQuery{
			Since:       period.Since(s.now()),
			CommonLimit: s.commonLimit,
			RecentLimit: s.recentLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load stats for %s: %w", period, err)
		}
		if s.cache != nil {
			s.cache.Add(period, resp)
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.StatsResponse), nil
	}
}

// Invalidate drops every cached period, called after a new item is stored
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}
