package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/amitbasuri/smartbin/internal/metrics"
	"github.com/amitbasuri/smartbin/internal/models"
)

// Store is the storage surface the worker needs
type Store interface {
	ClaimNextPendingItem(ctx context.Context) (*models.Item, error)
	CompleteAnalysis(ctx context.Context, id int64, analysis json.RawMessage, category models.Category) error
	ScheduleRetry(ctx context.Context, id int64, errorMessage string) error
}

// Analyzer runs one analysis attempt (the pipeline processor applies the timeout)
type Analyzer interface {
	Analyze(ctx context.Context, objects []string) (json.RawMessage, error)
}

// Worker retries analyses that failed while the lid was being opened
type Worker struct {
	store          Store
	analyzer       Analyzer
	pollInterval   time.Duration
	maxConcurrency int
}

// Config holds worker configuration
type Config struct {
	PollInterval   time.Duration // How often to check for due items
	MaxConcurrency int           // Maximum number of concurrent analyses
}

// NewWorker creates a new worker instance
func NewWorker(store Store, analyzer Analyzer, config Config) *Worker {
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 2
	}

	return &Worker{
		store:          store,
		analyzer:       analyzer,
		pollInterval:   config.PollInterval,
		maxConcurrency: config.MaxConcurrency,
	}
}

// Start runs a single dispatcher feeding a pool of analysis goroutines until ctx is done
func (w *Worker) Start(ctx context.Context) error {
	slog.Info("Worker started",
		"poll_interval", w.pollInterval,
		"max_concurrency", w.maxConcurrency,
	)

	// Item channel acts as a buffer between the dispatcher and the pool
	itemChan := make(chan *models.Item, w.maxConcurrency)

	go w.dispatcherLoop(ctx, itemChan)

	for i := 0; i < w.maxConcurrency; i++ {
		go w.workerLoop(ctx, i+1, itemChan)
	}

	<-ctx.Done()
	slog.Info("Worker stopping due to context cancellation")
	return ctx.Err()
}

// dispatcherLoop claims due items and hands them to the pool
// A single claimer keeps the database from being polled by every goroutine
func (w *Worker) dispatcherLoop(ctx context.Context, itemChan chan<- *models.Item) {
	slog.Info("Dispatcher started")
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Dispatcher stopping")
			return
		case <-ticker.C:
			item, err := w.store.ClaimNextPendingItem(ctx)
			if err != nil {
				slog.Error("Error claiming item", "error", err)
				continue
			}
			if item == nil {
				continue
			}

			// Blocking send: backpressure slows polling while the pool is busy
			select {
			case itemChan <- item:
			case <-ctx.Done():
				return
			}
		}
	}
}

// workerLoop analyzes items from the channel
func (w *Worker) workerLoop(ctx context.Context, workerNum int, itemChan <-chan *models.Item) {
	slog.Info("Worker goroutine started", "worker_num", workerNum)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Worker goroutine stopping", "worker_num", workerNum)
			return
		case item := <-itemChan:
			if err := w.processItem(ctx, workerNum, item); err != nil {
				slog.Error("Error processing item",
					"worker_num", workerNum,
					"item_id", item.ID,
					"error", err)
			}
		}
	}
}

// processItem runs one analysis attempt and records the outcome
func (w *Worker) processItem(ctx context.Context, workerNum int, item *models.Item) error {
	slog.Info("Claimed item",
		"worker_num", workerNum,
		"item_id", item.ID,
		"objects", item.DetectedObjects,
		"retry_count", item.RetryCount,
		"max_retries", item.MaxRetries,
	)

	analysis, err := w.analyzer.Analyze(ctx, item.DetectedObjects)
	if err != nil {
		metrics.RecordAnalysisAttempt("failed")
		slog.Warn("Analysis failed",
			"item_id", item.ID,
			"retry_count", item.RetryCount,
			"error", err)

		// Storage marks the item failed once retries are exhausted
		if err := w.store.ScheduleRetry(ctx, item.ID, err.Error()); err != nil {
			return fmt.Errorf("failed to schedule retry: %w", err)
		}
		return nil
	}

	category := models.CategoryFromAnalysis(analysis)
	if err := w.store.CompleteAnalysis(ctx, item.ID, analysis, category); err != nil {
		return fmt.Errorf("failed to complete analysis: %w", err)
	}

	metrics.RecordAnalysisAttempt("succeeded")
	slog.Info("Analysis completed", "item_id", item.ID, "category", category)
	return nil
}
