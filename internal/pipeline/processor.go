package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amitbasuri/smartbin/internal/metrics"
	"github.com/amitbasuri/smartbin/internal/models"
)

// Pipeline errors
var (
	ErrCaptureFailed = errors.New("image capture failed")
	ErrNoObjects     = errors.New("no objects detected")
)

// ItemCreator persists processed items
type ItemCreator interface {
	CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.Item, error)
}

// Config holds processor configuration
type Config struct {
	AnalysisTimeout time.Duration // Maximum time for one LLM analysis
	MaxRetries      int           // Background analysis attempts after an inline failure
}

// Processor runs capture -> detect -> analyze -> store for a newly disposed item
type Processor struct {
	camera          models.Camera
	detector        models.Detector
	analyzer        models.Analyzer
	store           ItemCreator
	analysisTimeout time.Duration
	maxRetries      int
}

// NewProcessor creates a new processor
func NewProcessor(camera models.Camera, detector models.Detector, analyzer models.Analyzer, store ItemCreator, config Config) *Processor {
	if config.AnalysisTimeout == 0 {
		config.AnalysisTimeout = 60 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}

	return &Processor{
		camera:          camera,
		detector:        detector,
		analyzer:        analyzer,
		store:           store,
		analysisTimeout: config.AnalysisTimeout,
		maxRetries:      config.MaxRetries,
	}
}

// ProcessNewItem captures, identifies and stores the item just dropped in the bin.
// A failed analysis does not fail the run: the item is stored pending and the
// worker retries the analysis later.
func (p *Processor) ProcessNewItem(ctx context.Context) (*models.Item, error) {
	stageStart := time.Now()
	imagePath, err := p.camera.Capture(ctx)
	metrics.ObserveStage("capture", time.Since(stageStart).Seconds())
	if err != nil {
		metrics.RecordItemProcessed("capture_failed")
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	stageStart = time.Now()
	objects, err := p.detector.DetectLabels(ctx, imagePath)
	metrics.ObserveStage("detect", time.Since(stageStart).Seconds())
	if err != nil {
		metrics.RecordItemProcessed("detect_failed")
		return nil, fmt.Errorf("object detection failed: %w", err)
	}
	if len(objects) == 0 {
		metrics.RecordItemProcessed("no_objects")
		return nil, ErrNoObjects
	}

	req := models.CreateItemRequest{
		ImagePath:       imagePath,
		DetectedObjects: objects,
		MaxRetries:      p.maxRetries,
		TimeoutSeconds:  int(p.analysisTimeout.Seconds()),
	}

	analysis, err := p.Analyze(ctx, objects)
	if err != nil {
		slog.Warn("Inline analysis failed, deferring to worker", "image", imagePath, "error", err)
		msg := err.Error()
		req.AnalysisError = &msg
	} else {
		category := models.CategoryFromAnalysis(analysis)
		req.Analysis = analysis
		req.Category = &category
	}

	item, err := p.store.CreateItem(ctx, req)
	if err != nil {
		metrics.RecordItemProcessed("store_failed")
		return nil, fmt.Errorf("failed to store item: %w", err)
	}

	result := "complete"
	if req.Analysis == nil {
		result = "analysis_pending"
	}
	metrics.RecordItemProcessed(result)

	slog.Info("Item processed",
		"item_id", item.ID,
		"objects", objects,
		"analysis_status", item.AnalysisStatus,
	)

	return item, nil
}

// Analyze runs the analyzer with the configured timeout
func (p *Processor) Analyze(ctx context.Context, objects []string) (json.RawMessage, error) {
	analyzeCtx, cancel := context.WithTimeout(ctx, p.analysisTimeout)
	defer cancel()

	stageStart := time.Now()
	analysis, err := p.analyzer.Analyze(analyzeCtx, objects)
	metrics.ObserveStage("analyze", time.Since(stageStart).Seconds())
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	return analysis, nil
}
