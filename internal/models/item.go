package models

import (
	"context"
	"encoding/json"
)

// LidState is the open/closed state of the bin lid
type LidState string

const (
	LidOpen   LidState = "open"
	LidClosed LidState = "closed"
)

// LidStateFromOpen maps the stored boolean to a LidState
func LidStateFromOpen(isOpen bool) LidState {
	if isOpen {
		return LidOpen
	}
	return LidClosed
}

// String returns the string representation of LidState
func (s LidState) String() string {
	return string(s)
}

// AnalysisStatus is the lifecycle status of an item's LLM analysis
type AnalysisStatus string

const (
	AnalysisPending  AnalysisStatus = "pending"
	AnalysisComplete AnalysisStatus = "complete"
	AnalysisFailed   AnalysisStatus = "failed"
)

// IsValid checks if the analysis status is valid
func (s AnalysisStatus) IsValid() bool {
	switch s {
	case AnalysisPending, AnalysisComplete, AnalysisFailed:
		return true
	}
	return false
}

// String returns the string representation of AnalysisStatus
func (s AnalysisStatus) String() string {
	return string(s)
}

// Item is a single disposal: the captured image, what was detected in it and the analysis
type Item struct {
	ID              int64           `json:"id" db:"id"`
	Timestamp       Timestamp       `json:"timestamp" db:"created_at"`
	ImagePath       string          `json:"image_path" db:"image_path"`
	DetectedObjects []string        `json:"detected_objects" db:"detected_objects"`
	Analysis        json.RawMessage `json:"analysis" db:"analysis"`
	Category        *Category       `json:"category,omitempty" db:"category"`
	AnalysisStatus  AnalysisStatus  `json:"analysis_status,omitempty" db:"analysis_status"`

	// Retry metadata for the analysis step
	RetryCount     int     `json:"-" db:"retry_count"`
	MaxRetries     int     `json:"-" db:"max_retries"`
	BackoffSeconds int     `json:"-" db:"backoff_seconds"`
	TimeoutSeconds int     `json:"-" db:"timeout_seconds"`
	LastError      *string `json:"-" db:"last_error"`
}

// CreateItemRequest carries the output of the capture pipeline into storage
type CreateItemRequest struct {
	ImagePath       string
	DetectedObjects []string
	Analysis        json.RawMessage // nil when the inline analysis failed
	Category        *Category
	AnalysisError   *string
	MaxRetries      int
	TimeoutSeconds  int
}

// ToggleResponse is the body returned by POST /toggle
type ToggleResponse struct {
	State LidState `json:"state"`
	Item  *Item    `json:"item,omitempty"`
}

// StateResponse is the body returned by GET /state
type StateResponse struct {
	State LidState `json:"state"`
}

// SearchResponse is the body returned by GET /search
type SearchResponse struct {
	Items []Item `json:"items"`
}

// Camera captures an image and returns the path it was written to
type Camera interface {
	Capture(ctx context.Context) (string, error)
}

// Detector returns the labels of the objects visible in an image
type Detector interface {
	DetectLabels(ctx context.Context, imagePath string) ([]string, error)
}

// Analyzer produces a waste analysis for a set of detected objects.
// The result is always a JSON object.
type Analyzer interface {
	Analyze(ctx context.Context, objects []string) (json.RawMessage, error)
}
