package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// maxSnapshotBytes bounds a single camera frame
const maxSnapshotBytes = 20 << 20

// HTTPCamera captures frames from a camera exposing a JPEG snapshot URL
// (ip cameras, mjpg-streamer, a Raspberry Pi camera daemon, ...)
type HTTPCamera struct {
	snapshotURL string
	dir         string
	client      *http.Client
	now         func() time.Time
}

// NewHTTPCamera creates a camera that stores frames under dir
func NewHTTPCamera(snapshotURL, dir string, client *http.Client) *HTTPCamera {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPCamera{
		snapshotURL: snapshotURL,
		dir:         dir,
		client:      client,
		now:         time.Now,
	}
}

// Capture fetches one frame and writes it to item_<timestamp>_<id>.jpg
func (c *HTTPCamera) Capture(ctx context.Context) (string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.snapshotURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("snapshot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("snapshot request failed: status %d", resp.StatusCode)
	}

	frame, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	if len(frame) == 0 {
		return "", fmt.Errorf("camera returned an empty frame")
	}

	name := fmt.Sprintf("item_%s_%s.jpg", c.now().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(c.dir, name)
	if err := os.WriteFile(path, frame, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	slog.Info("Image captured", "path", path, "bytes", len(frame))
	return path, nil
}
