package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"
)

// DefaultVisionEndpoint is the Google Cloud Vision REST annotate endpoint
const DefaultVisionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// VisionDetector detects objects with Google Cloud Vision label detection
type VisionDetector struct {
	endpoint  string
	apiKey    string
	maxLabels int
	client    *http.Client
}

// NewVisionDetector creates a label detector against endpoint
func NewVisionDetector(endpoint, apiKey string, maxLabels int, client *http.Client) *VisionDetector {
	if endpoint == "" {
		endpoint = DefaultVisionEndpoint
	}
	if maxLabels <= 0 {
		maxLabels = 10
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &VisionDetector{
		endpoint:  endpoint,
		apiKey:    apiKey,
		maxLabels: maxLabels,
		client:    client,
	}
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionAnnotateRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// DetectLabels returns label descriptions in the order Vision ranks them
func (d *VisionDetector) DetectLabels(ctx context.Context, imagePath string) ([]string, error) {
	content, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	payload, err := json.Marshal(visionRequest{
		Requests: []visionAnnotateRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(content)},
			Features: []visionFeature{{Type: "LABEL_DETECTION", MaxResults: d.maxLabels}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vision request: %w", err)
	}

	endpoint := d.endpoint
	if d.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(d.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read vision response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vision request failed: status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	var parsed visionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return []string{}, nil
	}
	if e := parsed.Responses[0].Error; e != nil {
		return nil, fmt.Errorf("vision error %d: %s", e.Code, e.Message)
	}

	labels := make([]string, 0, len(parsed.Responses[0].LabelAnnotations))
	for _, a := range parsed.Responses[0].LabelAnnotations {
		if a.Description != "" {
			labels = append(labels, a.Description)
		}
	}

	slog.Info("Objects detected", "image", imagePath, "labels", labels)
	return labels, nil
}
