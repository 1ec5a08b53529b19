// Package client is a typed HTTP client for the smart bin API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amitbasuri/smartbin/internal/models"
)

// ErrMalformedResponse is returned when a 2xx body cannot be decoded
var ErrMalformedResponse = errors.New("malformed response")

// APIClient handles HTTP communication with the smart bin server.
type APIClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API error (%d): %s: %s", e.StatusCode, e.Message, e.Details)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (%d)", e.StatusCode)
}

// New creates an APIClient for serverURL. The pipeline runs inside POST /toggle,
// so timeout should cover capture and analysis.
func New(serverURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &APIClient{
		BaseURL: strings.TrimRight(serverURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *APIClient) do(ctx context.Context, method, path string, result interface{}) error {
	target := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", target, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// Try to parse structured error
		_ = json.Unmarshal(respBody, apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	return nil
}

// Toggle flips the lid. The request carries no body.
func (c *APIClient) Toggle(ctx context.Context) (*models.ToggleResponse, error) {
	var resp models.ToggleResponse
	if err := c.do(ctx, http.MethodPost, "/toggle", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats fetches statistics for a period token. The token is passed through as-is.
func (c *APIClient) Stats(ctx context.Context, period string) (*models.StatsResponse, error) {
	var resp models.StatsResponse
	if err := c.do(ctx, http.MethodGet, "/stats-data/"+url.PathEscape(period), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// State returns the current lid state.
func (c *APIClient) State(ctx context.Context) (models.LidState, error) {
	var resp models.StateResponse
	if err := c.do(ctx, http.MethodGet, "/state", &resp); err != nil {
		return "", err
	}
	return resp.State, nil
}

// Search returns items whose objects or analysis match keyword.
func (c *APIClient) Search(ctx context.Context, keyword string) ([]models.Item, error) {
	var resp models.SearchResponse
	if err := c.do(ctx, http.MethodGet, "/search?q="+url.QueryEscape(keyword), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
