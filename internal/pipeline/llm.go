package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const promptTemplate = `The following items were detected in a trash can: %s

Please provide the following information:
1. What category of waste is this (recyclable, compostable, hazardous, general waste)?
2. Environmental impact of disposing this item
3. Better alternatives for disposal if applicable
4. Estimated decomposition time

Respond in JSON format with the fields: category, environmental_impact, better_disposal, decomposition_time
`

// LlamaAnalyzer asks a llama.cpp server (/completion) for a waste analysis
type LlamaAnalyzer struct {
	endpoint  string
	maxTokens int
	stop      []string
	client    *http.Client
}

// NewLlamaAnalyzer creates an analyzer against a llama.cpp server base URL
func NewLlamaAnalyzer(endpoint string, maxTokens int, client *http.Client) *LlamaAnalyzer {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &LlamaAnalyzer{
		endpoint:  strings.TrimRight(endpoint, "/"),
		maxTokens: maxTokens,
		stop:      []string{"</s>", "\n\n"},
		client:    client,
	}
}

// BuildPrompt renders the analysis prompt for the detected objects
func BuildPrompt(objects []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(objects, ", "))
}

// Analyze returns the model's JSON object, or {"analysis": "<text>"} when the
// completion is not a JSON object
func (a *LlamaAnalyzer) Analyze(ctx context.Context, objects []string) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]any{
		"prompt":    BuildPrompt(objects),
		"n_predict": a.maxTokens,
		"stop":      a.stop,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+"/completion", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read completion response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("completion request failed: status %d", resp.StatusCode)
	}

	var completion struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("failed to parse completion response: %w", err)
	}

	text := strings.TrimSpace(completion.Content)
	slog.Info("LLM analysis received", "objects", objects, "length", len(text))

	return ParseAnalysis(text), nil
}

// ParseAnalysis keeps a JSON object as-is and wraps anything else as {"analysis": text}
func ParseAnalysis(text string) json.RawMessage {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}

	wrapped, _ := json.Marshal(map[string]string{"analysis": text})
	return wrapped
}
