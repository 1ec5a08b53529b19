package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/amitbasuri/smartbin/internal/models"
)

// ToggleAPI issues the lid toggle request
type ToggleAPI interface {
	Toggle(ctx context.Context) (*models.ToggleResponse, error)
}

// ToggleController drives the lid button and the analysis result area.
// Toggle requests are never cancelled: the server flip is not idempotent.
type ToggleController struct {
	api  ToggleAPI
	doc  Document
	opts options

	mu     sync.Mutex
	latest uint64
}

// NewToggleController creates a ToggleController
func NewToggleController(api ToggleAPI, doc Document, opts ...Option) *ToggleController {
	return &ToggleController{
		api:  api,
		doc:  doc,
		opts: newOptions(opts),
	}
}

// Click sends one toggle request and renders its response.
// Only the most recently issued click renders; older ones return ErrSuperseded.
func (c *ToggleController) Click(ctx context.Context) error {
	c.mu.Lock()
	c.latest++
	token := c.latest
	c.doc.SetText(ElementResult, WaitingText)
	c.mu.Unlock()

	resp, err := c.api.Toggle(ctx)

	if err := c.apply(token, resp, err); err != nil {
		if !errors.Is(err, ErrSuperseded) {
			c.opts.report(err)
		}
		return err
	}
	return nil
}

func (c *ToggleController) apply(token uint64, resp *models.ToggleResponse, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.latest {
		return ErrSuperseded
	}
	if err != nil {
		c.doc.SetText(ElementResult, "Error: "+err.Error())
		return err
	}

	if resp.State == models.LidOpen {
		c.doc.SetText(ElementToggleButton, CloseLabel)
	} else {
		c.doc.SetText(ElementToggleButton, OpenLabel)
	}

	if resp.State == models.LidOpen && resp.Item != nil {
		c.doc.SetText(ElementResult, PrettyJSON(resp.Item.Analysis))
	} else {
		c.doc.SetText(ElementResult, "")
	}
	return nil
}

// PrettyJSON indents raw JSON with two spaces, keeping key order and escapes.
// A missing value renders as the empty string.
func PrettyJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
