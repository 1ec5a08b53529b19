package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/amitbasuri/smartbin/internal/models"
)

// StatsAPI fetches statistics for a period token
type StatsAPI interface {
	Stats(ctx context.Context, period string) (*models.StatsResponse, error)
}

// StatsController renders the statistics dashboard. It owns its two chart instances:
// every successful load disposes them and creates new ones.
type StatsController struct {
	api    StatsAPI
	doc    Document
	charts ChartFactory
	opts   options

	mu       sync.Mutex
	latest   uint64
	cancel   context.CancelFunc
	category Chart
	common   Chart
}

// NewStatsController creates a StatsController
func NewStatsController(api StatsAPI, doc Document, charts ChartFactory, opts ...Option) *StatsController {
	return &StatsController{
		api:    api,
		doc:    doc,
		charts: charts,
		opts:   newOptions(opts),
	}
}

// Start loads the default period
func (c *StatsController) Start(ctx context.Context) error {
	return c.LoadStats(ctx, DefaultPeriod)
}

// LoadStats fetches stats for period and renders them. A newer call cancels the
// request of any call still in flight; its result is dropped with ErrSuperseded.
// On failure nothing already rendered is changed.
func (c *StatsController) LoadStats(ctx context.Context, period string) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.latest++
	token := c.latest
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	resp, err := c.api.Stats(reqCtx, period)

	if err := c.apply(token, resp, err); err != nil {
		if !errors.Is(err, ErrSuperseded) {
			c.opts.report(err)
		}
		return err
	}
	return nil
}

// Dispose destroys both charts. Safe to call more than once.
func (c *StatsController) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispose()
}

func (c *StatsController) apply(token uint64, resp *models.StatsResponse, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.latest {
		return ErrSuperseded
	}
	c.cancel = nil
	if err != nil {
		return err
	}

	// Text is only written once both charts exist
	c.dispose()
	if err := c.recreate(resp); err != nil {
		c.dispose()
		return err
	}

	c.doc.SetText(ElementTotal, formatNumber(resp.TotalDisposed))
	c.doc.SetText(ElementFootprint, resp.CarbonFootprint.String())
	c.doc.SetText(ElementRecyclable, formatNumber(resp.Recyclable))
	c.doc.SetText(ElementCompostable, formatNumber(resp.Compostable))

	c.doc.ClearChildren(ElementRecent)
	for _, item := range resp.RecentItems {
		c.doc.AppendItem(ElementRecent, c.recentEntry(item))
	}
	return nil
}

func (c *StatsController) dispose() {
	if c.category != nil {
		c.category.Destroy()
		c.category = nil
	}
	if c.common != nil {
		c.common.Destroy()
		c.common = nil
	}
}

func (c *StatsController) recreate(resp *models.StatsResponse) error {
	category, err := c.charts.NewChart(ChartSpec{
		Kind:   ChartPie,
		Canvas: CanvasCategory,
		Labels: CategoryLabels(),
		Values: []float64{
			resp.Recyclable,
			resp.Compostable,
			resp.Hazardous,
			resp.GeneralWaste,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create category chart: %w", err)
	}
	c.category = category

	labels := make([]string, len(resp.CommonItems))
	values := make([]float64, len(resp.CommonItems))
	for i, item := range resp.CommonItems {
		labels[i] = item.Label
		values[i] = item.Count
	}
	common, err := c.charts.NewChart(ChartSpec{
		Kind:   ChartBar,
		Canvas: CanvasCommon,
		Labels: labels,
		Values: values,
	})
	if err != nil {
		return fmt.Errorf("failed to create common items chart: %w", err)
	}
	c.common = common
	return nil
}

// formatNumber prints counts the way JSON numbers read: 3, 2.5
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *StatsController) recentEntry(item models.RecentItem) string {
	ts := item.Timestamp.Format(c.opts.layout, c.opts.location)
	return fmt.Sprintf("%s: %s", ts, strings.Join(item.DetectedObjects, ", "))
}
