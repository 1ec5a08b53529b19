package ui

import (
	"context"
	"sync"

	"github.com/amitbasuri/smartbin/internal/models"
)

type fakeDoc struct {
	mu    sync.Mutex
	text  map[string]string
	lists map[string][]string
}

func newFakeDoc() *fakeDoc {
	return &fakeDoc{text: map[string]string{}, lists: map[string][]string{}}
}

func (d *fakeDoc) SetText(id, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text[id] = text
}

func (d *fakeDoc) ClearChildren(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lists[id] = nil
}

func (d *fakeDoc) AppendItem(id, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lists[id] = append(d.lists[id], text)
}

func (d *fakeDoc) get(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text[id]
}

func (d *fakeDoc) list(id string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lists[id]...)
}

type fakeChart struct {
	spec      ChartSpec
	destroyed int
}

func (c *fakeChart) Destroy() { c.destroyed++ }

type fakeCharts struct {
	created    []*fakeChart
	err        error
	failCanvas string
}

func (f *fakeCharts) NewChart(spec ChartSpec) (Chart, error) {
	if f.err != nil && (f.failCanvas == "" || f.failCanvas == spec.Canvas) {
		return nil, f.err
	}
	c := &fakeChart{spec: spec}
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeCharts) live() []*fakeChart {
	var out []*fakeChart
	for _, c := range f.created {
		if c.destroyed == 0 {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeCharts) liveOn(canvas string) *fakeChart {
	for _, c := range f.live() {
		if c.spec.Canvas == canvas {
			return c
		}
	}
	return nil
}

type toggleFunc func(ctx context.Context) (*models.ToggleResponse, error)

func (f toggleFunc) Toggle(ctx context.Context) (*models.ToggleResponse, error) { return f(ctx) }

type statsFunc func(ctx context.Context, period string) (*models.StatsResponse, error)

func (f statsFunc) Stats(ctx context.Context, period string) (*models.StatsResponse, error) {
	return f(ctx, period)
}

type errorRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *errorRecorder) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *errorRecorder) all() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}
