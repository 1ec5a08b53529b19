// Package ui holds the smart bin display controllers. They render API responses into a
// Document (named text elements and lists) and charts built by a ChartFactory.
package ui

import (
	"errors"
	"time"
)

// Element ids shared with the HTML pages
const (
	ElementToggleButton = "toggleBtn"
	ElementResult       = "result"
	ElementTotal        = "total"
	ElementFootprint    = "footprint"
	ElementRecyclable   = "recyclable"
	ElementCompostable  = "compostable"
	ElementRecent       = "recent"

	CanvasCategory = "categoryChart"
	CanvasCommon   = "commonChart"
)

const (
	// DefaultPeriod is loaded by StatsController.Start
	DefaultPeriod = "all"

	WaitingText = "Please wait..."
	OpenLabel   = "Open"
	CloseLabel  = "Close"
)

// ErrSuperseded is returned when a newer request was issued before this one resolved.
// Its response is dropped without touching the document.
var ErrSuperseded = errors.New("superseded by a newer request")

// Document is the set of named elements a controller writes to
type Document interface {
	SetText(id, text string)
	ClearChildren(id string)
	AppendItem(id, text string)
}

// ChartKind selects the chart type
type ChartKind string

const (
	ChartPie ChartKind = "pie"
	ChartBar ChartKind = "bar"
)

// ChartSpec describes a single-dataset chart bound to a canvas element
type ChartSpec struct {
	Kind   ChartKind
	Canvas string
	Labels []string
	Values []float64
}

// Chart is a live chart instance
type Chart interface {
	Destroy()
}

// ChartFactory creates charts on canvas elements
type ChartFactory interface {
	NewChart(spec ChartSpec) (Chart, error)
}

// CategoryLabels returns the pie chart labels in slice order
func CategoryLabels() []string {
	return []string{"Recyclable", "Compostable", "Hazardous", "General Waste"}
}

type options struct {
	onError  func(error)
	layout   string
	location *time.Location
}

// Option configures a controller
type Option func(*options)

// WithErrorHandler registers a callback for failed requests. Superseded requests are not reported.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithTimeLayout sets the layout used for recent-item timestamps
func WithTimeLayout(layout string) Option {
	return func(o *options) {
		o.layout = layout
	}
}

// WithLocation sets the zone recent-item timestamps are shown in
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

func newOptions(opts []Option) options {
	o := options{
		layout:   time.DateTime,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) report(err error) {
	if o.onError != nil {
		o.onError(err)
	}
}
