package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/amitbasuri/smartbin/internal/ui"
	"github.com/fatih/color"
)

const barWidth = 30

// Screen is an in-memory ui.Document and ui.ChartFactory that renders to a terminal
type Screen struct {
	mu        sync.Mutex
	text      map[string]string
	lists     map[string][]string
	charts    map[string]*screenChart
	useColors bool
}

// NewScreen creates an empty screen
func NewScreen(useColors bool) *Screen {
	return &Screen{
		text:      make(map[string]string),
		lists:     make(map[string][]string),
		charts:    make(map[string]*screenChart),
		useColors: useColors,
	}
}

// SetText implements ui.Document
func (s *Screen) SetText(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text[id] = text
}

// ClearChildren implements ui.Document
func (s *Screen) ClearChildren(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, id)
}

// AppendItem implements ui.Document
func (s *Screen) AppendItem(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[id] = append(s.lists[id], text)
}

// Text returns the text of an element
func (s *Screen) Text(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text[id]
}

// Items returns a copy of a list element's entries
func (s *Screen) Items(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lists[id]...)
}

type screenChart struct {
	screen *Screen
	spec   ui.ChartSpec
}

// Destroy frees the chart's canvas
func (c *screenChart) Destroy() {
	c.screen.mu.Lock()
	defer c.screen.mu.Unlock()
	if c.screen.charts[c.spec.Canvas] == c {
		delete(c.screen.charts, c.spec.Canvas)
	}
}

// NewChart implements ui.ChartFactory. A canvas holds one live chart at a time.
func (s *Screen) NewChart(spec ui.ChartSpec) (ui.Chart, error) {
	if len(spec.Labels) != len(spec.Values) {
		return nil, fmt.Errorf("chart on %q: %d labels for %d values", spec.Canvas, len(spec.Labels), len(spec.Values))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.charts[spec.Canvas]; ok {
		return nil, fmt.Errorf("canvas %q is already in use", spec.Canvas)
	}
	c := &screenChart{screen: s, spec: spec}
	s.charts[spec.Canvas] = c
	return c, nil
}

// Chart returns the spec of the live chart on canvas
func (s *Screen) Chart(canvas string) (ui.ChartSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.charts[canvas]
	if !ok {
		return ui.ChartSpec{}, false
	}
	return c.spec, true
}

// RenderToggle writes the lid button label and the result area
func (s *Screen) RenderToggle(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := s.text[ui.ElementToggleButton]
	if label != "" {
		newColor(s.useColors, color.Bold).Fprintf(w, "[ %s ]\n", label)
	}
	if result := s.text[ui.ElementResult]; result != "" {
		fmt.Fprintln(w, result)
	}
}

// RenderStats writes the counters, both charts and the recent list
func (s *Screen) RenderStats(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeHeader(w, "Summary", s.useColors)
	summary := NewTable(w, []string{"Metric", "Value"})
	summary.AddRow("Total disposed", s.text[ui.ElementTotal])
	summary.AddRow("Carbon footprint (kg CO2e)", s.text[ui.ElementFootprint])
	summary.AddRow("Recyclable", s.text[ui.ElementRecyclable])
	summary.AddRow("Compostable", s.text[ui.ElementCompostable])
	if err := summary.Render(); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	if c, ok := s.charts[ui.CanvasCategory]; ok {
		writeHeader(w, "Categories", s.useColors)
		if err := s.renderPie(w, c.spec); err != nil {
			return err
		}
	}

	if c, ok := s.charts[ui.CanvasCommon]; ok {
		writeHeader(w, "Most common items", s.useColors)
		s.renderBars(w, c.spec)
	}

	writeHeader(w, "Recent items", s.useColors)
	recent := s.lists[ui.ElementRecent]
	if len(recent) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, entry := range recent {
		fmt.Fprintf(w, "  • %s\n", entry)
	}
	return nil
}

func (s *Screen) renderPie(w io.Writer, spec ui.ChartSpec) error {
	var total float64
	for _, v := range spec.Values {
		total += v
	}

	table := NewTable(w, []string{"Category", "Count", "Share"})
	for i, label := range spec.Labels {
		share := "-"
		if total > 0 {
			share = strconv.FormatFloat(spec.Values[i]/total*100, 'f', 1, 64) + "%"
		}
		table.AddRow(label, formatValue(spec.Values[i]), share)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render categories: %w", err)
	}
	return nil
}

func (s *Screen) renderBars(w io.Writer, spec ui.ChartSpec) {
	if len(spec.Labels) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}

	// Negative values draw no bar
	var maxValue float64
	labelWidth := 0
	for i, label := range spec.Labels {
		if spec.Values[i] > maxValue {
			maxValue = spec.Values[i]
		}
		if n := len([]rune(label)); n > labelWidth {
			labelWidth = n
		}
	}

	bar := newColor(s.useColors, color.FgGreen)
	for i, label := range spec.Labels {
		n := 0
		if maxValue > 0 && spec.Values[i] > 0 {
			n = int(spec.Values[i] / maxValue * barWidth)
		}
		pad := strings.Repeat(" ", labelWidth-len([]rune(label)))
		fmt.Fprintf(w, "  %s%s %s %s\n", label, pad, bar.Sprint(strings.Repeat("█", n)), formatValue(spec.Values[i]))
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
