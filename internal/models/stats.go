package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is the reporting window token accepted by /stats-data/:period
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ErrUnknownPeriod is returned by ParsePeriod for tokens the server does not define
var ErrUnknownPeriod = errors.New("unknown period")

// ParsePeriod validates a period token (case-insensitive)
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Since returns the start of the window ending at now, or nil for PeriodAll.
// "today" starts at local midnight; week, month and year are rolling windows.
func (p Period) Since(now time.Time) *time.Time {
	var t time.Time
	switch p {
	case PeriodToday:
		y, m, d := now.Date()
		t = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		t = now.AddDate(0, 0, -7)
	case PeriodMonth:
		t = now.AddDate(0, 0, -30)
	case PeriodYear:
		t = now.AddDate(0, 0, -365)
	default:
		return nil
	}
	return &t
}

// String returns the string representation of Period
func (p Period) String() string {
	return string(p)
}

// CommonItem is a (label, count) pair, encoded on the wire as a 2-element array.
// Counts are plain JSON numbers; the server only sends integers.
type CommonItem struct {
	Label string
	Count float64
}

// MarshalJSON encodes the pair as ["label", count]
func (c CommonItem) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.Label, c.Count})
}

// UnmarshalJSON decodes a ["label", count] pair
func (c *CommonItem) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("common item: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("common item: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Label); err != nil {
		return fmt.Errorf("common item label: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Count); err != nil {
		return fmt.Errorf("common item count: %w", err)
	}
	return nil
}

// RecentItem is one entry of the recent activity list
type RecentItem struct {
	Timestamp       Timestamp `json:"timestamp"`
	DetectedObjects []string  `json:"detected_objects"`
}

// StatsResponse is the body returned by GET /stats-data/:period
type StatsResponse struct {
	TotalDisposed   float64      `json:"total_disposed"`
	CarbonFootprint Footprint    `json:"carbon_footprint"`
	Recyclable      float64      `json:"recyclable"`
	Compostable     float64      `json:"compostable"`
	Hazardous       float64      `json:"hazardous"`
	GeneralWaste    float64      `json:"general_waste"`
	CommonItems     []CommonItem `json:"common_items"`
	RecentItems     []RecentItem `json:"recent_items"`
}

// CategoryCounts returns the per-category counts keyed by Category
func (s *StatsResponse) CategoryCounts() map[Category]float64 {
	return map[Category]float64{
		CategoryRecyclable:   s.Recyclable,
		CategoryCompostable:  s.Compostable,
		CategoryHazardous:    s.Hazardous,
		CategoryGeneralWaste: s.GeneralWaste,
	}
}

// Footprint is the carbon footprint value. The server sends a number; a pre-formatted
// string is accepted too and kept verbatim for display.
type Footprint struct {
	Value float64
	Text  string
}

// NewFootprint returns a numeric Footprint
func NewFootprint(v float64) Footprint {
	return Footprint{Value: v}
}

// String formats the footprint the way it is displayed
func (f Footprint) String() string {
	if f.Text != "" {
		return f.Text
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// MarshalJSON encodes the footprint as a number, or as a string when pre-formatted
func (f Footprint) MarshalJSON() ([]byte, error) {
	if f.Text != "" {
		return json.Marshal(f.Text)
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON accepts a number, a string or null
func (f *Footprint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Footprint{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Footprint{Text: s}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.Value = v
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("carbon footprint: %w", err)
	}
	*f = Footprint{Value: v}
	return nil
}
