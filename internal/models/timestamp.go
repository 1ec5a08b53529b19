package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// dateOnlyLayout is read as UTC midnight, like a browser reads a bare date
const dateOnlyLayout = "2006-01-02"

// isoLayouts are the ISO-8601 shapes accepted for timestamps, most specific first.
// Zone-less date-times are read in local time.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	dateOnlyLayout,
}

// Timestamp is an instant that decodes from an ISO-8601 string or an epoch number in
// milliseconds. Values that cannot be parsed keep their raw text.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Valid reports whether the timestamp holds a parsed instant
func (t Timestamp) Valid() bool {
	return !t.Time.IsZero()
}

// Format renders the timestamp with layout in loc. Unparsed values render their raw text.
func (t Timestamp) Format(layout string, loc *time.Location) string {
	if !t.Valid() {
		return t.Raw
	}
	if loc != nil {
		return t.Time.In(loc).Format(layout)
	}
	return t.Time.Format(layout)
}

// MarshalJSON encodes the timestamp as an RFC 3339 string
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		if t.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts ISO-8601 strings, epoch milliseconds and null
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = Timestamp{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		ms, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		t.Time = time.UnixMilli(int64(ms))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t.Time = ParseISO(s)
	if t.Time.IsZero() {
		t.Raw = s
	}
	return nil
}

// ParseISO parses the ISO-8601 shapes in isoLayouts, returning the zero time on failure
func ParseISO(s string) time.Time {
	for _, layout := range isoLayouts {
		loc := time.Local
		if layout == dateOnlyLayout {
			loc = time.UTC
		}
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts
		}
	}
	return time.Time{}
}
