package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	for _, token := range []string{"today", "week", "month", "year", "all", " WEEK "} {
		_, err := ParsePeriod(token)
		assert.NoError(t, err, token)
	}

	_, err := ParsePeriod("fortnight")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestPeriod_Since(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 30, 0, 0, time.UTC)

	assert.Nil(t, PeriodAll.Since(now))
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), *PeriodToday.Since(now))
	assert.Equal(t, time.Date(2025, 3, 8, 18, 30, 0, 0, time.UTC), *PeriodWeek.Since(now))
	assert.Equal(t, time.Date(2025, 2, 13, 18, 30, 0, 0, time.UTC), *PeriodMonth.Since(now))
	assert.Equal(t, time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC), *PeriodYear.Since(now))
}

func TestCommonItem_WireFormat(t *testing.T) {
	var items []CommonItem
	require.NoError(t, json.Unmarshal([]byte(`[["plastic",5],["paper",3]]`), &items))
	assert.Equal(t, []CommonItem{{"plastic", 5}, {"paper", 3}}, items)

	out, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, `[["plastic",5],["paper",3]]`, string(out))

	var bad CommonItem
	assert.Error(t, json.Unmarshal([]byte(`["plastic"]`), &bad))
}

func TestStatsResponse_FractionalCounts(t *testing.T) {
	var resp StatsResponse
	require.NoError(t, json.Unmarshal([]byte(`{"total_disposed":3,"recyclable":1.5,
		"common_items":[["plastic",2.5],["paper",3]]}`), &resp))

	assert.Equal(t, 3.0, resp.TotalDisposed)
	assert.Equal(t, 1.5, resp.Recyclable)
	assert.Equal(t, []CommonItem{{Label: "plastic", Count: 2.5}, {Label: "paper", Count: 3}}, resp.CommonItems)

	out, err := json.Marshal(resp.CommonItems)
	require.NoError(t, err)
	assert.JSONEq(t, `[["plastic",2.5],["paper",3]]`, string(out))
}

func TestFootprint_AcceptsNumberOrString(t *testing.T) {
	var resp StatsResponse
	require.NoError(t, json.Unmarshal([]byte(`{"carbon_footprint": 1.25}`), &resp))
	assert.Equal(t, "1.25", resp.CarbonFootprint.String())

	require.NoError(t, json.Unmarshal([]byte(`{"carbon_footprint": "3.4 kg"}`), &resp))
	assert.Equal(t, "3.4 kg", resp.CarbonFootprint.String())

	require.NoError(t, json.Unmarshal([]byte(`{"carbon_footprint": 7}`), &resp))
	assert.Equal(t, "7", resp.CarbonFootprint.String())
}

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		raw   string
	}{
		{"rfc3339", `"2025-01-02T03:04:05Z"`, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), ""},
		{"python isoformat", `"2025-01-02T03:04:05.123456"`, time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.Local), ""},
		{"epoch millis", `1735787045000`, time.UnixMilli(1735787045000), ""},
		{"date only", `"2025-01-02"`, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), ""},
		{"garbage", `"yesterday"`, time.Time{}, "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
			assert.Equal(t, tt.raw, ts.Raw)
		})
	}
}

func TestTimestamp_Format(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "2025-01-02 03:04:05", ts.Format(time.DateTime, time.UTC))

	raw := Timestamp{Raw: "not a date"}
	assert.Equal(t, "not a date", raw.Format(time.DateTime, time.UTC))
}
