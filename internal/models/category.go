package models

import (
	"encoding/json"
	"math"
	"strings"
)

// Category is the waste category an item is sorted into
type Category string

const (
	CategoryRecyclable   Category = "recyclable"
	CategoryCompostable  Category = "compostable"
	CategoryHazardous    Category = "hazardous"
	CategoryGeneralWaste Category = "general_waste"
)

// Categories lists the categories in pie chart order
var Categories = []Category{
	CategoryRecyclable,
	CategoryCompostable,
	CategoryHazardous,
	CategoryGeneralWaste,
}

// footprintFactors is kg CO2e attributed to one disposed item of each category
var footprintFactors = map[Category]float64{
	CategoryRecyclable:   0.05,
	CategoryCompostable:  0.02,
	CategoryHazardous:    0.50,
	CategoryGeneralWaste: 0.20,
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is one of the known categories
func (c Category) IsValid() bool {
	_, ok := footprintFactors[c]
	return ok
}

// NormalizeCategory maps free-form LLM output ("Recyclable plastic", "general waste", ...)
// onto a Category. Unrecognised input is general waste.
func NormalizeCategory(raw string) Category {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "hazard"), strings.Contains(s, "toxic"):
		return CategoryHazardous
	case strings.Contains(s, "compost"), strings.Contains(s, "organic"):
		return CategoryCompostable
	case strings.Contains(s, "recycl"):
		return CategoryRecyclable
	default:
		return CategoryGeneralWaste
	}
}

// CategoryFromAnalysis extracts the category from an analysis object. Structured analyses
// carry a "category" field; free-text ones are wrapped as {"analysis": "..."} and the text
// is searched instead.
func CategoryFromAnalysis(analysis json.RawMessage) Category {
	var fields struct {
		Category any    `json:"category"`
		Analysis string `json:"analysis"`
	}
	if err := json.Unmarshal(analysis, &fields); err != nil {
		return CategoryGeneralWaste
	}

	switch v := fields.Category.(type) {
	case string:
		return NormalizeCategory(v)
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return NormalizeCategory(s)
			}
		}
	}

	return NormalizeCategory(fields.Analysis)
}

// CarbonFootprint returns kg CO2e for the given per-category counts, rounded to 2 decimals
func CarbonFootprint(counts map[Category]float64) float64 {
	var total float64
	for c, n := range counts {
		total += footprintFactors[c] * n
	}
	return math.Round(total*100) / 100
}
