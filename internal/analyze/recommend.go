package analyze

import (
	"fmt"
	"strings"
)

var timeHeaderHints = []string{"date", "time", "year", "month"}

// RecommendCharts suggests chart kinds for the aggregated data. Every
// applicable rule fires; the order is display order only.
func RecommendCharts(categories []string, values []float64, series map[string][]float64) []string {
	recs := []string{}

	if len(categories) > 0 && len(values) > 0 {
		if len(categories) <= 6 {
			recs = append(recs, fmt.Sprintf("pie chart for %d categories", len(categories)))
		}
		recs = append(recs, "bar chart for categorical comparison")
		if len(categories) > 10 {
			recs = append(recs, "line chart for trend analysis")
		}
	}

	if len(series) > 1 {
		recs = append(recs, "multi-series bar chart for comparison", "stacked bar chart for composition")
	}

	if hasTimeSeries(series) {
		recs = append(recs, "line chart for time series data", "area chart for cumulative trends")
	}

	return recs
}

func hasTimeSeries(series map[string][]float64) bool {
	for header := range series {
		h := strings.ToLower(header)
		for _, hint := range timeHeaderHints {
			if strings.Contains(h, hint) {
				return true
			}
		}
	}
	return false
}
