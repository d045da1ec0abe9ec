package analytics

import (
	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/analytics"
)

const labelLayout = "Jan 2"

// ToSeries reshapes daily slots into day-aligned chart arrays.
// Selectors that are not recognised produce no series.
func ToSeries(slots []analytics.DaySlot, selectors []analytics.SeriesSelector) analytics.ChartData {
	chart := analytics.ChartData{
		Labels: make([]string, 0, len(slots)),
		Series: make([]analytics.Series, 0, len(selectors)),
	}
	for _, slot := range slots {
		chart.Labels = append(chart.Labels, slot.Date.Format(labelLayout))
	}

	for _, selector := range selectors {
		extract := seriesValue(selector)
		if extract == nil {
			continue
		}
		values := make([]float64, 0, len(slots))
		for _, slot := range slots {
			values = append(values, extract(slot))
		}
		chart.Series = append(chart.Series, analytics.Series{Name: string(selector), Values: values})
	}
	return chart
}

func seriesValue(selector analytics.SeriesSelector) func(analytics.DaySlot) float64 {
	switch selector {
	case analytics.SeriesSubmissions:
		return func(s analytics.DaySlot) float64 { return float64(s.Total()) }
	case analytics.SeriesVerified:
		return func(s analytics.DaySlot) float64 { return float64(s.VerifiedCount) }
	case analytics.SeriesPending:
		return func(s analytics.DaySlot) float64 { return float64(s.PendingCount) }
	case analytics.SeriesRejected:
		return func(s analytics.DaySlot) float64 { return float64(s.RejectedCount) }
	case analytics.SeriesHours:
		return func(s analytics.DaySlot) float64 { return s.TotalHours }
	}
	return nil
}
