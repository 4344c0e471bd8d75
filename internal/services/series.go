package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"pasale-dashboard/internal/models"
)

const defaultConfidence = 85

// LabelStrategy formats a parsed date with Layout. Points whose date does
// not parse get "<Fallback> N", N being the 1-based position.
type LabelStrategy struct {
	Layout   string
	Fallback string
}

var (
	WeekLabels  = LabelStrategy{Layout: "Jan 2", Fallback: "Week"}
	MonthLabels = LabelStrategy{Layout: "Jan", Fallback: "Month"}
)

func LabelsForPeriod(p models.Period) LabelStrategy {
	if p == models.PeriodMonthly {
		return MonthLabels
	}
	return WeekLabels
}

var dateLayouts = []string{dateLayout, time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (l LabelStrategy) label(date string, index int) string {
	if t, ok := parseDate(date); ok {
		return t.Format(l.Layout)
	}
	return fmt.Sprintf("%s %d", l.Fallback, index+1)
}

// buildSeries emits exactly one tuple per input item.
func buildSeries[T, R any](items []T, dateOf func(T) string, labels LabelStrategy, build func(T, string) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = build(item, labels.label(dateOf(item), i))
	}
	return out
}

func BuildRevenueSeries(points []models.RevenuePoint, labels LabelStrategy) []models.RevenueChartPoint {
	return buildSeries(points,
		func(p models.RevenuePoint) string { return p.Date },
		labels,
		func(p models.RevenuePoint, label string) models.RevenueChartPoint {
			return models.RevenueChartPoint{
				Label:        label,
				Revenue:      p.Revenue,
				Transactions: p.TransactionsCount,
				AvgValue:     p.AvgTransactionValue,
			}
		})
}

func BuildForecastSeries(points []models.ForecastPoint, labels LabelStrategy) []models.ForecastChartPoint {
	return buildSeries(points,
		func(p models.ForecastPoint) string { return p.Date },
		labels,
		func(p models.ForecastPoint, label string) models.ForecastChartPoint {
			return models.ForecastChartPoint{
				Label:      label,
				Predicted:  p.PredictedRevenue,
				Lower:      p.ConfidenceLower,
				Upper:      p.ConfidenceUpper,
				Confidence: ConfidencePercent(p.ConfidenceLower, p.ConfidenceUpper, p.PredictedRevenue),
			}
		})
}

// ConfidencePercent is the interval width as a percentage of the predicted
// value. Zero, NaN and infinite results are replaced by 85.
func ConfidencePercent(lower, upper, predicted float64) int {
	if predicted == 0 {
		return defaultConfidence
	}
	v := roundHalfUp(100 * (upper - lower) / predicted)
	if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return defaultConfidence
	}
	return int(v)
}

const maxDemandPatterns = 5

func BuildDemandPatterns(insights []models.SeasonalInsight) []models.DemandPattern {
	n := min(len(insights), maxDemandPatterns)
	out := make([]models.DemandPattern, 0, n)
	for _, in := range insights[:n] {
		trend := "down"
		if in.RevenueImpact > 0 {
			trend = "up"
		}
		out = append(out, models.DemandPattern{
			Product: in.Season,
			Demand:  int(roundHalfUp(in.RevenueImpact + 60)),
			Trend:   trend,
			Change:  int(roundHalfUp(in.RevenueImpact)),
		})
	}
	return out
}

// roundHalfUp rounds halves toward positive infinity, so -8.5 becomes -8.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
