package services

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"pasale-dashboard/internal/models"
)

func fixedSupplier() *FallbackSupplier {
	s := NewFallbackSupplier()
	s.now = func() time.Time { return time.Date(2025, 8, 20, 15, 0, 0, 0, time.UTC) }
	return s
}

func TestFallbackSupplier_Forecast(t *testing.T) {
	got := fixedSupplier().Forecast()
	if len(got.Forecasts) != 12 {
		t.Fatalf("len = %d, want 12", len(got.Forecasts))
	}
	for i, p := range got.Forecasts {
		if p.PredictedRevenue < 45000 || p.PredictedRevenue > 65000 {
			t.Errorf("point %d predicted %v out of range", i, p.PredictedRevenue)
		}
		if p.ConfidenceLower < 35000 || p.ConfidenceLower > 50000 {
			t.Errorf("point %d lower %v out of range", i, p.ConfidenceLower)
		}
		if p.ConfidenceUpper < 55000 || p.ConfidenceUpper > 80000 {
			t.Errorf("point %d upper %v out of range", i, p.ConfidenceUpper)
		}
		if p.Trend != 1 && p.Trend != -1 {
			t.Errorf("point %d trend = %v, want ±1", i, p.Trend)
		}
	}
	if got.Forecasts[0].Date != "2025-08-20" || got.Forecasts[1].Date != "2025-08-27" {
		t.Errorf("dates = %s, %s; want weekly from today", got.Forecasts[0].Date, got.Forecasts[1].Date)
	}
}

func TestFallbackSupplier_ForecastFields(t *testing.T) {
	raw, err := json.Marshal(fixedSupplier().Forecast().Forecasts[0])
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"date", "predicted_revenue", "confidence_lower", "confidence_upper", "trend"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("forecast point missing %q", k)
		}
	}
}

func TestFallbackSupplier_Shapes(t *testing.T) {
	s := fixedSupplier()

	revenue := s.Revenue()
	if len(revenue) != 6 {
		t.Errorf("revenue len = %d, want 6", len(revenue))
	}
	if revenue[5].Date != "2025-08-20" {
		t.Errorf("last revenue date = %s, want today", revenue[5].Date)
	}
	for _, p := range revenue {
		if p.TransactionsCount <= 0 || p.Revenue <= 0 {
			t.Errorf("revenue point %+v should be positive", p)
		}
	}

	if n := len(s.Seasonal().Insights); n != 3 {
		t.Errorf("seasonal insights = %d, want 3", n)
	}
	if n := len(s.Recommendations().Recommendations); n != 3 {
		t.Errorf("recommendations = %d, want 3", n)
	}

	cats := s.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	if !slices.Equal(names, []string{"Food", "Electronics", "Beverage", "Hygiene", "Clothing"}) {
		t.Errorf("categories = %v", names)
	}

	stats := s.Stats()
	if stats.TotalRevenue != 338000 || stats.TotalTransactions != 178 || stats.RevenueGrowth == nil {
		t.Errorf("stats = %+v", stats)
	}
}

func TestFallbackSupplier_Supply(t *testing.T) {
	s := fixedSupplier()
	tests := []struct {
		kind FallbackKind
		ok   func(any) bool
	}{
		{FallbackRevenue, func(v any) bool { _, ok := v.([]models.RevenuePoint); return ok }},
		{FallbackForecast, func(v any) bool { _, ok := v.(*models.ForecastResponse); return ok }},
		{FallbackSeasonal, func(v any) bool { _, ok := v.(*models.SeasonalResponse); return ok }},
		{FallbackRecommendations, func(v any) bool { _, ok := v.(*models.RecommendationsResponse); return ok }},
		{FallbackCategory, func(v any) bool { _, ok := v.([]models.CategoryAggregate); return ok }},
		{FallbackStats, func(v any) bool { _, ok := v.(*models.DashboardStats); return ok }},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			v, err := s.Supply(tt.kind)
			if err != nil {
				t.Fatalf("Supply() error = %v", err)
			}
			if !tt.ok(v) {
				t.Errorf("Supply(%s) returned %T", tt.kind, v)
			}
		})
	}

	if _, err := s.Supply("weather"); err == nil {
		t.Error("Supply(unknown) should fail")
	}
}
