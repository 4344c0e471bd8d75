package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"pasale-dashboard/internal/errors"
	"pasale-dashboard/internal/models"
)

type FallbackKind string

const (
	FallbackRevenue         FallbackKind = "revenue"
	FallbackForecast        FallbackKind = "forecast"
	FallbackSeasonal        FallbackKind = "seasonal"
	FallbackRecommendations FallbackKind = "recommendations"
	FallbackCategory        FallbackKind = "category"
	FallbackStats           FallbackKind = "stats"
)

const (
	fallbackRevenueDays   = 6
	fallbackForecastWeeks = 12
)

// FallbackSupplier produces synthetic stand-ins for failed fetches. Field
// names and entry counts are fixed per kind; magnitudes are random and must
// not be relied upon.
type FallbackSupplier struct {
	now func() time.Time
}

func NewFallbackSupplier() *FallbackSupplier {
	return &FallbackSupplier{now: time.Now}
}

func (s *FallbackSupplier) Supply(kind FallbackKind) (any, error) {
	switch kind {
	case FallbackRevenue:
		return s.Revenue(), nil
	case FallbackForecast:
		return s.Forecast(), nil
	case FallbackSeasonal:
		return s.Seasonal(), nil
	case FallbackRecommendations:
		return s.Recommendations(), nil
	case FallbackCategory:
		return s.Categories(), nil
	case FallbackStats:
		return s.Stats(), nil
	default:
		return nil, errors.BadRequest(fmt.Sprintf("unknown fallback kind %q", kind))
	}
}

func between(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

// Revenue returns one point per day for the six days ending today.
func (s *FallbackSupplier) Revenue() []models.RevenuePoint {
	today := truncateDay(s.now())
	out := make([]models.RevenuePoint, fallbackRevenueDays)
	for i := range out {
		count := 18 + rand.IntN(25)
		avg := between(1800, 2000)
		out[i] = models.RevenuePoint{
			Date:                today.AddDate(0, 0, i-fallbackRevenueDays+1).Format(dateLayout),
			Revenue:             float64(count) * avg,
			TransactionsCount:   count,
			AvgTransactionValue: avg,
		}
	}
	return out
}

// Forecast returns twelve weekly points starting today.
func (s *FallbackSupplier) Forecast() *models.ForecastResponse {
	today := truncateDay(s.now())
	points := make([]models.ForecastPoint, fallbackForecastWeeks)
	for i := range points {
		trend := -1.0
		if rand.Float64() > 0.5 {
			trend = 1
		}
		points[i] = models.ForecastPoint{
			Date:             today.AddDate(0, 0, i*7).Format(dateLayout),
			PredictedRevenue: between(45000, 65000),
			ConfidenceLower:  between(35000, 50000),
			ConfidenceUpper:  between(55000, 80000),
			Trend:            trend,
		}
	}
	return &models.ForecastResponse{
		Forecasts:        points,
		ModelAccuracy:    0.85,
		ForecastPeriod:   "24 weeks",
		GeneratedAt:      s.now().UTC().Format(time.RFC3339),
		SubscriptionTier: models.TierFree,
	}
}

func (s *FallbackSupplier) Seasonal() *models.SeasonalResponse {
	return &models.SeasonalResponse{
		Insights: []models.SeasonalInsight{
			{
				Season:          "Festival Season",
				Period:          "September - November",
				RevenueImpact:   45,
				TopProducts:     []string{"Rice", "Dal", "Spices", "Oil"},
				Recommendations: []string{"Increase inventory by 40%", "Stock festival items", "Prepare promotional offers"},
			},
			{
				Season:          "Winter Season",
				Period:          "December - February",
				RevenueImpact:   18,
				TopProducts:     []string{"Hot beverages", "Dry fruits", "Warm clothing"},
				Recommendations: []string{"Focus on warm food items", "Offer seasonal discounts"},
			},
			{
				Season:          "Summer Season",
				Period:          "March - May",
				RevenueImpact:   -8,
				TopProducts:     []string{"Cold drinks", "Fruits", "Light snacks"},
				Recommendations: []string{"Reduce heavy food inventory", "Promote cold beverages"},
			},
		},
		UpcomingSeasons:  []string{"Festival Season", "Winter Season"},
		SubscriptionTier: models.TierFree,
	}
}

func (s *FallbackSupplier) Recommendations() *models.RecommendationsResponse {
	return &models.RecommendationsResponse{
		Recommendations: []models.Recommendation{
			{
				Type:        "inventory",
				Priority:    "high",
				Title:       "Stock Up for Festival Season",
				Description: "Increase inventory for high-demand products by 40% before major festivals",
				ImpactScore: 8.5,
				ActionItems: []string{
					"Order additional rice, dal, and spices",
					"Increase oil and ghee inventory",
					"Stock festival-specific items",
				},
			},
			{
				Type:        "pricing",
				Priority:    "medium",
				Title:       "Optimize Premium Product Pricing",
				Description: "Adjust pricing for premium products based on demand elasticity",
				ImpactScore: 6.8,
				ActionItems: []string{
					"Increase premium rice prices by 8%",
					"Bundle premium items with regular products",
					"Create value packages for families",
				},
			},
			{
				Type:        "marketing",
				Priority:    "medium",
				Title:       "Target Repeat Customers",
				Description: "Focus marketing efforts on high-value repeat customers",
				ImpactScore: 7.2,
				ActionItems: []string{
					"Create loyalty program for frequent buyers",
					"Send personalized offers via SMS",
					"Offer bulk purchase discounts",
				},
			},
		},
		AIConfidence:     0.78,
		GeneratedAt:      s.now().UTC().Format(time.RFC3339),
		SubscriptionTier: models.TierFree,
	}
}

func (s *FallbackSupplier) Categories() []models.CategoryAggregate {
	return []models.CategoryAggregate{
		{Name: "Food", Value: 220000, Percentage: 55},
		{Name: "Electronics", Value: 80000, Percentage: 20},
		{Name: "Beverage", Value: 45000, Percentage: 11},
		{Name: "Hygiene", Value: 30000, Percentage: 8},
		{Name: "Clothing", Value: 25000, Percentage: 6},
	}
}

func (s *FallbackSupplier) Stats() *models.DashboardStats {
	revenueGrowth := 12.5
	transactionGrowth := defaultGrowth
	return &models.DashboardStats{
		TotalRevenue:        338000,
		TotalTransactions:   178,
		TotalProducts:       25,
		AvgTransactionValue: 1899,
		RevenueGrowth:       &revenueGrowth,
		TransactionGrowth:   &transactionGrowth,
	}
}
