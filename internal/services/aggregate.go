package services

import (
	"slices"

	"pasale-dashboard/internal/models"
)

const unknownCategory = "Unknown"

// ValueField selects which product metric is summed per category.
type ValueField int

const (
	FieldRevenue ValueField = iota
	FieldQuantity
	FieldTransactions
)

func (f ValueField) of(p models.ProductRecord) float64 {
	switch f {
	case FieldQuantity:
		return p.TotalQuantity
	case FieldTransactions:
		return float64(p.TransactionCount)
	default:
		return p.TotalRevenue
	}
}

// CategoryKey is the grouping key for a product: product type, then
// category, then "Unknown".
func CategoryKey(p models.ProductRecord) string {
	if p.ProductType != "" {
		return p.ProductType
	}
	if p.Category != "" {
		return p.Category
	}
	return unknownCategory
}

// GroupByCategory sums field per category and returns the groups sorted by
// value, largest first. Equal values keep first-seen order.
func GroupByCategory(records []models.ProductRecord, field ValueField) []models.CategoryAggregate {
	result := make([]models.CategoryAggregate, 0)
	index := make(map[string]int)
	total := 0.0

	for _, p := range records {
		key := CategoryKey(p)
		v := field.of(p)
		i, ok := index[key]
		if !ok {
			i = len(result)
			index[key] = i
			result = append(result, models.CategoryAggregate{Name: key})
		}
		result[i].Value += v
		total += v
	}

	for i := range result {
		result[i].Percentage = percentOf(result[i].Value, total)
	}

	slices.SortStableFunc(result, func(a, b models.CategoryAggregate) int {
		if a.Value > b.Value {
			return -1
		}
		if a.Value < b.Value {
			return 1
		}
		return 0
	})
	return result
}

func percentOf(value, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(roundHalfUp(100 * value / total))
}

const defaultGrowth = 8.3

// Summarize derives the headline metrics. Upstream stats win where present;
// otherwise the values are computed from the revenue series.
func Summarize(revenue []models.RevenuePoint, stats *models.DashboardStats) models.Summary {
	var s models.Summary

	for _, p := range revenue {
		s.TotalRevenue += p.Revenue
		s.TotalTransactions += p.TransactionsCount
	}
	if stats != nil && stats.TotalRevenue != 0 {
		s.TotalRevenue = stats.TotalRevenue
	}
	if stats != nil && stats.TotalTransactions != 0 {
		s.TotalTransactions = stats.TotalTransactions
	}

	switch {
	case stats != nil && stats.AvgTransactionValue != 0:
		s.AvgTransactionValue = stats.AvgTransactionValue
	case s.TotalTransactions > 0:
		s.AvgTransactionValue = s.TotalRevenue / float64(s.TotalTransactions)
	}

	if stats != nil && stats.RevenueGrowth != nil {
		s.RevenueGrowth = *stats.RevenueGrowth
	} else {
		s.RevenueGrowth = weekOverWeekGrowth(revenue)
	}

	s.TransactionGrowth = defaultGrowth
	if stats != nil && stats.TransactionGrowth != nil {
		s.TransactionGrowth = *stats.TransactionGrowth
	}
	return s
}

// weekOverWeekGrowth compares the last seven points with the seven before.
func weekOverWeekGrowth(revenue []models.RevenuePoint) float64 {
	n := len(revenue)
	if n < 14 {
		return defaultGrowth
	}
	var recent, previous float64
	for _, p := range revenue[n-7:] {
		recent += p.Revenue
	}
	for _, p := range revenue[n-14 : n-7] {
		previous += p.Revenue
	}
	if previous <= 0 {
		return defaultGrowth
	}
	return (recent - previous) / previous * 100
}
