package services

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pasale-dashboard/internal/models"
)

func TestGroupByCategory_Scenario(t *testing.T) {
	records := []models.ProductRecord{
		{Category: "Food", TotalRevenue: 220000},
		{Category: "Electronics", TotalRevenue: 80000},
		{TotalRevenue: 0},
	}

	got := GroupByCategory(records, FieldRevenue)
	want := []models.CategoryAggregate{
		{Name: "Food", Value: 220000, Percentage: 73},
		{Name: "Electronics", Value: 80000, Percentage: 27},
		{Name: "Unknown", Value: 0, Percentage: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupByCategory() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByCategory_PercentagesSumTo100(t *testing.T) {
	tests := []struct {
		name    string
		records []models.ProductRecord
	}{
		{
			name: "thirds",
			records: []models.ProductRecord{
				{ProductType: "A", TotalRevenue: 1},
				{ProductType: "B", TotalRevenue: 1},
				{ProductType: "C", TotalRevenue: 1},
			},
		},
		{
			name: "merged keys",
			records: []models.ProductRecord{
				{ProductType: "Food", TotalRevenue: 100.5},
				{Category: "Food", TotalRevenue: 99.5},
				{ProductType: "Drinks", TotalRevenue: 37},
				{ProductType: "Soap", TotalRevenue: 12.25},
			},
		},
		{
			name: "single",
			records: []models.ProductRecord{
				{ProductType: "Only", TotalRevenue: 42},
			},
		},
		{
			name: "many small groups",
			records: []models.ProductRecord{
				{ProductType: "a", TotalRevenue: 7}, {ProductType: "b", TotalRevenue: 7},
				{ProductType: "c", TotalRevenue: 7}, {ProductType: "d", TotalRevenue: 7},
				{ProductType: "e", TotalRevenue: 7}, {ProductType: "f", TotalRevenue: 7},
				{ProductType: "g", TotalRevenue: 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupByCategory(tt.records, FieldRevenue)
			sum := 0
			for _, g := range got {
				sum += g.Percentage
			}
			if diff := math.Abs(float64(sum - 100)); diff > float64(len(got)) {
				t.Errorf("percentages sum to %d, want 100 ± %d", sum, len(got))
			}
		})
	}
}

func TestGroupByCategory_ZeroTotal(t *testing.T) {
	records := []models.ProductRecord{
		{ProductType: "A"},
		{ProductType: "B"},
	}
	got := GroupByCategory(records, FieldRevenue)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, g := range got {
		if g.Percentage != 0 {
			t.Errorf("%s percentage = %d, want 0", g.Name, g.Percentage)
		}
	}
	if got[0].Name != "A" || got[1].Name != "B" {
		t.Errorf("equal values should keep encounter order, got %s, %s", got[0].Name, got[1].Name)
	}
}

func TestGroupByCategory_Empty(t *testing.T) {
	got := GroupByCategory(nil, FieldRevenue)
	if got == nil || len(got) != 0 {
		t.Errorf("GroupByCategory(nil) = %#v, want empty slice", got)
	}
}

func TestGroupByCategory_Fields(t *testing.T) {
	records := []models.ProductRecord{
		{ProductType: "Food", TotalRevenue: 10, TotalQuantity: 3, TransactionCount: 9},
		{ProductType: "Drinks", TotalRevenue: 30, TotalQuantity: 1, TransactionCount: 1},
	}

	tests := []struct {
		field ValueField
		first string
		value float64
	}{
		{FieldRevenue, "Drinks", 30},
		{FieldQuantity, "Food", 3},
		{FieldTransactions, "Food", 9},
	}
	for _, tt := range tests {
		got := GroupByCategory(records, tt.field)
		if got[0].Name != tt.first || got[0].Value != tt.value {
			t.Errorf("field %d: first = %+v, want %s/%v", tt.field, got[0], tt.first, tt.value)
		}
	}
}

func TestCategoryKey(t *testing.T) {
	tests := []struct {
		name string
		p    models.ProductRecord
		want string
	}{
		{"product type wins", models.ProductRecord{ProductType: "Food", Category: "Snacks"}, "Food"},
		{"category", models.ProductRecord{Category: "Snacks"}, "Snacks"},
		{"unknown", models.ProductRecord{}, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryKey(tt.p); got != tt.want {
				t.Errorf("CategoryKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	growth := 4.2

	t.Run("from series", func(t *testing.T) {
		revenue := []models.RevenuePoint{
			{Revenue: 100, TransactionsCount: 2},
			{Revenue: 300, TransactionsCount: 2},
		}
		got := Summarize(revenue, nil)
		want := models.Summary{
			TotalRevenue:        400,
			TotalTransactions:   4,
			AvgTransactionValue: 100,
			RevenueGrowth:       defaultGrowth,
			TransactionGrowth:   defaultGrowth,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stats win", func(t *testing.T) {
		stats := &models.DashboardStats{
			TotalRevenue:        338000,
			TotalTransactions:   178,
			AvgTransactionValue: 1899,
			RevenueGrowth:       &growth,
		}
		got := Summarize([]models.RevenuePoint{{Revenue: 1, TransactionsCount: 1}}, stats)
		if got.TotalRevenue != 338000 || got.TotalTransactions != 178 || got.AvgTransactionValue != 1899 {
			t.Errorf("Summarize() = %+v, want stats values", got)
		}
		if got.RevenueGrowth != growth {
			t.Errorf("RevenueGrowth = %v, want %v", got.RevenueGrowth, growth)
		}
	})

	t.Run("no transactions", func(t *testing.T) {
		got := Summarize(nil, nil)
		if got.AvgTransactionValue != 0 {
			t.Errorf("AvgTransactionValue = %v, want 0", got.AvgTransactionValue)
		}
	})

	t.Run("week over week", func(t *testing.T) {
		revenue := make([]models.RevenuePoint, 14)
		for i := range revenue {
			revenue[i].Revenue = 100
			if i >= 7 {
				revenue[i].Revenue = 150
			}
		}
		got := Summarize(revenue, nil)
		if got.RevenueGrowth != 50 {
			t.Errorf("RevenueGrowth = %v, want 50", got.RevenueGrowth)
		}
	})
}
