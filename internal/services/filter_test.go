package services

import (
	"slices"
	"testing"

	"pasale-dashboard/internal/models"
)

func TestFilterProducts(t *testing.T) {
	records := []models.ProductRecord{
		{ProductName: "Rice", ProductType: "Food", TotalRevenue: 300, TotalQuantity: 10, TransactionCount: 2},
		{ProductName: "Tea", ProductType: "Beverage", TotalRevenue: 100, TotalQuantity: 30, TransactionCount: 9},
		{ProductName: "Soap", Category: "Hygiene", TotalRevenue: 200, TotalQuantity: 5, TransactionCount: 4},
		{ProductName: "Noodles", ProductType: "Food", TotalRevenue: 200, TotalQuantity: 20, TransactionCount: 4},
	}

	tests := []struct {
		name  string
		query ProductQuery
		want  []string
	}{
		{"default revenue order keeps ties stable", ProductQuery{}, []string{"Rice", "Soap", "Noodles", "Tea"}},
		{"by quantity", ProductQuery{Sort: SortByQuantity}, []string{"Tea", "Noodles", "Rice", "Soap"}},
		{"by sales", ProductQuery{Sort: SortBySales}, []string{"Tea", "Soap", "Noodles", "Rice"}},
		{"search name ignores case", ProductQuery{Search: "TEA"}, []string{"Tea"}},
		{"search matches category", ProductQuery{Search: "hyg"}, []string{"Soap"}},
		{"category", ProductQuery{Category: "food"}, []string{"Rice", "Noodles"}},
		{"category all", ProductQuery{Category: "all"}, []string{"Rice", "Soap", "Noodles", "Tea"}},
		{"category and search", ProductQuery{Category: "Food", Search: "nood"}, []string{"Noodles"}},
		{"no match", ProductQuery{Search: "ghee"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterProducts(records, tt.query)
			if err != nil {
				t.Fatalf("FilterProducts() error = %v", err)
			}
			names := make([]string, len(got))
			for i, p := range got {
				names[i] = p.ProductName
			}
			if !slices.Equal(names, tt.want) {
				t.Errorf("got %v, want %v", names, tt.want)
			}
		})
	}

	if _, err := FilterProducts(records, ProductQuery{Sort: "price"}); err == nil {
		t.Error("FilterProducts() with unknown sort should fail")
	}
}

func TestReportFilter_Match(t *testing.T) {
	r := models.GeneratedReport{
		Title:       "Daily Sales Summary - 8/20/2025",
		Description: "Revenue and transactions for the day",
		Type:        "Sales",
		Status:      models.StatusCompleted,
	}

	tests := []struct {
		name   string
		filter ReportFilter
		want   bool
	}{
		{"empty", ReportFilter{}, true},
		{"title search", ReportFilter{Search: "daily"}, true},
		{"description search", ReportFilter{Search: "TRANSACTIONS"}, true},
		{"search miss", ReportFilter{Search: "inventory"}, false},
		{"type", ReportFilter{Type: "sales"}, true},
		{"type all", ReportFilter{Type: "all"}, true},
		{"other type", ReportFilter{Type: "Inventory"}, false},
		{"status", ReportFilter{Status: models.StatusCompleted}, true},
		{"other status", ReportFilter{Status: models.StatusFailed}, false},
		{"combined", ReportFilter{Search: "summary", Type: "Sales", Status: "all"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(r); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}
