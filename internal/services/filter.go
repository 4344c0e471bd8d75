package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"pasale-dashboard/internal/errors"
	"pasale-dashboard/internal/models"
)

// matchAll is the selector value meaning "no filter".
const matchAll = "all"

type ProductSort string

const (
	SortByRevenue  ProductSort = "revenue"
	SortByQuantity ProductSort = "quantity"
	SortBySales    ProductSort = "sales"
)

var productSortFields = map[ProductSort]ValueField{
	SortByRevenue:  FieldRevenue,
	SortByQuantity: FieldQuantity,
	SortBySales:    FieldTransactions,
}

// ProductQuery selects and orders the products listing. Empty fields match
// everything and an empty Sort orders by revenue.
type ProductQuery struct {
	Preset   Preset
	Search   string
	Category string
	Sort     ProductSort
}

func (q ProductQuery) field() (ValueField, error) {
	if q.Sort == "" {
		return FieldRevenue, nil
	}
	f, ok := productSortFields[q.Sort]
	if !ok {
		return 0, errors.Validation(fmt.Sprintf("unknown product sort %q", q.Sort))
	}
	return f, nil
}

func (q ProductQuery) matches(p models.ProductRecord) bool {
	category := CategoryKey(p)
	if q.Category != "" && q.Category != matchAll && !strings.EqualFold(category, q.Category) {
		return false
	}
	return containsFold(p.ProductName, q.Search) || containsFold(category, q.Search)
}

// FilterProducts returns the records matching q, largest first by the sort
// field. Ties keep input order.
func FilterProducts(records []models.ProductRecord, q ProductQuery) ([]models.ProductRecord, error) {
	field, err := q.field()
	if err != nil {
		return nil, err
	}
	out := make([]models.ProductRecord, 0, len(records))
	for _, p := range records {
		if q.matches(p) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.ProductRecord) int {
		return cmp.Compare(field.of(b), field.of(a))
	})
	return out, nil
}

// ReportFilter narrows the generated reports list. Search looks at title and
// description; Type and Status must match exactly, ignoring case.
type ReportFilter struct {
	Search string
	Type   string
	Status models.ReportStatus
}

func (f ReportFilter) Match(r models.GeneratedReport) bool {
	if f.Type != "" && f.Type != matchAll && !strings.EqualFold(r.Type, f.Type) {
		return false
	}
	if f.Status != "" && f.Status != matchAll && !strings.EqualFold(string(r.Status), string(f.Status)) {
		return false
	}
	return containsFold(r.Title, f.Search) || containsFold(r.Description, f.Search)
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}
