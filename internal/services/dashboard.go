package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"pasale-dashboard/internal/client"
	"pasale-dashboard/internal/models"
)

const (
	topProductsLimit = 5
	authNotice       = "Authentication failed - please login again"
)

// AnalyticsAPI is the subset of the upstream API the dashboard reads.
type AnalyticsAPI interface {
	Revenue(ctx context.Context, f models.DateFilter) (*models.RevenueResponse, error)
	Products(ctx context.Context, f models.DateFilter, categories ...string) (*models.ProductsResponse, error)
	Forecast(ctx context.Context, weeks int) (*models.ForecastResponse, error)
	Seasonal(ctx context.Context) (*models.SeasonalResponse, error)
	Recommendations(ctx context.Context) (*models.RecommendationsResponse, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type Dashboard struct {
	api      AnalyticsAPI
	fallback *FallbackSupplier
	logger   *slog.Logger
	now      func() time.Time
}

func NewDashboard(api AnalyticsAPI, fallback *FallbackSupplier, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		api:      api,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// settled holds one fetch outcome of an all-settled join.
type settled[T any] struct {
	value T
	err   error
}

// settle runs fetch on g and records its outcome in dst. The task never
// fails the group, so one failing fetch leaves the others running.
func settle[T any](ctx context.Context, g *errgroup.Group, dst *settled[T], fetch func(context.Context) (T, error)) {
	g.Go(func() error {
		v, err := fetch(ctx)
		*dst = settled[T]{value: v, err: err}
		return nil
	})
}

// outcome tracks which sources fell back and what the user should be told.
type outcome struct {
	Fallbacks []FallbackKind `json:"fallbacks,omitempty"`
	Notices   []string       `json:"notices,omitempty"`
}

// failed logs a fetch failure and records the substitution. It reports
// whether the failure is a dead session, which callers surface instead.
func (d *Dashboard) failed(o *outcome, source string, kind FallbackKind, err error) bool {
	if errors.Is(err, client.ErrSessionInvalid) {
		return true
	}
	d.logger.Warn("fetch failed, using fallback data", "source", source, "error", err)
	if kind != "" {
		o.Fallbacks = append(o.Fallbacks, kind)
	}
	if errors.Is(err, client.ErrAuthenticationFailed) && !slices.Contains(o.Notices, authNotice) {
		o.Notices = append(o.Notices, authNotice)
	}
	return false
}

type RevenueView struct {
	Filter     models.DateFilter          `json:"filter"`
	Summary    models.Summary             `json:"summary"`
	Series     []models.RevenueChartPoint `json:"series"`
	Categories []models.CategoryAggregate `json:"categories"`
	Revenue    []models.RevenuePoint      `json:"revenue"`
	Products   []models.ProductRecord     `json:"products"`
	Stats      *models.DashboardStats     `json:"stats"`
	outcome
}

// Revenue loads the revenue page for a range selector code ("7d", "30d",
// "90d", "1y"). Revenue and the category breakdown share the selected range.
func (d *Dashboard) Revenue(ctx context.Context, timeRange string) (*RevenueView, error) {
	filter := ResolveTimeRange(timeRange, d.now())
	return d.revenueView(ctx, filter, filter)
}

// Overview loads the landing page: the last week of revenue against the
// last month of products.
func (d *Dashboard) Overview(ctx context.Context) (*RevenueView, error) {
	week, _ := Resolve(PresetLast7Days, d.now())
	month, _ := Resolve(PresetLast30Days, d.now())
	return d.revenueView(ctx, week, month)
}

func (d *Dashboard) revenueView(ctx context.Context, revenueRange, productRange models.DateFilter) (*RevenueView, error) {
	var (
		g        errgroup.Group
		revenue  settled[*models.RevenueResponse]
		products settled[*models.ProductsResponse]
		stats    settled[*models.DashboardStats]
	)
	settle(ctx, &g, &revenue, func(ctx context.Context) (*models.RevenueResponse, error) {
		return d.api.Revenue(ctx, revenueRange)
	})
	settle(ctx, &g, &products, func(ctx context.Context) (*models.ProductsResponse, error) {
		return d.api.Products(ctx, productRange)
	})
	settle(ctx, &g, &stats, d.api.DashboardStats)
	_ = g.Wait()

	v := &RevenueView{Filter: revenueRange}

	if revenue.err != nil {
		if d.failed(&v.outcome, "revenue", FallbackRevenue, revenue.err) {
			return nil, revenue.err
		}
		v.Revenue = d.fallback.Revenue()
	} else {
		v.Revenue = revenue.value.Data
	}

	if products.err != nil {
		if d.failed(&v.outcome, "products", FallbackCategory, products.err) {
			return nil, products.err
		}
	} else {
		v.Products = products.value.Data
	}
	if len(v.Products) > 0 {
		v.Categories = GroupByCategory(v.Products, FieldRevenue)
	} else {
		if products.err == nil {
			v.Fallbacks = append(v.Fallbacks, FallbackCategory)
		}
		v.Categories = d.fallback.Categories()
	}

	if stats.err != nil {
		if d.failed(&v.outcome, "dashboard-stats", FallbackStats, stats.err) {
			return nil, stats.err
		}
		v.Stats = d.fallback.Stats()
	} else {
		v.Stats = stats.value
	}

	if v.Revenue == nil {
		v.Revenue = []models.RevenuePoint{}
	}
	v.Series = BuildRevenueSeries(v.Revenue, LabelsForPeriod(revenueRange.Period))
	v.Summary = Summarize(v.Revenue, v.Stats)
	return v, nil
}

type ProductsView struct {
	Filter             models.DateFilter          `json:"filter"`
	Products           []models.ProductRecord     `json:"products"`
	Categories         []string                   `json:"categories"`
	TopProducts        []models.ProductRecord     `json:"top_products"`
	RevenueByCategory  []models.CategoryAggregate `json:"revenue_by_category"`
	QuantityByCategory []models.CategoryAggregate `json:"quantity_by_category"`
	outcome
}

// Products loads the products page. Totals, category breakdowns and the top
// list cover every product in the range; only the listing follows the
// search, category and sort of q.
func (d *Dashboard) Products(ctx context.Context, q ProductQuery) (*ProductsView, error) {
	if q.Preset == "" {
		q.Preset = PresetLast30Days
	}
	filter, err := Resolve(q.Preset, d.now())
	if err != nil {
		return nil, err
	}
	if _, err := q.field(); err != nil {
		return nil, err
	}

	v := &ProductsView{Filter: filter, Products: []models.ProductRecord{}, Categories: []string{}}
	var all []models.ProductRecord
	resp, err := d.api.Products(ctx, filter)
	if err != nil {
		if d.failed(&v.outcome, "products", FallbackCategory, err) {
			return nil, err
		}
	} else {
		all = resp.Data
	}

	if len(all) == 0 {
		v.RevenueByCategory = d.fallback.Categories()
		v.QuantityByCategory = []models.CategoryAggregate{}
		v.TopProducts = []models.ProductRecord{}
		return v, nil
	}

	v.RevenueByCategory = GroupByCategory(all, FieldRevenue)
	v.QuantityByCategory = GroupByCategory(all, FieldQuantity)
	for _, c := range v.RevenueByCategory {
		v.Categories = append(v.Categories, c.Name)
	}

	top, _ := FilterProducts(all, ProductQuery{})
	v.TopProducts = top[:min(len(top), topProductsLimit)]

	if v.Products, err = FilterProducts(all, q); err != nil {
		return nil, err
	}
	return v, nil
}

type AIView struct {
	Forecast        *models.ForecastResponse        `json:"forecast"`
	ForecastSeries  []models.ForecastChartPoint     `json:"forecast_series"`
	Seasonal        *models.SeasonalResponse        `json:"seasonal"`
	DemandPatterns  []models.DemandPattern          `json:"demand_patterns"`
	Recommendations *models.RecommendationsResponse `json:"recommendations"`
	outcome
}

// AIAnalytics loads forecast, seasonal and recommendation data
// concurrently. Each failed source is replaced by fallback data on its own.
func (d *Dashboard) AIAnalytics(ctx context.Context, weeks int) (*AIView, error) {
	var (
		g        errgroup.Group
		forecast settled[*models.ForecastResponse]
		seasonal settled[*models.SeasonalResponse]
		recs     settled[*models.RecommendationsResponse]
	)
	settle(ctx, &g, &forecast, func(ctx context.Context) (*models.ForecastResponse, error) {
		return d.api.Forecast(ctx, weeks)
	})
	settle(ctx, &g, &seasonal, d.api.Seasonal)
	settle(ctx, &g, &recs, d.api.Recommendations)
	_ = g.Wait()

	v := &AIView{}

	if forecast.err != nil {
		if d.failed(&v.outcome, "forecast", FallbackForecast, forecast.err) {
			return nil, forecast.err
		}
		v.Forecast = d.fallback.Forecast()
	} else {
		v.Forecast = forecast.value
	}

	if seasonal.err != nil {
		if d.failed(&v.outcome, "seasonal", FallbackSeasonal, seasonal.err) {
			return nil, seasonal.err
		}
		v.Seasonal = d.fallback.Seasonal()
	} else {
		v.Seasonal = seasonal.value
	}

	if recs.err != nil {
		if d.failed(&v.outcome, "recommendations", FallbackRecommendations, recs.err) {
			return nil, recs.err
		}
		v.Recommendations = d.fallback.Recommendations()
	} else {
		v.Recommendations = recs.value
	}

	v.ForecastSeries = BuildForecastSeries(v.Forecast.Forecasts, WeekLabels)
	v.DemandPatterns = BuildDemandPatterns(v.Seasonal.Insights)
	return v, nil
}

// ReportData gathers the payload a report is exported from. Unlike the
// page loaders it needs every source; the first failure cancels the rest.
func (d *Dashboard) ReportData(ctx context.Context, start, end string) (*models.ReportPayload, error) {
	daily := models.DateFilter{StartDate: start, EndDate: end, Period: models.PeriodDaily}

	var (
		revenue  *models.RevenueResponse
		products *models.ProductsResponse
		stats    *models.DashboardStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		revenue, err = d.api.Revenue(gctx, daily)
		return err
	})
	g.Go(func() (err error) {
		products, err = d.api.Products(gctx, daily)
		return err
	})
	g.Go(func() (err error) {
		stats, err = d.api.DashboardStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch report data: %w", err)
	}

	p := &models.ReportPayload{
		Stats:    stats,
		Revenue:  revenue.Data,
		Products: products.Data,
	}
	if p.Revenue == nil {
		p.Revenue = []models.RevenuePoint{}
	}
	if p.Products == nil {
		p.Products = []models.ProductRecord{}
	}
	return p, nil
}
