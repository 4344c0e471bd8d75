package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"pasale-dashboard/internal/client"
	"pasale-dashboard/internal/forms"
	"pasale-dashboard/internal/models"
	"pasale-dashboard/internal/services"
	"pasale-dashboard/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeUpstream serves canned analytics responses. Paths listed in status
// answer with that status code instead.
func fakeUpstream(t *testing.T, status map[string]int) http.HandlerFunc {
	t.Helper()
	growth := 10.0
	bodies := map[string]any{
		"/analytics/revenue": models.RevenueResponse{Data: []models.RevenuePoint{
			{Date: "2025-08-18", Revenue: 1000, TransactionsCount: 4, AvgTransactionValue: 250},
			{Date: "2025-08-19", Revenue: 3000, TransactionsCount: 6, AvgTransactionValue: 500},
		}},
		"/analytics/products": models.ProductsResponse{Data: []models.ProductRecord{
			{ProductID: 1, ProductName: "Rice", ProductType: "Food", TotalRevenue: 3000, TotalQuantity: 30},
			{ProductID: 2, ProductName: "Tea", ProductType: "Beverage", TotalRevenue: 1000, TotalQuantity: 50},
		}},
		"/analytics/dashboard-stats": models.DashboardStats{TotalRevenue: 4000, TotalTransactions: 10, AvgTransactionValue: 400, RevenueGrowth: &growth},
		"/analytics/forecast": models.ForecastResponse{Forecasts: []models.ForecastPoint{
			{Date: "2025-08-25", PredictedRevenue: 50000, ConfidenceLower: 40000, ConfidenceUpper: 60000, Trend: 1},
		}},
		"/analytics/seasonal": models.SeasonalResponse{Insights: []models.SeasonalInsight{
			{Season: "Tihar", Period: "November", RevenueImpact: 20},
		}},
		"/analytics/recommendations": models.RecommendationsResponse{Recommendations: []models.Recommendation{
			{Title: "Stock diyo lamps", Description: "Tihar is close", Priority: "high", ImpactScore: 7.6},
		}},
		"/business/login": models.TokenResponse{AccessToken: "fresh", OwnerID: 5, Email: "owner@pasale.np", Name: "Maya", SubscriptionTier: models.TierFree},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if code, ok := status[r.URL.Path]; ok {
			w.WriteHeader(code)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

// newTestDeps wires the services against upstream. A non-nil user starts
// signed in.
func newTestDeps(t *testing.T, upstream http.Handler, user *models.User) Deps {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	logger := testLogger()
	state := session.NewAppState(session.NewFileStore(filepath.Join(t.TempDir(), "session.json")))
	if user != nil {
		if err := state.SignIn("tok", user); err != nil {
			t.Fatalf("SignIn() error = %v", err)
		}
	}

	formatter, err := services.NewFormatter("en", "NPR")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}
	api := client.New(srv.URL, 5*time.Second, state, logger)
	dashboard := services.NewDashboard(api, services.NewFallbackSupplier(), logger)
	downloads := services.NewDownloadStore(time.Minute)

	return Deps{
		Dashboard:     dashboard,
		Reports:       services.NewReportService(dashboard, services.NewExporter(formatter, logger), downloads, logger),
		Auth:          services.NewAuthService(api, state, forms.New(), logger),
		Downloads:     downloads,
		Formatter:     formatter,
		Session:       state,
		ForecastWeeks: 12,
	}
}

var freeUser = &models.User{OwnerID: 5, Email: "owner@pasale.np", Name: "Maya", SubscriptionTier: models.TierFree}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, w.Body.String())
	}
	return env
}
