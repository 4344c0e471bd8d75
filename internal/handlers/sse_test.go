package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pasale-dashboard/internal/models"
	"pasale-dashboard/internal/services"
)

func TestNewSSEHandlers(t *testing.T) {
	deps := newTestDeps(t, fakeUpstream(t, nil), freeUser)
	logger := testLogger()

	h := NewSSEHandlers(deps, logger)
	if h == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if h.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestSSEHandlers_renderSummary(t *testing.T) {
	h := NewSSEHandlers(newTestDeps(t, fakeUpstream(t, nil), freeUser), testLogger())

	html, err := h.renderSummary(models.Summary{
		TotalRevenue:        338000,
		TotalTransactions:   1780,
		AvgTransactionValue: 1899.4,
		RevenueGrowth:       12.5,
	}, []string{"Authentication failed - please login again"})
	if err != nil {
		t.Fatalf("renderSummary() failed: %v", err)
	}

	for _, content := range []string{
		`<div id="revenue-summary"`,
		"NPR 338,000",
		"1,780",
		"NPR 1,899",
		"12.5%",
		`<p class="notice">Authentication failed - please login again</p>`,
	} {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q\n%s", content, html)
		}
	}
}

func TestSSEHandlers_renderRecommendations(t *testing.T) {
	h := NewSSEHandlers(newTestDeps(t, fakeUpstream(t, nil), freeUser), testLogger())

	html, err := h.renderRecommendations([]models.Recommendation{
		{Title: "Bundle <premium> rice", Description: "Pair with dal", Priority: "medium", ImpactScore: 6.8},
	})
	if err != nil {
		t.Fatalf("renderRecommendations() failed: %v", err)
	}
	for _, content := range []string{
		`<div id="recommendations-content">`,
		"priority-medium",
		"Bundle &lt;premium&gt; rice",
		"Impact 7",
	} {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}

	empty, err := h.renderRecommendations(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(empty, "No recommendations yet") {
		t.Error("empty list should render placeholder")
	}
}

func TestSSEHandlers_renderReports(t *testing.T) {
	h := NewSSEHandlers(newTestDeps(t, fakeUpstream(t, nil), freeUser), testLogger())

	html, err := h.renderReports([]models.GeneratedReport{
		{Title: "Daily Sales Summary - 8/20/2025", Type: "Sales", Status: models.StatusCompleted, Format: models.FormatCSV, DownloadToken: "abc"},
		{Title: "Seasonal Trends Analysis - 8/20/2025", Type: "Analytics", Status: models.StatusFailed, Format: models.FormatPNG, Error: "png export is not available"},
	})
	if err != nil {
		t.Fatalf("renderReports() failed: %v", err)
	}
	for _, content := range []string{
		`<table class="modern-table">`,
		`<a href="/api/downloads/abc">Download</a>`,
		"status-completed",
		"status-failed",
		"png export is not available",
	} {
		if !strings.Contains(html, content) {
			t.Errorf("expected HTML to contain %q", content)
		}
	}
	if rows := strings.Count(html, "<tr>") - 1; rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}
	if strings.Contains(html, `class="notice"`) {
		t.Error("rows without a notice should not render one")
	}
}

func TestSSEHandlers_renderReportsNotice(t *testing.T) {
	h := NewSSEHandlers(newTestDeps(t, fakeUpstream(t, nil), freeUser), testLogger())

	html, err := h.renderReports([]models.GeneratedReport{{
		Title:         "Weekly Performance Dashboard - 8/20/2025",
		Status:        models.StatusCompleted,
		Format:        models.FormatExcel,
		DownloadToken: "xyz",
		Notice:        "Excel format downloaded as CSV. For true Excel format, choose the xlsx export.",
	}})
	if err != nil {
		t.Fatalf("renderReports() failed: %v", err)
	}
	if !strings.Contains(html, `<p class="notice">Excel format downloaded as CSV.`) {
		t.Errorf("notice not rendered:\n%s", html)
	}
}

func TestSSEHandlers_HandleRevenue(t *testing.T) {
	h := NewSSEHandlers(newTestDeps(t, fakeUpstream(t, nil), freeUser), testLogger())

	w := httptest.NewRecorder()
	h.HandleRevenue(w, httptest.NewRequest(http.MethodGet, "/sse/revenue?range=7d", nil))

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", cc)
	}
	body := w.Body.String()
	for _, content := range []string{
		"revenueSeries",
		"categoryData",
		"revenue-summary",
		"NPR 4,000",
	} {
		if !strings.Contains(body, content) {
			t.Errorf("expected stream to contain %q\n%s", content, body)
		}
	}
}

func TestSSEHandlers_HandleRevenueSessionExpired(t *testing.T) {
	up := fakeUpstream(t, map[string]int{"/analytics/revenue": http.StatusUnauthorized})
	h := NewSSEHandlers(newTestDeps(t, up, freeUser), testLogger())

	w := httptest.NewRecorder()
	h.HandleRevenue(w, httptest.NewRequest(http.MethodGet, "/sse/revenue", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 before the stream opens", w.Code)
	}
}

func TestSSEHandlers_HandleAIAnalytics(t *testing.T) {
	h := NewSSEHandlers(newTestDeps(t, fakeUpstream(t, nil), freeUser), testLogger())

	w := httptest.NewRecorder()
	h.HandleAIAnalytics(w, httptest.NewRequest(http.MethodGet, "/sse/ai-analytics", nil))

	body := w.Body.String()
	for _, content := range []string{"forecastSeries", "demandPatterns", "recommendations-content", "Stock diyo lamps", "Impact 8"} {
		if !strings.Contains(body, content) {
			t.Errorf("expected stream to contain %q", content)
		}
	}
}

func TestSSEHandlers_HandleAIAnalyticsForbidden(t *testing.T) {
	h := NewSSEHandlers(newTestDeps(t, fakeUpstream(t, nil), nil), testLogger())

	w := httptest.NewRecorder()
	h.HandleAIAnalytics(w, httptest.NewRequest(http.MethodGet, "/sse/ai-analytics", nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestSSEHandlers_HandleReports(t *testing.T) {
	deps := newTestDeps(t, fakeUpstream(t, nil), freeUser)
	if _, err := deps.Reports.Generate(context.Background(), services.GenerateRequest{
		TemplateID: "daily-sales",
		Format:     models.FormatCSV,
		StartDate:  "2025-08-01",
		EndDate:    "2025-08-07",
	}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	h := NewSSEHandlers(deps, testLogger())

	w := httptest.NewRecorder()
	h.HandleReports(w, httptest.NewRequest(http.MethodGet, "/sse/reports", nil))

	body := w.Body.String()
	if !strings.Contains(body, "reports-content") || !strings.Contains(body, "Daily Sales Summary") {
		t.Errorf("stream missing reports table:\n%s", body)
	}
}
