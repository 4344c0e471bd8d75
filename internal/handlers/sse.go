package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"pasale-dashboard/internal/models"
	"pasale-dashboard/internal/services"
)

var summaryTemplate = template.Must(template.New("summary").Parse(`
<div id="revenue-summary" class="metrics">
<div class="metric"><span class="label">Total Revenue</span><strong>{{.TotalRevenue}}</strong></div>
<div class="metric"><span class="label">Transactions</span><strong>{{.TotalTransactions}}</strong></div>
<div class="metric"><span class="label">Avg Transaction</span><strong>{{.AvgTransactionValue}}</strong></div>
<div class="metric"><span class="label">Revenue Growth</span><strong>{{.RevenueGrowth}}</strong></div>
{{range .Notices}}<p class="notice">{{.}}</p>{{end}}
</div>`))

var recommendationsTemplate = template.Must(template.New("recommendations").Parse(`
<div id="recommendations-content">
{{range .}}<div class="recommendation priority-{{.Priority}}">
<h4>{{.Title}}</h4>
<p>{{.Description}}</p>
<span class="impact">Impact {{printf "%.0f" .ImpactScore}}</span>
</div>{{else}}<p>No recommendations yet</p>{{end}}
</div>`))

var reportsTableTemplate = template.Must(template.New("reports").Parse(`
<div id="reports-content">
<table class="modern-table">
<thead><tr><th>Report</th><th>Type</th><th>Period</th><th>Format</th><th>Status</th><th></th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Title}}</td>
<td>{{.Type}}</td>
<td>{{.Period}}</td>
<td>{{.Format}}</td>
<td><span class="status-badge status-{{.Status}}">{{.Status}}</span></td>
<td>{{if .DownloadToken}}<a href="/api/downloads/{{.DownloadToken}}">Download</a>{{with .Notice}}<p class="notice">{{.}}</p>{{end}}{{else if .Error}}{{.Error}}{{end}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	deps   Deps
	logger *slog.Logger
}

func NewSSEHandlers(deps Deps, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{deps: deps, logger: logger}
}

type summaryCards struct {
	TotalRevenue        string
	TotalTransactions   string
	AvgTransactionValue string
	RevenueGrowth       string
	Notices             []string
}

func (h *SSEHandlers) renderSummary(s models.Summary, notices []string) (string, error) {
	f := h.deps.Formatter
	var buf strings.Builder
	err := summaryTemplate.Execute(&buf, summaryCards{
		TotalRevenue:        f.Currency(s.TotalRevenue),
		TotalTransactions:   f.Number(float64(s.TotalTransactions)),
		AvgTransactionValue: f.Currency(s.AvgTransactionValue),
		RevenueGrowth:       f.Percentage(s.RevenueGrowth),
		Notices:             notices,
	})
	return buf.String(), err
}

func (h *SSEHandlers) renderRecommendations(recs []models.Recommendation) (string, error) {
	var buf strings.Builder
	err := recommendationsTemplate.Execute(&buf, recs)
	return buf.String(), err
}

func (h *SSEHandlers) renderReports(reports []models.GeneratedReport) (string, error) {
	var buf strings.Builder
	err := reportsTableTemplate.Execute(&buf, reports)
	return buf.String(), err
}

// patchSignals marshals signals and sends them as one patch.
func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) bool {
	raw, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal signals", "error", err)
		return false
	}
	if err := sse.PatchSignals(raw); err != nil {
		h.logger.Warn("patch signals", "error", err)
		return false
	}
	return true
}

func (h *SSEHandlers) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Dashboard.Revenue(r.Context(), rangeParam(r))
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}

	sse := datastar.NewSSE(w, r)

	if !h.patchSignals(sse, map[string]any{
		"revenueSeries": view.Series,
		"categoryData":  view.Categories,
		"fallbacks":     view.Fallbacks,
	}) {
		return
	}

	html, err := h.renderSummary(view.Summary, view.Notices)
	if err != nil {
		h.logger.Error("render revenue summary", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch revenue summary", "error", err)
	}
}

func (h *SSEHandlers) HandleAIAnalytics(w http.ResponseWriter, r *http.Request) {
	if err := requireFeature(h.deps, services.FeatureAI); err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	weeks, err := weeksParam(r, h.deps.ForecastWeeks)
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	view, err := h.deps.Dashboard.AIAnalytics(r.Context(), weeks)
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}

	sse := datastar.NewSSE(w, r)

	if !h.patchSignals(sse, map[string]any{
		"forecastSeries": view.ForecastSeries,
		"demandPatterns": view.DemandPatterns,
		"notices":        view.Notices,
	}) {
		return
	}

	html, err := h.renderRecommendations(view.Recommendations.Recommendations)
	if err != nil {
		h.logger.Error("render recommendations", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch recommendations", "error", err)
	}
}

func (h *SSEHandlers) HandleReports(w http.ResponseWriter, r *http.Request) {
	html, err := h.renderReports(h.deps.Reports.Reports(reportFilterParam(r)))
	if err != nil {
		h.logger.Error("render reports table", "error", err)
		writeFailure(w, r, h.logger, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch reports table", "error", err)
	}
}
