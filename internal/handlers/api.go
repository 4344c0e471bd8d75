package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pasale-dashboard/internal/errors"
	"pasale-dashboard/internal/models"
	"pasale-dashboard/internal/services"
	"pasale-dashboard/internal/session"
)

const (
	version          = "1.0.0"
	defaultTimeRange = "30d"
	maxForecastWeeks = 52
)

// Deps bundles what the handlers read from.
type Deps struct {
	Dashboard     *services.Dashboard
	Reports       *services.ReportService
	Auth          *services.AuthService
	Downloads     *services.DownloadStore
	Formatter     *services.Formatter
	Session       *session.AppState
	ForecastWeeks int
}

type APIHandlers struct {
	deps   Deps
	logger *slog.Logger
}

func NewAPIHandlers(deps Deps, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{deps: deps, logger: logger}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	user, err := h.deps.Auth.Login(r.Context(), in)
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	errors.WriteSuccess(w, h.sessionInfo(user))
}

func (h *APIHandlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	user, err := h.deps.Auth.Register(r.Context(), in)
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	errors.WriteSuccess(w, h.sessionInfo(user))
}

func (h *APIHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Auth.Logout(); err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	errors.WriteSuccess(w, map[string]bool{"authenticated": false})
}

type sessionInfo struct {
	Authenticated  bool                     `json:"authenticated"`
	User           *models.User             `json:"user,omitempty"`
	Capabilities   services.Capabilities    `json:"capabilities"`
	UpgradeOptions []services.UpgradeOption `json:"upgrade_options"`
}

func (h *APIHandlers) sessionInfo(user *models.User) sessionInfo {
	return sessionInfo{
		Authenticated:  h.deps.Session.Authenticated(),
		User:           user,
		Capabilities:   services.CapabilitiesFor(user),
		UpgradeOptions: services.UpgradeOptions(user),
	}
}

func (h *APIHandlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.sessionInfo(h.deps.Session.User()))
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Dashboard.Overview(r.Context())
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	errors.WriteSuccess(w, view)
}

func (h *APIHandlers) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Dashboard.Revenue(r.Context(), rangeParam(r))
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	errors.WriteSuccess(w, view)
}

func (h *APIHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	view, err := h.deps.Dashboard.Products(r.Context(), services.ProductQuery{
		Preset:   services.Preset(query.Get("preset")),
		Search:   query.Get("q"),
		Category: query.Get("category"),
		Sort:     services.ProductSort(query.Get("sort")),
	})
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	errors.WriteSuccess(w, view)
}

func (h *APIHandlers) HandleAIAnalytics(w http.ResponseWriter, r *http.Request) {
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
	errors.WriteSuccess(w, view)
}

func (h *APIHandlers) HandleReportTemplates(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.deps.Reports.Templates(), map[string]string{
		"Cache-Control": "public, max-age=300",
	})
}

func (h *APIHandlers) HandleReports(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.deps.Reports.Reports(reportFilterParam(r)))
}

func (h *APIHandlers) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req services.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	report, err := h.deps.Reports.Generate(r.Context(), req)
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	errors.WriteSuccess(w, report)
}

func (h *APIHandlers) HandleQuickGenerate(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Reports.QuickGenerate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	errors.WriteSuccess(w, report)
}

func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := models.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = models.FormatCSV
	}
	d, err := h.deps.Reports.QuickExport(r.Context(), format, rangeParam(r))
	if err != nil {
		writeFailure(w, r, h.logger, err)
		return
	}
	writeDownload(w, d)
}

// HandleDownload serves a stored file once.
func (h *APIHandlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	d, ok := h.deps.Downloads.Take(r.PathValue("token"))
	if !ok {
		writeFailure(w, r, h.logger, errors.NotFound("Download expired or not found"))
		return
	}
	writeDownload(w, d)
}

func requireFeature(deps Deps, f services.Feature) error {
	if !services.HasFeature(deps.Session.User(), f) {
		return errors.Forbidden("This feature is not included in your plan")
	}
	return nil
}

func rangeParam(r *http.Request) string {
	if v := r.URL.Query().Get("range"); v != "" {
		return v
	}
	return defaultTimeRange
}

// reportFilterParam reads the reports list filter from ?q=, ?type= and
// ?status=.
func reportFilterParam(r *http.Request) services.ReportFilter {
	query := r.URL.Query()
	return services.ReportFilter{
		Search: query.Get("q"),
		Type:   query.Get("type"),
		Status: models.ReportStatus(query.Get("status")),
	}
}

func weeksParam(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("weeks")
	if raw == "" {
		return fallback, nil
	}
	weeks, err := strconv.Atoi(raw)
	if err != nil || weeks < 1 || weeks > maxForecastWeeks {
		return 0, errors.Validation("weeks must be between 1 and 52")
	}
	return weeks, nil
}
