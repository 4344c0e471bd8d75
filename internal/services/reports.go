package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pasale-dashboard/internal/errors"
	"pasale-dashboard/internal/models"
)

const quickRangeDays = 30

var reportTemplates = []models.ReportTemplate{
	{
		ID:            "daily-sales",
		Name:          "Daily Sales Summary",
		Description:   "Comprehensive daily sales performance with product breakdown",
		Category:      "sales",
		Frequency:     "daily",
		EstimatedTime: "2-3 minutes",
		Formats:       []models.ExportFormat{models.FormatPDF, models.FormatExcel, models.FormatCSV},
		Includes:      []string{"Sales totals", "Top products", "Transaction count", "Revenue trends", "Customer metrics"},
	},
	{
		ID:            "weekly-performance",
		Name:          "Weekly Performance Dashboard",
		Description:   "Complete weekly business metrics and trend analysis",
		Category:      "analytics",
		Frequency:     "weekly",
		EstimatedTime: "5-7 minutes",
		Formats:       []models.ExportFormat{models.FormatPDF, models.FormatExcel, models.FormatPNG},
		Includes:      []string{"Revenue trends", "Inventory status", "Customer metrics", "Growth analysis", "Charts & graphs"},
	},
	{
		ID:            "monthly-detailed",
		Name:          "Monthly Business Review",
		Description:   "In-depth monthly analysis with AI insights and forecasts",
		Category:      "analytics",
		Frequency:     "monthly",
		EstimatedTime: "10-15 minutes",
		Formats:       []models.ExportFormat{models.FormatPDF, models.FormatExcel, models.FormatJSON},
		Includes:      []string{"Full analytics", "AI forecasts", "Recommendations", "Competitive analysis", "Strategic insights"},
	},
	{
		ID:            "inventory-analysis",
		Name:          "Inventory Management Report",
		Description:   "Stock levels, turnover rates, and reorder recommendations",
		Category:      "inventory",
		Frequency:     "weekly",
		EstimatedTime: "5 minutes",
		Formats:       []models.ExportFormat{models.FormatExcel, models.FormatCSV, models.FormatPDF},
		Includes:      []string{"Stock levels", "Turnover analysis", "Reorder points", "Dead stock alerts", "ABC analysis"},
	},
	{
		ID:            "customer-insights",
		Name:          "Customer Analytics Report",
		Description:   "Customer behavior analysis, segmentation, and retention metrics",
		Category:      "customer",
		Frequency:     "monthly",
		EstimatedTime: "8-10 minutes",
		Formats:       []models.ExportFormat{models.FormatPDF, models.FormatExcel, models.FormatPNG},
		Includes:      []string{"Customer segments", "Retention analysis", "Purchase patterns", "LTV calculations", "Churn analysis"},
	},
	{
		ID:            "financial-summary",
		Name:          "Financial Performance Report",
		Description:   "Revenue, costs, margins, and profitability analysis with forecasts",
		Category:      "financial",
		Frequency:     "monthly",
		EstimatedTime: "12-15 minutes",
		Formats:       []models.ExportFormat{models.FormatPDF, models.FormatExcel, models.FormatJSON},
		Includes:      []string{"P&L analysis", "Cash flow", "Margin analysis", "Budget vs actual", "Financial forecasts"},
	},
	{
		ID:            "seasonal-trends",
		Name:          "Seasonal Trends Analysis",
		Description:   "Seasonal patterns, festival impact, and trend predictions",
		Category:      "analytics",
		Frequency:     "quarterly",
		EstimatedTime: "15-20 minutes",
		Formats:       []models.ExportFormat{models.FormatPDF, models.FormatPNG, models.FormatJSON},
		Includes:      []string{"Seasonal patterns", "Festival impact", "Trend predictions", "Year-over-year comparison", "Market insights"},
	},
	{
		ID:            "custom-analytics",
		Name:          "Custom Analytics Report",
		Description:   "Build your own report with selected metrics and timeframes",
		Category:      "custom",
		Frequency:     "custom",
		EstimatedTime: "5-30 minutes",
		Formats:       []models.ExportFormat{models.FormatPDF, models.FormatExcel, models.FormatCSV, models.FormatJSON, models.FormatPNG},
		Includes:      []string{"Custom metrics", "Flexible date ranges", "Chart customization", "Data export", "API integration"},
	},
}

// ReportSource supplies the data a report is built from.
type ReportSource interface {
	ReportData(ctx context.Context, start, end string) (*models.ReportPayload, error)
}

type GenerateRequest struct {
	TemplateID string              `json:"template_id"`
	Format     models.ExportFormat `json:"format"`
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
}

// ReportService keeps the generated-report list for the session. Reports
// are appended and never removed.
type ReportService struct {
	source    ReportSource
	exporter  *Exporter
	downloads *DownloadStore
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	reports []*models.GeneratedReport
}

func NewReportService(source ReportSource, exporter *Exporter, downloads *DownloadStore, logger *slog.Logger) *ReportService {
	return &ReportService{
		source:    source,
		exporter:  exporter,
		downloads: downloads,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ReportService) Templates() []models.ReportTemplate {
	return slices.Clone(reportTemplates)
}

func (s *ReportService) Template(id string) (models.ReportTemplate, bool) {
	i := slices.IndexFunc(reportTemplates, func(t models.ReportTemplate) bool { return t.ID == id })
	if i < 0 {
		return models.ReportTemplate{}, false
	}
	return reportTemplates[i], true
}

// offers reports whether t can be exported as f. A true spreadsheet is
// available wherever the template offers Excel.
func offers(t models.ReportTemplate, f models.ExportFormat) bool {
	if f == models.FormatXLSX {
		return t.Supports(models.FormatExcel)
	}
	return t.Supports(f)
}

// Reports returns snapshots of the generated reports matching f, newest
// first. The zero filter returns every report.
func (s *ReportService) Reports(f ReportFilter) []models.GeneratedReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.GeneratedReport, 0, len(s.reports))
	for i := len(s.reports) - 1; i >= 0; i-- {
		if f.Match(*s.reports[i]) {
			out = append(out, *s.reports[i])
		}
	}
	return out
}

// Generate builds a report from the template and stores its file for one
// download. A failed fetch or export still records the report as failed.
func (s *ReportService) Generate(ctx context.Context, req GenerateRequest) (*models.GeneratedReport, error) {
	tmpl, ok := s.Template(req.TemplateID)
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("report template %q not found", req.TemplateID))
	}
	if !offers(tmpl, req.Format) {
		return nil, errors.Validation(fmt.Sprintf("template %q does not offer %s export", tmpl.ID, req.Format))
	}
	filter, err := ResolveBounds(req.StartDate, req.EndDate, models.PeriodDaily)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &models.GeneratedReport{
		ID:          uuid.NewString(),
		TemplateID:  tmpl.ID,
		Title:       fmt.Sprintf("%s - %s", tmpl.Name, now.Format("1/2/2006")),
		Description: tmpl.Description,
		Type:        titleCase(tmpl.Category),
		Period:      fmt.Sprintf("%s to %s", filter.StartDate, filter.EndDate),
		Status:      models.StatusPending,
		Format:      req.Format,
		CreatedAt:   now,
	}
	s.mu.Lock()
	s.reports = append(s.reports, report)
	s.mu.Unlock()

	s.setStatus(report, models.StatusGenerating, nil)

	payload, err := s.source.ReportData(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		s.logger.Error("failed to generate report", "template", tmpl.ID, "error", err)
		s.setStatus(report, models.StatusFailed, err)
		return s.snapshot(report), err
	}

	d := s.exporter.Export(*payload, req.Format, tmpl.ID+"_report")
	if d == nil {
		err := errors.Validation(fmt.Sprintf("%s export is not available", req.Format))
		s.setStatus(report, models.StatusFailed, err)
		return s.snapshot(report), err
	}
	token := s.downloads.Put(d)

	s.mu.Lock()
	report.Status = models.StatusCompleted
	report.GeneratedDate = s.now().Format(dateLayout)
	report.KeyMetrics = payload.Stats
	report.DownloadToken = token
	report.Notice = d.Notice
	s.mu.Unlock()

	s.logger.Info("report generated", "id", report.ID, "template", tmpl.ID, "format", req.Format)
	return s.snapshot(report), nil
}

// QuickGenerate runs a template over the last 30 days in its first format.
func (s *ReportService) QuickGenerate(ctx context.Context, templateID string) (*models.GeneratedReport, error) {
	tmpl, ok := s.Template(templateID)
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("report template %q not found", templateID))
	}
	end := truncateDay(s.now())
	return s.Generate(ctx, GenerateRequest{
		TemplateID: tmpl.ID,
		Format:     tmpl.Formats[0],
		StartDate:  end.AddDate(0, 0, -quickRangeDays).Format(dateLayout),
		EndDate:    end.Format(dateLayout),
	})
}

// QuickExport exports the range selected on the revenue page without
// recording a report.
func (s *ReportService) QuickExport(ctx context.Context, format models.ExportFormat, timeRange string) (*Download, error) {
	filter := ResolveTimeRange(timeRange, s.now())
	payload, err := s.source.ReportData(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	d := s.exporter.Export(*payload, format, "analytics_"+filter.StartDate+"_"+filter.EndDate)
	if d == nil {
		return nil, errors.Validation(fmt.Sprintf("unsupported export format %q", format))
	}
	return d, nil
}

func (s *ReportService) setStatus(r *models.GeneratedReport, status models.ReportStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Status = status
	if err != nil {
		r.Error = err.Error()
	}
}

func (s *ReportService) snapshot(r *models.GeneratedReport) *models.GeneratedReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *r
	return &c
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
