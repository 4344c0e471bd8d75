package models

import "time"

type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatExcel ExportFormat = "excel"
	FormatCSV   ExportFormat = "csv"
	FormatJSON  ExportFormat = "json"
	FormatPNG   ExportFormat = "png"
	FormatXLSX  ExportFormat = "xlsx"
)

type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusGenerating ReportStatus = "generating"
	StatusCompleted  ReportStatus = "completed"
	StatusFailed     ReportStatus = "failed"
)

type ReportTemplate struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Frequency     string         `json:"frequency"`
	EstimatedTime string         `json:"estimated_time"`
	Formats       []ExportFormat `json:"formats"`
	Includes      []string       `json:"includes"`
	Premium       bool           `json:"premium"`
}

func (t ReportTemplate) Supports(f ExportFormat) bool {
	for _, candidate := range t.Formats {
		if candidate == f {
			return true
		}
	}
	return false
}

type GeneratedReport struct {
	ID            string          `json:"id"`
	TemplateID    string          `json:"template_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	Period        string          `json:"period"`
	Status        ReportStatus    `json:"status"`
	Format        ExportFormat    `json:"format"`
	GeneratedDate string          `json:"generated_date,omitempty"`
	KeyMetrics    *DashboardStats `json:"key_metrics,omitempty"`
	DownloadToken string          `json:"download_token,omitempty"`
	Notice        string          `json:"notice,omitempty"`
	Error         string          `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReportPayload is the analytics snapshot a report is exported from.
type ReportPayload struct {
	Stats    *DashboardStats `json:"stats,omitempty"`
	Revenue  []RevenuePoint  `json:"revenue"`
	Products []ProductRecord `json:"products"`
}
