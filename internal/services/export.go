package services

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pasale-dashboard/internal/models"
)

const (
	maxReportProducts = 10

	excelNotice = "Excel format downloaded as CSV. For true Excel format, choose the xlsx export."
	pdfNotice   = "PDF format downloaded as HTML. Print the page from a browser to produce a PDF."
)

var revenueColumns = []string{"date", "revenue", "transactions_count", "avg_transaction_value"}

// Download is a transient file handed to the client's save flow.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
	Notice      string
}

type Exporter struct {
	formatter *Formatter
	logger    *slog.Logger
	now       func() time.Time
}

func NewExporter(formatter *Formatter, logger *slog.Logger) *Exporter {
	return &Exporter{
		formatter: formatter,
		logger:    logger,
		now:       time.Now,
	}
}

// Export serializes payload in the requested format. Unsupported formats
// and encoding failures are logged and yield nil.
func (e *Exporter) Export(payload models.ReportPayload, format models.ExportFormat, filename string) *Download {
	var (
		d   *Download
		err error
	)
	switch format {
	case models.FormatJSON:
		d, err = e.exportJSON(payload, filename)
	case models.FormatCSV:
		d = e.exportCSV(payload, filename)
	case models.FormatExcel:
		d = e.exportCSV(payload, filename)
		d.Notice = excelNotice
	case models.FormatPDF:
		d, err = e.exportHTML(payload, filename)
	case models.FormatXLSX:
		d, err = e.exportXLSX(payload, filename)
	default:
		e.logger.Error("unsupported export format", "format", format, "filename", filename)
		return nil
	}
	if err != nil {
		e.logger.Error("export failed", "format", format, "filename", filename, "error", err)
		return nil
	}
	return d
}

func (e *Exporter) exportJSON(payload models.ReportPayload, filename string) (*Download, error) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return &Download{
		Filename:    filename + ".json",
		ContentType: "application/json",
		Body:        body,
	}, nil
}

// exportCSV writes the revenue rows joined with bare commas. Values are not
// quoted, so an embedded comma shifts the columns of that row.
func (e *Exporter) exportCSV(payload models.ReportPayload, filename string) *Download {
	var b strings.Builder
	if len(payload.Revenue) > 0 {
		b.WriteString(strings.Join(revenueColumns, ","))
		b.WriteByte('\n')
		for _, p := range payload.Revenue {
			b.WriteString(strings.Join(revenueRow(p), ","))
			b.WriteByte('\n')
		}
	}
	return &Download{
		Filename:    filename + ".csv",
		ContentType: "text/csv",
		Body:        []byte(b.String()),
	}
}

func revenueRow(p models.RevenuePoint) []string {
	return []string{
		p.Date,
		formatFloat(p.Revenue),
		strconv.Itoa(p.TransactionsCount),
		formatFloat(p.AvgTransactionValue),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Analytics Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.header { text-align: center; margin-bottom: 30px; }
.section { margin-bottom: 20px; }
.metrics { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 15px; }
.metric { border: 1px solid #ddd; padding: 15px; border-radius: 5px; }
table { width: 100%; border-collapse: collapse; margin-top: 10px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
</style>
</head>
<body>
<div class="header">
<h1>Business Analytics Report</h1>
<p>Generated on {{.Generated}}</p>
</div>
{{with .Stats}}<div class="section">
<h2>Key Metrics</h2>
<div class="metrics">
<div class="metric"><h3>Total Revenue</h3><p>{{.TotalRevenue}}</p></div>
<div class="metric"><h3>Total Products</h3><p>{{.TotalProducts}}</p></div>
<div class="metric"><h3>Total Transactions</h3><p>{{.TotalTransactions}}</p></div>
<div class="metric"><h3>Average Transaction</h3><p>{{.AvgTransaction}}</p></div>
</div>
</div>
{{end}}{{if .Revenue}}<div class="section">
<h2>Revenue Data</h2>
<table>
<thead><tr><th>Date</th><th>Revenue</th><th>Transactions</th><th>Avg Transaction Value</th></tr></thead>
<tbody>
{{range .Revenue}}<tr><td>{{.Date}}</td><td>{{.Revenue}}</td><td>{{.Transactions}}</td><td>{{.AvgValue}}</td></tr>
{{end}}</tbody>
</table>
</div>
{{end}}{{if .Products}}<div class="section">
<h2>Top Products</h2>
<table>
<thead><tr><th>Product</th><th>Type</th><th>Total Revenue</th><th>Units Sold</th></tr></thead>
<tbody>
{{range .Products}}<tr><td>{{.Name}}</td><td>{{.Type}}</td><td>{{.Revenue}}</td><td>{{.Units}}</td></tr>
{{end}}</tbody>
</table>
</div>
{{end}}</body>
</html>
`))

type reportView struct {
	Generated string
	Stats     *statsView
	Revenue   []revenueView
	Products  []productView
}

type statsView struct {
	TotalRevenue      string
	TotalProducts     int
	TotalTransactions int
	AvgTransaction    string
}

type revenueView struct {
	Date         string
	Revenue      string
	Transactions int
	AvgValue     string
}

type productView struct {
	Name    string
	Type    string
	Revenue string
	Units   string
}

func (e *Exporter) exportHTML(payload models.ReportPayload, filename string) (*Download, error) {
	view := reportView{Generated: e.now().Format("1/2/2006")}

	if s := payload.Stats; s != nil {
		view.Stats = &statsView{
			TotalRevenue:      e.formatter.Currency(s.TotalRevenue),
			TotalProducts:     s.TotalProducts,
			TotalTransactions: s.TotalTransactions,
			AvgTransaction:    e.formatter.Currency(s.AvgTransactionValue),
		}
	}
	for _, p := range payload.Revenue {
		view.Revenue = append(view.Revenue, revenueView{
			Date:         p.Date,
			Revenue:      e.formatter.Currency(p.Revenue),
			Transactions: p.TransactionsCount,
			AvgValue:     e.formatter.Currency(p.AvgTransactionValue),
		})
	}
	products := payload.Products
	if len(products) > maxReportProducts {
		products = products[:maxReportProducts]
	}
	for _, p := range products {
		view.Products = append(view.Products, productView{
			Name:    orNA(p.ProductName),
			Type:    orNA(p.ProductType),
			Revenue: e.formatter.Currency(p.TotalRevenue),
			Units:   e.formatter.Number(p.TotalQuantity),
		})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return &Download{
		Filename:    filename + ".html",
		ContentType: "text/html; charset=utf-8",
		Body:        buf.Bytes(),
		Notice:      pdfNotice,
	}, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

var productColumns = []string{"product_id", "product_name", "product_type", "total_quantity", "total_revenue", "transaction_count", "avg_price", "last_sale_date"}

func (e *Exporter) exportXLSX(payload models.ReportPayload, filename string) (*Download, error) {
	f := excelize.NewFile()
	defer f.Close()

	const revenueSheet, productSheet = "Revenue", "Products"
	if err := f.SetSheetName("Sheet1", revenueSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(productSheet); err != nil {
		return nil, err
	}

	revenueRows := make([][]any, 0, len(payload.Revenue))
	for _, p := range payload.Revenue {
		revenueRows = append(revenueRows, []any{p.Date, p.Revenue, p.TransactionsCount, p.AvgTransactionValue})
	}
	if err := writeSheet(f, revenueSheet, revenueColumns, revenueRows); err != nil {
		return nil, err
	}

	productRows := make([][]any, 0, len(payload.Products))
	for _, p := range payload.Products {
		productRows = append(productRows, []any{
			p.ProductID, p.ProductName, CategoryKey(p), p.TotalQuantity,
			p.TotalRevenue, p.TransactionCount, p.AvgPrice, p.LastSaleDate,
		})
	}
	if err := writeSheet(f, productSheet, productColumns, productRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return &Download{
		Filename:    filename + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Body:        buf.Bytes(),
	}, nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
