package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/constants"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/dto"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders the fixed-layout A4 report: title, generation timestamp,
// active-filter summary, metrics table, the two charts, and a detail table
// capped at the PDF row limit.
func BuildPDF(f ReportFilter, summary *dto.ReportSummary, rows []models.DataRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "DVI Performance Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated: "+time.Now().Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, filterSummary(f), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeMetricsTable(pdf, summary.Totals)
	pdf.Ln(6)

	if png := renderAdvisorChart(summary.Advisors); png != nil {
		writeChart(pdf, "advisors", "Advisor performance (hours sold, top 30)", png)
	}
	if png := renderWeeklyChart(summary.Weekly); png != nil {
		writeChart(pdf, "weekly", "Weekly trend (hours presented vs hours sold)", png)
	}

	writeDetailTable(pdf, rows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func filterSummary(f ReportFilter) string {
	org := f.Org
	if org == "" {
		org = "all"
	}
	parts := []string{"Organization: " + org}
	if f.StartDate != nil || f.EndDate != nil {
		parts = append(parts, fmt.Sprintf("Date range: %s to %s", formatBound(f.StartDate), formatBound(f.EndDate)))
	}
	if len(f.Locations) > 0 {
		parts = append(parts, "Locations: "+strings.Join(f.Locations, ", "))
	}
	if f.Advisor != "" {
		parts = append(parts, "Advisor filter: "+f.Advisor)
	}
	return strings.Join(parts, " | ")
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "open"
	}
	return t.Format("2006-01-02")
}

func writeMetricsTable(pdf *gofpdf.Fpdf, totals dto.ReportTotals) {
	metrics := [][2]string{
		{"Rows", fmt.Sprintf("%d", totals.Rows)},
		{"Hours Presented", fmt.Sprintf("%.2f", totals.HoursPresented)},
		{"Hours Sold", fmt.Sprintf("%.2f", totals.HoursSold)},
		{"Repair Orders", fmt.Sprintf("%d", totals.ROs)},
		{"Hours Presented / RO", fmt.Sprintf("%.2f", totals.HPPerRO)},
		{"Hours Sold / RO", fmt.Sprintf("%.2f", totals.HSPerRO)},
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(15, 23, 42)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(95, 7, "Metric", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "Value", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, m := range metrics {
		pdf.CellFormat(95, 7, m[0], "1", 0, "C", false, 0, "")
		pdf.CellFormat(95, 7, m[1], "1", 1, "C", false, 0, "")
	}
}

func writeChart(pdf *gofpdf.Fpdf, name, caption string, png []byte) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, caption, "", 1, "L", false, 0, "")
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, 15, pdf.GetY(), 180, 0, true, opts, 0, "")
	pdf.Ln(6)
}

var detailColumns = []struct {
	title string
	width float64
}{
	{"Invoice", 22},
	{"Advisor", 38},
	{"Date", 20},
	{"Presented", 20},
	{"Sold", 16},
	{"RO", 22},
	{"Org", 30},
	{"Location", 22},
}

func writeDetailTable(pdf *gofpdf.Fpdf, rows []models.DataRow) {
	if len(rows) > constants.PDFDetailRowLimit {
		rows = rows[:constants.PDFDetailRowLimit]
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Detail rows (limited to %d)", constants.PDFDetailRowLimit), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetFillColor(229, 231, 235)
	for _, col := range detailColumns {
		pdf.CellFormat(col.width, 5, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 7)
	for _, r := range rows {
		date := ""
		if r.InvoiceDate != nil {
			date = r.InvoiceDate.Format("2006-01-02")
		}
		cells := []string{
			r.InvoiceNo,
			r.AdvisorCanonical,
			date,
			fmt.Sprintf("%.2f", r.HoursPresented),
			fmt.Sprintf("%.2f", r.HoursSold),
			r.ROID,
			r.Org,
			r.Location,
		}
		for i, col := range detailColumns {
			pdf.CellFormat(col.width, 5, clip(cells[i], 24), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
