// Package export renders monthly snapshots as CSV or PDF documents.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/gocarina/gocsv"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Format is an export file format
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "csv" or "pdf", case-insensitive
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
}

// ContentType is the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// Filename is the download name for an export generated at t
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("monthly-reports-%s.%s", t.Format("20060102"), f)
}

// reportRow is one CSV line
type reportRow struct {
	Period            string `csv:"period"`
	TotalIncome       string `csv:"total_income"`
	TotalExpenses     string `csv:"total_expenses"`
	NaiveSavings      string `csv:"naive_savings"`
	RealSavings       string `csv:"real_savings"`
	EndOfMonthBalance string `csv:"end_of_month_balance"`
	GeneratedAt       string `csv:"generated_at"`
	Incomplete        bool   `csv:"reconciliation_incomplete"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toRows(reports []*domain.MonthlyReport) []*reportRow {
	rows := make([]*reportRow, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, &reportRow{
			Period:            r.Period().String(),
			TotalIncome:       money(r.TotalIncome),
			TotalExpenses:     money(r.TotalExpenses),
			NaiveSavings:      money(r.NaiveSavings),
			RealSavings:       money(r.RealSavings),
			EndOfMonthBalance: money(r.EndOfMonthBalance),
			GeneratedAt:       r.GeneratedAt.UTC().Format(time.RFC3339),
			Incomplete:        r.ReconciliationIncomplete,
		})
	}
	return rows
}

// WriteCSV writes one row per snapshot with a header line
func WriteCSV(w io.Writer, reports []*domain.MonthlyReport) error {
	if err := gocsv.Marshal(toRows(reports), w); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Period", 25},
	{"Income", 28},
	{"Expenses", 28},
	{"Naive savings", 28},
	{"Real savings", 28},
	{"End balance", 30},
}

// WritePDF writes a single table of snapshots
func WritePDF(w io.Writer, reports []*domain.MonthlyReport, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, "  Monthly reports", "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 8, tr("Generated "+generatedAt.UTC().Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(50, 50, 50)
	pdf.SetDrawColor(200, 200, 200)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	if len(reports) == 0 {
		pdf.CellFormat(0, 7, "No monthly reports have been generated yet.", "", 1, "L", false, 0, "")
	}
	for _, row := range toRows(reports) {
		values := []string{row.Period, row.TotalIncome, row.TotalExpenses, row.NaiveSavings, row.RealSavings, row.EndOfMonthBalance}
		for i, v := range values {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(pdfColumns[i].width, 6, tr(v), "", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}

// Write renders reports in format
func Write(w io.Writer, format Format, reports []*domain.MonthlyReport, generatedAt time.Time) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, reports)
	case FormatPDF:
		return WritePDF(w, reports, generatedAt)
	}
	return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
}
