package reports

import (
	"context"
	"strconv"
	"time"

	"school-ledger/internal/models"
)

// Export formats.
const (
	FormatPDF   = "pdf"
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

// PDFExport is the print-oriented envelope around the monthly report.
type PDFExport struct {
	Title       string `json:"title"`
	Format      string `json:"format"`
	GeneratedAt string `json:"generatedAt"`
	Data        struct {
		Summary        Summary         `json:"summary"`
		FeeBreakdown   FeeBreakdown    `json:"feeBreakdown"`
		StudentDetails []StudentDetail `json:"studentDetails"`
	} `json:"data"`
}

// TabularExport is the csv/excel shape: a fixed header row plus one row
// per student and a trailing TOTAL row.
type TabularExport struct {
	Title  string `json:"title"`
	Format string `json:"format"`
	Data   struct {
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	} `json:"data"`
}

var tabularHeaders = []string{
	"Student Name", "Email", "Fees Charged", "Payments Made", "Balance",
	"Payment Status", "Absence Fees", "Late Fees", "No Shoes Fees", "Not In Uniform Fees",
}

// ExportMonthlyReport renders the monthly report in the requested format.
// pdf produces the print envelope; csv and excel share the tabular shape.
func (a *Aggregator) ExportMonthlyReport(ctx context.Context, monthDate time.Time, format string) (any, error) {
	report, err := a.GenerateMonthlyReport(ctx, monthDate)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatPDF:
		export := &PDFExport{
			Title:       report.Title,
			Format:      FormatPDF,
			GeneratedAt: time.Now().Format(time.RFC3339),
		}
		export.Data.Summary = report.Summary
		export.Data.FeeBreakdown = report.FeeBreakdown
		export.Data.StudentDetails = report.StudentDetails
		return export, nil
	case FormatCSV, FormatExcel:
		return tabularExport(report, format), nil
	default:
		return nil, &models.UnsupportedFormatError{Format: format}
	}
}

func tabularExport(report *MonthlyReport, format string) *TabularExport {
	export := &TabularExport{
		Title:  report.Title,
		Format: format,
	}
	export.Data.Headers = tabularHeaders
	export.Data.Rows = make([][]string, 0, len(report.StudentDetails)+1)

	total := StudentDetail{Name: "TOTAL"}
	for _, d := range report.StudentDetails {
		export.Data.Rows = append(export.Data.Rows, detailRow(d))
		total.FeesCharged += d.FeesCharged
		total.PaymentsMade += d.PaymentsMade
		total.Balance += d.Balance
		total.Breakdown.add(d.Breakdown)
	}
	export.Data.Rows = append(export.Data.Rows, detailRow(total))
	return export
}

func detailRow(d StudentDetail) []string {
	return []string{
		d.Name,
		d.Email,
		strconv.Itoa(d.FeesCharged),
		strconv.Itoa(d.PaymentsMade),
		strconv.Itoa(d.Balance),
		d.PaymentStatus,
		strconv.Itoa(d.Breakdown.Absence),
		strconv.Itoa(d.Breakdown.Late),
		strconv.Itoa(d.Breakdown.NoShoes),
		strconv.Itoa(d.Breakdown.NotInUniform),
	}
}
