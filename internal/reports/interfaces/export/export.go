package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/chart"
	"mining-dashboard/internal/reports/application"
)

const dateLayout = "2006-01-02"

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Render dispatches to the renderer for format.
func Render(format Format, table application.Table) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return BuildXLSX(table)
	case FormatPDF:
		return BuildPDF(table)
	default:
		return nil, fmt.Errorf("export: unsupported format %q", format)
	}
}

// FileName builds the download name for a table.
func FileName(table application.Table, format Format) string {
	return fmt.Sprintf("%s_%s_%s_%s.%s",
		table.Report,
		table.SiteID,
		table.From.UTC().Format(dateLayout),
		table.To.UTC().Format(dateLayout),
		format,
	)
}

// BuildXLSX renders a summary sheet and a data sheet with raw numeric cells.
func BuildXLSX(table application.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	dataSheet := "data"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(dataSheet); err != nil {
		return nil, err
	}

	summary := [][2]any{
		{table.Title + " Report", ""},
		{"Site", table.SiteID},
		{"Period", string(table.Period)},
		{"From", table.From.UTC().Format(time.RFC3339)},
		{"To", table.To.UTC().Format(time.RFC3339)},
		{"Current BTC price", table.CurrentBTCPrice},
	}
	for i, kv := range summary {
		row := i + 1
		_ = f.SetCellValue(summarySheet, cell(1, row), kv[0])
		_ = f.SetCellValue(summarySheet, cell(2, row), kv[1])
	}

	_ = f.SetCellValue(dataSheet, cell(1, 1), "Period")
	for i, col := range table.Columns {
		_ = f.SetCellValue(dataSheet, cell(i+2, 1), col.Header)
	}
	writeRow := func(row int, r application.TableRow) {
		_ = f.SetCellValue(dataSheet, cell(1, row), r.Label)
		for i, v := range r.Cells {
			if v == nil || !calc.IsFinite(*v) {
				continue
			}
			_ = f.SetCellValue(dataSheet, cell(i+2, row), *v)
		}
	}
	for i, r := range table.Rows {
		writeRow(i+2, r)
	}
	writeRow(len(table.Rows)+2, table.Totals)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders a landscape table with formatted values.
func BuildPDF(table application.Table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, table.Title+" Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Site: %s", table.SiteID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Range: %s to %s (%s)", table.From.UTC().Format(dateLayout), table.To.UTC().Format(dateLayout), table.Period))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Current BTC price: %s", chart.FormatCurrency(table.CurrentBTCPrice)))
	pdf.Ln(8)

	labelWidth := 28.0
	width := 249.0 / float64(max(len(table.Columns), 1))

	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(labelWidth, 6, "Period", "1", 0, "C", false, 0, "")
	for _, col := range table.Columns {
		pdf.CellFormat(width, 6, col.Header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	writeRow := func(r application.TableRow) {
		pdf.CellFormat(labelWidth, 6, r.Label, "1", 0, "C", false, 0, "")
		for i, v := range r.Cells {
			pdf.CellFormat(width, 6, formatCell(v, table.Columns[i].Kind), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "", 8)
	for _, r := range table.Rows {
		writeRow(r)
	}
	pdf.SetFont("Arial", "B", 8)
	writeRow(table.Totals)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCell(v *float64, kind application.ValueKind) string {
	if v == nil {
		return "-"
	}
	switch kind {
	case application.KindUSD:
		return chart.FormatCurrency(*v)
	case application.KindBTC:
		return chart.FormatBTC(*v, chart.UnitBTC)
	case application.KindPercent:
		if !calc.IsFinite(*v) {
			return "unbounded"
		}
		return strconv.FormatFloat(*v*100, 'f', 2, 64) + "%"
	default:
		if !calc.IsFinite(*v) {
			return "-"
		}
		return strconv.FormatFloat(*v, 'f', 2, 64)
	}
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "A1"
	}
	return name
}
