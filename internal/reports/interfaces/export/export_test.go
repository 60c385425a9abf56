package export

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"mining-dashboard/internal/analytics/domain/timeseries"
	"mining-dashboard/internal/reports/application"
)

func f64(v float64) *float64 { return &v }

func sampleTable() application.Table {
	return application.Table{
		Title:           "EBITDA",
		Report:          application.ReportEbitda,
		SiteID:          "site-a",
		Period:          timeseries.PeriodMonthly,
		From:            time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		To:              time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		CurrentBTCPrice: 70000,
		Columns: []application.Column{
			{Header: "Revenue (USD)", Kind: application.KindUSD},
			{Header: "Cost per BTC", Kind: application.KindUSD},
			{Header: "Curtailment rate", Kind: application.KindPercent},
		},
		Rows: []application.TableRow{
			{Label: "2024-04", Cells: []*float64{f64(72100), nil, f64(math.Inf(1))}},
		},
		Totals: application.TableRow{Label: "Total", Cells: []*float64{f64(72100), nil, f64(0.04)}},
	}
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(sampleTable())
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("summary", "B2"); got != "site-a" {
		t.Fatalf("expected site in summary, got %q", got)
	}
	if got, _ := f.GetCellValue("data", "B1"); got != "Revenue (USD)" {
		t.Fatalf("unexpected header %q", got)
	}
	if got, _ := f.GetCellValue("data", "B2"); got != "72100" {
		t.Fatalf("unexpected revenue cell %q", got)
	}
	if got, _ := f.GetCellValue("data", "D2"); got != "" {
		t.Fatalf("unbounded values should be left blank, got %q", got)
	}
	if got, _ := f.GetCellValue("data", "A3"); got != "Total" {
		t.Fatalf("expected totals row, got %q", got)
	}
}

func TestBuildPDF(t *testing.T) {
	data, err := Render(FormatPDF, sampleTable())
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF header")
	}
}

func TestRenderUnsupported(t *testing.T) {
	if _, err := Render("csv", sampleTable()); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestFileNameAndFormatting(t *testing.T) {
	if got := FileName(sampleTable(), FormatXLSX); got != "ebitda_site-a_2024-04-01_2024-05-01.xlsx" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := formatCell(nil, application.KindUSD); got != "-" {
		t.Fatalf("nil cell should render as dash, got %q", got)
	}
	if got := formatCell(f64(5_000_000), application.KindUSD); got != "$5M" {
		t.Fatalf("unexpected currency %q", got)
	}
	if got := formatCell(f64(0.041525), application.KindPercent); got != "4.15%" {
		t.Fatalf("unexpected percent %q", got)
	}
	if got := formatCell(f64(math.Inf(1)), application.KindPercent); got != "unbounded" {
		t.Fatalf("unexpected unbounded rate %q", got)
	}
	if FormatPDF.ContentType() != "application/pdf" {
		t.Fatalf("unexpected content type")
	}
}
