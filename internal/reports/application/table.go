package application

import (
	"time"

	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/metrics"
	"mining-dashboard/internal/analytics/domain/timeseries"
)

// ValueKind tells renderers how to format a cell.
type ValueKind string

const (
	KindUSD     ValueKind = "usd"
	KindBTC     ValueKind = "btc"
	KindPercent ValueKind = "percent"
	KindNumber  ValueKind = "number"
)

// Table is the flat, renderer-neutral form of a report used by exports.
type Table struct {
	Title           string
	Report          ReportName
	SiteID          string
	Period          timeseries.PeriodType
	From            time.Time
	To              time.Time
	CurrentBTCPrice float64
	Columns         []Column
	Rows            []TableRow
	Totals          TableRow
}

// Column describes one numeric column.
type Column struct {
	Header string
	Kind   ValueKind
}

// TableRow is one labelled row of cells aligned with Table.Columns.
// A nil cell has no defined value.
type TableRow struct {
	Label string
	Cells []*float64
}

type columnDef[M any] struct {
	header string
	kind   ValueKind
	value  func(M) *float64
}

func val(v float64) *float64 { return calc.Float(v) }

func tableOf[M any](report Report[M], defs []columnDef[M]) Table {
	t := Table{
		Title:           report.Name.Title(),
		Report:          report.Name,
		SiteID:          report.SiteID,
		Period:          report.Period,
		From:            report.From,
		To:              report.To,
		CurrentBTCPrice: report.CurrentBTCPrice,
		Columns:         make([]Column, 0, len(defs)),
		Rows:            make([]TableRow, 0, len(report.Rows)),
	}
	for _, d := range defs {
		t.Columns = append(t.Columns, Column{Header: d.header, Kind: d.kind})
	}
	cells := func(m M) []*float64 {
		out := make([]*float64, 0, len(defs))
		for _, d := range defs {
			out = append(out, d.value(m))
		}
		return out
	}
	for _, row := range report.Rows {
		t.Rows = append(t.Rows, TableRow{Label: row.Period, Cells: cells(row.Metrics)})
	}
	t.Totals = TableRow{Label: "Total", Cells: cells(report.Totals)}
	return t
}

var ebitdaColumns = []columnDef[metrics.EbitdaMetrics]{
	{"Revenue (BTC)", KindBTC, func(m metrics.EbitdaMetrics) *float64 { return val(m.RevenueBTC) }},
	{"Revenue (USD)", KindUSD, func(m metrics.EbitdaMetrics) *float64 { return val(m.RevenueUSD) }},
	{"Energy costs", KindUSD, func(m metrics.EbitdaMetrics) *float64 { return val(m.EnergyCostsUSD) }},
	{"Operational costs", KindUSD, func(m metrics.EbitdaMetrics) *float64 { return val(m.OperationalCostsUSD) }},
	{"Total costs", KindUSD, func(m metrics.EbitdaMetrics) *float64 { return val(m.TotalCostsUSD) }},
	{"EBITDA (sell)", KindUSD, func(m metrics.EbitdaMetrics) *float64 { return val(m.EbitdaSell) }},
	{"EBITDA (hodl)", KindUSD, func(m metrics.EbitdaMetrics) *float64 { return val(m.EbitdaHodl) }},
	{"Cost per BTC", KindUSD, func(m metrics.EbitdaMetrics) *float64 { return m.ProductionCostPerBTC }},
}

var energyColumns = []columnDef[metrics.EnergyBalanceMetrics]{
	{"Power (MW)", KindNumber, func(m metrics.EnergyBalanceMetrics) *float64 { return val(m.SitePowerMW) }},
	{"Energy (MWh)", KindNumber, func(m metrics.EnergyBalanceMetrics) *float64 { return val(m.EnergyMWh) }},
	{"Revenue per MWh", KindUSD, func(m metrics.EnergyBalanceMetrics) *float64 { return m.RevenueUSDPerMWh }},
	{"Cost per MWh", KindUSD, func(m metrics.EnergyBalanceMetrics) *float64 { return m.TotalCostUSDPerMWh }},
	{"Margin per MWh", KindUSD, func(m metrics.EnergyBalanceMetrics) *float64 { return m.MarginUSDPerMWh }},
	{"Curtailment (MWh)", KindNumber, func(m metrics.EnergyBalanceMetrics) *float64 { return m.CurtailmentMWh }},
	{"Curtailment rate", KindPercent, func(m metrics.EnergyBalanceMetrics) *float64 { return m.CurtailmentRate }},
	{"Operational issues", KindPercent, func(m metrics.EnergyBalanceMetrics) *float64 { return m.OperationalIssuesRate }},
}

var hashColumns = []columnDef[metrics.HashBalanceMetrics]{
	{"Hashrate (PH/s)", KindNumber, func(m metrics.HashBalanceMetrics) *float64 { return val(m.HashratePHS) }},
	{"Capacity factor (%)", KindNumber, func(m metrics.HashBalanceMetrics) *float64 { return val(m.CapacityFactor) }},
	{"Revenue per PH/s/day", KindUSD, func(m metrics.HashBalanceMetrics) *float64 { return m.RevenueUSDPerPHsDay }},
	{"BTC per PH/s/day", KindBTC, func(m metrics.HashBalanceMetrics) *float64 { return m.RevenueBTCPerPHsDay }},
	{"Cost per PH/s/day", KindUSD, func(m metrics.HashBalanceMetrics) *float64 { return m.CostUSDPerPHsDay }},
	{"Margin per PH/s/day", KindUSD, func(m metrics.HashBalanceMetrics) *float64 { return m.MarginUSDPerPHsDay }},
}

var revenueColumns = []columnDef[metrics.RevenueSummaryMetrics]{
	{"Revenue (BTC)", KindBTC, func(m metrics.RevenueSummaryMetrics) *float64 { return val(m.RevenueBTC) }},
	{"Fees (BTC)", KindBTC, func(m metrics.RevenueSummaryMetrics) *float64 { return val(m.FeesBTC) }},
	{"Revenue (USD)", KindUSD, func(m metrics.RevenueSummaryMetrics) *float64 { return val(m.RevenueUSD) }},
	{"Avg price", KindUSD, func(m metrics.RevenueSummaryMetrics) *float64 { return val(m.AvgPriceUSD) }},
	{"HODL value", KindUSD, func(m metrics.RevenueSummaryMetrics) *float64 { return val(m.HodlValueUSD) }},
	{"Unrealized gain", KindUSD, func(m metrics.RevenueSummaryMetrics) *float64 { return val(m.UnrealizedGainUSD) }},
}

var subsidyFeeColumns = []columnDef[metrics.SubsidyFeeMetrics]{
	{"Subsidy (BTC)", KindBTC, func(m metrics.SubsidyFeeMetrics) *float64 { return val(m.SubsidyBTC) }},
	{"Fees (BTC)", KindBTC, func(m metrics.SubsidyFeeMetrics) *float64 { return val(m.FeesBTC) }},
	{"Subsidy (USD)", KindUSD, func(m metrics.SubsidyFeeMetrics) *float64 { return val(m.SubsidyUSD) }},
	{"Fees (USD)", KindUSD, func(m metrics.SubsidyFeeMetrics) *float64 { return val(m.FeesUSD) }},
	{"Fee share (%)", KindNumber, func(m metrics.SubsidyFeeMetrics) *float64 { return m.FeeSharePercent }},
}

// TableFor computes the named report from ds and flattens it for export.
func TableFor(name ReportName, ds Dataset) (Table, error) {
	switch name {
	case ReportEbitda:
		return tableOf(EbitdaReport(ds), ebitdaColumns), nil
	case ReportEnergyBalance:
		return tableOf(EnergyBalanceReport(ds), energyColumns), nil
	case ReportHashBalance:
		return tableOf(HashBalanceReport(ds), hashColumns), nil
	case ReportRevenueSummary:
		return tableOf(RevenueSummaryReport(ds), revenueColumns), nil
	case ReportSubsidyFee:
		return tableOf(SubsidyFeeReport(ds), subsidyFeeColumns), nil
	default:
		return Table{}, ErrUnknownReport
	}
}
