package application

import (
	"fmt"
	"time"

	"mining-dashboard/internal/analytics/domain/chart"
	"mining-dashboard/internal/analytics/domain/metrics"
	"mining-dashboard/internal/analytics/domain/records"
	"mining-dashboard/internal/analytics/domain/timeseries"
)

// ReportName identifies one of the served reports.
type ReportName string

const (
	ReportEbitda         ReportName = "ebitda"
	ReportEnergyBalance  ReportName = "energy-balance"
	ReportHashBalance    ReportName = "hash-balance"
	ReportRevenueSummary ReportName = "revenue-summary"
	ReportSubsidyFee     ReportName = "subsidy-fee"
)

// ReportNames lists every served report.
var ReportNames = []ReportName{
	ReportEbitda,
	ReportEnergyBalance,
	ReportHashBalance,
	ReportRevenueSummary,
	ReportSubsidyFee,
}

// ParseReportName validates a report name.
func ParseReportName(value string) (ReportName, error) {
	for _, name := range ReportNames {
		if string(name) == value {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReport, value)
}

// Title is the human readable report title.
func (n ReportName) Title() string {
	switch n {
	case ReportEbitda:
		return "EBITDA"
	case ReportEnergyBalance:
		return "Energy Balance"
	case ReportHashBalance:
		return "Hash Balance"
	case ReportRevenueSummary:
		return "Revenue Summary"
	case ReportSubsidyFee:
		return "Subsidy and Fees"
	default:
		return string(n)
	}
}

// Report is a computed report: one row per period, the totals row and the
// chart payload.
type Report[M any] struct {
	Name            ReportName            `json:"report"`
	SiteID          string                `json:"site_id"`
	Period          timeseries.PeriodType `json:"period"`
	From            time.Time             `json:"from"`
	To              time.Time             `json:"to"`
	CurrentBTCPrice float64               `json:"current_btc_price"`
	Rows            []Row[M]              `json:"rows"`
	Totals          M                     `json:"totals"`
	Chart           chart.Data            `json:"chart"`
	// Empty is set when there is nothing to show for the range.
	Empty bool `json:"empty"`
}

// Row is one period of a report.
type Row[M any] struct {
	Period  string `json:"period"`
	Ts      int64  `json:"ts"`
	Days    int    `json:"days"`
	Metrics M      `json:"metrics"`
}

func buildReport[M any](
	name ReportName,
	ds Dataset,
	compute func(records.PeriodRecord) M,
	plot func([]string, []M) chart.Data,
) Report[M] {
	rows := make([]Row[M], 0, len(ds.Periods))
	values := make([]M, 0, len(ds.Periods))
	for _, p := range ds.Periods {
		m := compute(p)
		rows = append(rows, Row[M]{Period: p.Period, Ts: p.Ts, Days: p.Days, Metrics: m})
		values = append(values, m)
	}
	data := plot(chart.Labels(ds.Periods), values)
	return Report[M]{
		Name:            name,
		SiteID:          ds.Request.SiteID,
		Period:          ds.Request.Period,
		From:            ds.Request.From,
		To:              ds.Request.To,
		CurrentBTCPrice: ds.CurrentBTCPrice,
		Rows:            rows,
		Totals:          compute(ds.Total),
		Chart:           data,
		Empty:           ds.Empty() || chart.IsAllZero(data),
	}
}

// EbitdaReport computes sell and hodl EBITDA per period.
func EbitdaReport(ds Dataset) Report[metrics.EbitdaMetrics] {
	params := ds.metricParams()
	return buildReport(ReportEbitda, ds, func(p records.PeriodRecord) metrics.EbitdaMetrics {
		return metrics.Ebitda(p, params)
	}, chart.EbitdaChart)
}

// EnergyBalanceReport computes energy revenue, cost and curtailment per period.
func EnergyBalanceReport(ds Dataset) Report[metrics.EnergyBalanceMetrics] {
	return buildReport(ReportEnergyBalance, ds, metrics.EnergyBalance, chart.EnergyBalanceChart)
}

// HashBalanceReport computes hash revenue, cost and capacity factor per period.
func HashBalanceReport(ds Dataset) Report[metrics.HashBalanceMetrics] {
	params := ds.metricParams()
	return buildReport(ReportHashBalance, ds, func(p records.PeriodRecord) metrics.HashBalanceMetrics {
		return metrics.HashBalance(p, params)
	}, chart.HashBalanceChart)
}

// RevenueSummaryReport computes revenue totals per period.
func RevenueSummaryReport(ds Dataset) Report[metrics.RevenueSummaryMetrics] {
	params := ds.metricParams()
	return buildReport(ReportRevenueSummary, ds, func(p records.PeriodRecord) metrics.RevenueSummaryMetrics {
		return metrics.RevenueSummary(p, params)
	}, chart.RevenueChart)
}

// SubsidyFeeReport splits revenue into subsidy and fees per period.
func SubsidyFeeReport(ds Dataset) Report[metrics.SubsidyFeeMetrics] {
	return buildReport(ReportSubsidyFee, ds, metrics.SubsidyFee, chart.SubsidyFeeChart)
}
