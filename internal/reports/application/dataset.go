package application

import (
	"mining-dashboard/internal/analytics/domain/metrics"
	"mining-dashboard/internal/analytics/domain/records"
	"mining-dashboard/internal/analytics/domain/sources"
	"mining-dashboard/internal/analytics/domain/timeseries"
)

// Dataset is the merged and aggregated view every report is computed from.
type Dataset struct {
	Request ReportRequest
	Params  SiteParams
	Days    []records.DailyRecord
	Periods []records.PeriodRecord
	Total   records.PeriodRecord
	// CurrentBTCPrice is 0 when no source carried a price.
	CurrentBTCPrice float64
}

// BuildDataset runs the adapters, merges days, clips them to the request
// range and aggregates them into periods.
func BuildDataset(in sources.Inputs, req ReportRequest, params SiteParams) Dataset {
	adapted := in.Adapt(params.CostScope())
	merged := records.Merge(adapted, records.Params{
		NominalAvailablePowerMWh: params.NominalAvailablePowerMWh,
	})
	days := records.Between(merged, req.fromMs(), req.toMs())
	periods := records.Aggregate(days, req.Period)

	return Dataset{
		Request:         req,
		Params:          params,
		Days:            days,
		Periods:         periods,
		Total:           metrics.Totals(periods),
		CurrentBTCPrice: currentPrice(adapted.Prices),
	}
}

// Empty reports whether no day survived the merge and clipping.
func (d Dataset) Empty() bool { return len(d.Days) == 0 }

func (d Dataset) metricParams() metrics.Params {
	return metrics.Params{
		CurrentBTCPrice:          d.CurrentBTCPrice,
		NominalHashrateMHS:       d.Params.NominalHashrateMHS,
		NominalAvailablePowerMWh: d.Params.NominalAvailablePowerMWh,
	}
}

// currentPrice prefers the explicit current price placeholder and falls back
// to the most recent historical sample.
func currentPrice(prices sources.PriceTable) float64 {
	if price, ok := prices.Current(); ok {
		return price
	}
	if price, ok := prices.Latest(); ok {
		return price
	}
	return 0
}

func periodType(value string, fallback string) timeseries.PeriodType {
	if value == "" {
		value = fallback
	}
	return timeseries.ParsePeriodType(value)
}
