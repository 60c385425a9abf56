package chart

import (
	"mining-dashboard/internal/analytics/domain/metrics"
)

// EbitdaChart plots revenue, costs and both EBITDA scenarios per period.
func EbitdaChart(labels []string, rows []metrics.EbitdaMetrics) Data {
	if len(rows) == 0 || len(labels) != len(rows) {
		return Empty()
	}
	return Data{
		Labels: labels,
		Series: []Series{
			{Label: "Revenue", Unit: "USD", Color: ColorRevenue, Values: values(rows, func(m metrics.EbitdaMetrics) float64 { return m.RevenueUSD })},
			{Label: "Total costs", Unit: "USD", Color: ColorCost, Values: values(rows, func(m metrics.EbitdaMetrics) float64 { return m.TotalCostsUSD })},
			{Label: "EBITDA (sell)", Unit: "USD", Color: ColorEbitdaSell, DataLabels: true, Values: values(rows, func(m metrics.EbitdaMetrics) float64 { return m.EbitdaSell })},
			{Label: "EBITDA (hodl)", Unit: "USD", Color: ColorEbitdaHodl, Values: values(rows, func(m metrics.EbitdaMetrics) float64 { return m.EbitdaHodl })},
		},
	}
}

// EnergyBalanceChart plots revenue and cost per MWh alongside the curtailment
// rate in percent.
func EnergyBalanceChart(labels []string, rows []metrics.EnergyBalanceMetrics) Data {
	if len(rows) == 0 || len(labels) != len(rows) {
		return Empty()
	}
	return Data{
		Labels: labels,
		Series: []Series{
			{Label: "Revenue per MWh", Unit: "USD/MWh", Color: ColorRevenue, Values: optValues(rows, func(m metrics.EnergyBalanceMetrics) *float64 { return m.RevenueUSDPerMWh })},
			{Label: "Cost per MWh", Unit: "USD/MWh", Color: ColorCost, Values: optValues(rows, func(m metrics.EnergyBalanceMetrics) *float64 { return m.TotalCostUSDPerMWh })},
			{Label: "Energy cost per MWh", Unit: "USD/MWh", Color: ColorEnergy, Values: optValues(rows, func(m metrics.EnergyBalanceMetrics) *float64 { return m.EnergyCostUSDPerMWh })},
			{Label: "Curtailment rate", Unit: "%", Color: ColorCurtailment, Values: optValues(rows, func(m metrics.EnergyBalanceMetrics) *float64 { return percent(m.CurtailmentRate) })},
		},
	}
}

// HashBalanceChart plots hash revenue and cost per PH/s per day and the
// capacity factor.
func HashBalanceChart(labels []string, rows []metrics.HashBalanceMetrics) Data {
	if len(rows) == 0 || len(labels) != len(rows) {
		return Empty()
	}
	return Data{
		Labels: labels,
		Series: []Series{
			{Label: "Hash revenue", Unit: "USD/PH/s/day", Color: ColorRevenue, Values: optValues(rows, func(m metrics.HashBalanceMetrics) *float64 { return m.RevenueUSDPerPHsDay })},
			{Label: "Hash cost", Unit: "USD/PH/s/day", Color: ColorCost, Values: optValues(rows, func(m metrics.HashBalanceMetrics) *float64 { return m.CostUSDPerPHsDay })},
			{Label: "Capacity factor", Unit: "%", Color: ColorHash, Values: values(rows, func(m metrics.HashBalanceMetrics) float64 { return m.CapacityFactor })},
		},
	}
}

// RevenueChart plots produced BTC, switching to satoshis for small amounts,
// and its USD value at production-date prices.
func RevenueChart(labels []string, rows []metrics.RevenueSummaryMetrics) Data {
	if len(rows) == 0 || len(labels) != len(rows) {
		return Empty()
	}
	btc := values(rows, func(m metrics.RevenueSummaryMetrics) float64 { return m.RevenueBTC })
	unit := SelectBTCUnit(maxAbs(btc))
	return Data{
		Labels: labels,
		Series: []Series{
			{Label: "Revenue", Unit: string(unit), Color: ColorRevenue, DataLabels: true, Values: ConvertBTC(btc, unit)},
			{Label: "Revenue value", Unit: "USD", Color: ColorEbitdaSell, Values: values(rows, func(m metrics.RevenueSummaryMetrics) float64 { return m.RevenueUSD })},
		},
	}
}

// SubsidyFeeChart plots block subsidy and fees in a shared BTC unit.
func SubsidyFeeChart(labels []string, rows []metrics.SubsidyFeeMetrics) Data {
	if len(rows) == 0 || len(labels) != len(rows) {
		return Empty()
	}
	subsidy := values(rows, func(m metrics.SubsidyFeeMetrics) float64 { return m.SubsidyBTC })
	fees := values(rows, func(m metrics.SubsidyFeeMetrics) float64 { return m.FeesBTC })
	unit := SelectBTCUnit(maxAbs(subsidy, fees))
	return Data{
		Labels: labels,
		Series: []Series{
			{Label: "Block subsidy", Unit: string(unit), Color: ColorSubsidy, Values: ConvertBTC(subsidy, unit)},
			{Label: "Transaction fees", Unit: string(unit), Color: ColorFees, Values: ConvertBTC(fees, unit)},
		},
	}
}

func percent(rate *float64) *float64 {
	if rate == nil {
		return nil
	}
	v := *rate * 100
	return &v
}
