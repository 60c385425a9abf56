package metrics

import (
	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/records"
)

// EbitdaMetrics compares selling produced BTC on the day it was mined with
// holding it and valuing it at today's price.
type EbitdaMetrics struct {
	RevenueBTC          float64 `json:"revenue_btc"`
	RevenueUSD          float64 `json:"revenue_usd"`
	EnergyCostsUSD      float64 `json:"energy_costs_usd"`
	OperationalCostsUSD float64 `json:"operational_costs_usd"`
	TotalCostsUSD       float64 `json:"total_costs_usd"`
	AvgPriceUSD         float64 `json:"avg_price_usd"`
	CurrentBTCPrice     float64 `json:"current_btc_price"`

	EbitdaSell float64 `json:"ebitda_sell"`
	EbitdaHodl float64 `json:"ebitda_hodl"`
	// ProductionCostPerBTC is total cost divided by BTC produced.
	ProductionCostPerBTC *float64 `json:"production_cost_per_btc"`
	// EbitdaMarginPercent is EbitdaSell over RevenueUSD.
	EbitdaMarginPercent *float64 `json:"ebitda_margin_percent"`
}

// Ebitda computes the EBITDA scenarios for one period.
func Ebitda(p records.PeriodRecord, params Params) EbitdaMetrics {
	m := EbitdaMetrics{
		RevenueBTC:          p.RevenueBTC,
		RevenueUSD:          p.RevenueUSD,
		EnergyCostsUSD:      p.EnergyCostsUSD,
		OperationalCostsUSD: p.OperationalCostsUSD,
		TotalCostsUSD:       p.TotalCostsUSD,
		AvgPriceUSD:         p.AvgPriceUSD,
		CurrentBTCPrice:     params.CurrentBTCPrice,
	}
	m.EbitdaSell = EbitdaSell(p.RevenueUSD, p.TotalCostsUSD)
	m.EbitdaHodl = EbitdaHodl(p.RevenueBTC, params.CurrentBTCPrice, p.TotalCostsUSD)
	m.ProductionCostPerBTC = calc.SafeDiv(p.TotalCostsUSD, p.RevenueBTC)
	if margin := calc.SafeDiv(m.EbitdaSell, p.RevenueUSD); margin != nil {
		m.EbitdaMarginPercent = calc.Float(*margin * 100)
	}
	return m
}

// EbitdaSell is revenue at production-date prices minus costs.
func EbitdaSell(revenueUSD, totalCostsUSD float64) float64 {
	return revenueUSD - totalCostsUSD
}

// EbitdaHodl values the produced BTC at the current spot price.
func EbitdaHodl(revenueBTC, currentBTCPrice, totalCostsUSD float64) float64 {
	return revenueBTC*currentBTCPrice - totalCostsUSD
}
