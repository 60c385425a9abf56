package metrics

import (
	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/records"
)

// HashBalanceMetrics relates revenue and cost to the hashrate deployed.
// Per PH/s values are per day: they are divided by the days in the period.
type HashBalanceMetrics struct {
	HashrateMHS        float64 `json:"hashrate_mhs"`
	HashratePHS        float64 `json:"hashrate_phs"`
	NominalHashrateMHS float64 `json:"nominal_hashrate_mhs"`
	CapacityFactor     float64 `json:"capacity_factor"`

	RevenueUSDPerPHsDay         *float64 `json:"revenue_usd_per_phs_day"`
	AvgPriceRevenueUSDPerPHsDay *float64 `json:"avg_price_revenue_usd_per_phs_day"`
	RevenueBTCPerPHsDay         *float64 `json:"revenue_btc_per_phs_day"`
	CostUSDPerPHsDay            *float64 `json:"cost_usd_per_phs_day"`
	MarginUSDPerPHsDay          *float64 `json:"margin_usd_per_phs_day"`
}

// HashBalance computes hash revenue and cost per PH/s per day for one period.
func HashBalance(p records.PeriodRecord, params Params) HashBalanceMetrics {
	days := float64(p.Days)
	m := HashBalanceMetrics{
		HashrateMHS:        p.HashrateMHS,
		HashratePHS:        calc.MHsToPHs(p.HashrateMHS),
		NominalHashrateMHS: params.NominalHashrateMHS,
		CapacityFactor:     calc.CapacityFactor(p.HashrateMHS, params.NominalHashrateMHS),
	}
	m.RevenueUSDPerPHsDay = AtProductionPricePerPHsDay(p.RevenueUSD, p.HashrateMHS, p.HoursInPeriod())
	m.AvgPriceRevenueUSDPerPHsDay = calc.PerPHsPerDay(p.RevenueUSDAtAveragePrice(), p.HashrateMHS, days)
	m.RevenueBTCPerPHsDay = calc.PerPHsPerDay(p.RevenueBTC, p.HashrateMHS, days)
	m.CostUSDPerPHsDay = calc.PerPHsPerDay(p.TotalCostsUSD, p.HashrateMHS, days)
	if m.RevenueUSDPerPHsDay != nil && m.CostUSDPerPHsDay != nil {
		m.MarginUSDPerPHsDay = calc.Float(*m.RevenueUSDPerPHsDay - *m.CostUSDPerPHsDay)
	}
	return m
}
