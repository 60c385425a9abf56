package metrics

import (
	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/records"
)

// EnergyBalanceMetrics relates revenue and cost to the energy consumed.
type EnergyBalanceMetrics struct {
	SitePowerMW   float64 `json:"site_power_mw"`
	HoursInPeriod float64 `json:"hours_in_period"`
	EnergyMWh     float64 `json:"energy_mwh"`

	RevenueUSD     float64 `json:"revenue_usd"`
	EnergyCostsUSD float64 `json:"energy_costs_usd"`
	TotalCostsUSD  float64 `json:"total_costs_usd"`

	// Revenue valued at each coin's production-date price.
	RevenueUSDPerMWh *float64 `json:"revenue_usd_per_mwh"`
	// Revenue valued at the mean period price.
	AvgPriceRevenueUSDPerMWh *float64 `json:"avg_price_revenue_usd_per_mwh"`
	RevenueBTCPerMWh         *float64 `json:"revenue_btc_per_mwh"`
	RevenueUSDPerMW          *float64 `json:"revenue_usd_per_mw"`
	EnergyCostUSDPerMWh      *float64 `json:"energy_cost_usd_per_mwh"`
	TotalCostUSDPerMWh       *float64 `json:"total_cost_usd_per_mwh"`
	MarginUSDPerMWh          *float64 `json:"margin_usd_per_mwh"`

	CurtailmentMWh        *float64 `json:"curtailment_mwh"`
	CurtailmentRate       *float64 `json:"curtailment_rate"`
	OperationalIssuesRate *float64 `json:"operational_issues_rate"`
}

// EnergyBalance computes energy revenue and cost ratios for one period.
func EnergyBalance(p records.PeriodRecord) EnergyBalanceMetrics {
	hours := p.HoursInPeriod()
	m := EnergyBalanceMetrics{
		SitePowerMW:           p.SitePowerMW,
		HoursInPeriod:         hours,
		EnergyMWh:             p.SitePowerMW * hours,
		RevenueUSD:            p.RevenueUSD,
		EnergyCostsUSD:        p.EnergyCostsUSD,
		TotalCostsUSD:         p.TotalCostsUSD,
		CurtailmentMWh:        p.CurtailmentMWh,
		CurtailmentRate:       p.CurtailmentRate,
		OperationalIssuesRate: p.OperationalIssuesRate,
	}
	m.RevenueUSDPerMWh = AtProductionPricePerMWh(p.RevenueUSD, p.SitePowerMW, hours)
	m.AvgPriceRevenueUSDPerMWh = calc.PerMWh(p.RevenueUSDAtAveragePrice(), p.SitePowerMW, hours)
	m.RevenueBTCPerMWh = calc.PerMWh(p.RevenueBTC, p.SitePowerMW, hours)
	m.RevenueUSDPerMW = calc.PerMW(p.RevenueUSD, p.SitePowerMW)
	m.EnergyCostUSDPerMWh = calc.PerMWh(p.EnergyCostsUSD, p.SitePowerMW, hours)
	m.TotalCostUSDPerMWh = calc.PerMWh(p.TotalCostsUSD, p.SitePowerMW, hours)
	if m.RevenueUSDPerMWh != nil && m.TotalCostUSDPerMWh != nil {
		m.MarginUSDPerMWh = calc.Float(*m.RevenueUSDPerMWh - *m.TotalCostUSDPerMWh)
	}
	return m
}
