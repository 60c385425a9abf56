package metrics

import (
	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/records"
)

// RevenueSummaryMetrics summarizes pool income for one period.
type RevenueSummaryMetrics struct {
	Days               int      `json:"days"`
	RevenueBTC         float64  `json:"revenue_btc"`
	FeesBTC            float64  `json:"fees_btc"`
	RevenueUSD         float64  `json:"revenue_usd"`
	AvgPriceUSD        float64  `json:"avg_price_usd"`
	AvgDailyRevenueBTC *float64 `json:"avg_daily_revenue_btc"`
	// HodlValueUSD values the produced BTC at the current spot price.
	HodlValueUSD      float64 `json:"hodl_value_usd"`
	UnrealizedGainUSD float64 `json:"unrealized_gain_usd"`
}

// RevenueSummary computes revenue totals for one period.
func RevenueSummary(p records.PeriodRecord, params Params) RevenueSummaryMetrics {
	hodl := p.RevenueBTC * params.CurrentBTCPrice
	return RevenueSummaryMetrics{
		Days:               p.Days,
		RevenueBTC:         p.RevenueBTC,
		FeesBTC:            p.FeesBTC,
		RevenueUSD:         p.RevenueUSD,
		AvgPriceUSD:        p.AvgPriceUSD,
		AvgDailyRevenueBTC: calc.SafeDiv(p.RevenueBTC, float64(p.Days)),
		HodlValueUSD:       hodl,
		UnrealizedGainUSD:  hodl - p.RevenueUSD,
	}
}

// SubsidyFeeMetrics splits revenue into block subsidy and transaction fees.
type SubsidyFeeMetrics struct {
	SubsidyBTC float64 `json:"subsidy_btc"`
	FeesBTC    float64 `json:"fees_btc"`
	// USD values split RevenueUSD by the BTC share of each part.
	SubsidyUSD       float64  `json:"subsidy_usd"`
	FeesUSD          float64  `json:"fees_usd"`
	FeeSharePercent  *float64 `json:"fee_share_percent"`
	SubsidyPerFeeBTC *float64 `json:"subsidy_per_fee_btc"`
}

// SubsidyFee splits one period's revenue into subsidy and fees.
func SubsidyFee(p records.PeriodRecord) SubsidyFeeMetrics {
	m := SubsidyFeeMetrics{
		SubsidyBTC:       p.SubsidyBTC(),
		FeesBTC:          p.FeesBTC,
		SubsidyPerFeeBTC: calc.SafeDiv(p.SubsidyBTC(), p.FeesBTC),
	}
	if share := calc.SafeDiv(p.FeesBTC, p.RevenueBTC); share != nil {
		m.FeeSharePercent = calc.Float(*share * 100)
		m.FeesUSD = p.RevenueUSD * *share
		m.SubsidyUSD = p.RevenueUSD - m.FeesUSD
	}
	return m
}
