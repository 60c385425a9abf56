package metrics

import (
	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/records"
)

// Totals folds a slice of periods into one record covering all of them.
// Flow fields are summed; level and rate fields are the mean of the period
// means, so every period carries equal weight.
func Totals(periods []records.PeriodRecord) records.PeriodRecord {
	total := records.PeriodRecord{Period: "total", PriceSamples: []float64{}}
	if len(periods) == 0 {
		return total
	}
	total.Ts = periods[0].Ts

	power := make([]float64, 0, len(periods))
	hashrate := make([]float64, 0, len(periods))
	curtailmentRates := make([]*float64, 0, len(periods))
	issueRates := make([]*float64, 0, len(periods))
	var curtailed *float64

	for _, p := range periods {
		total.Days += p.Days
		total.RevenueBTC += p.RevenueBTC
		total.FeesBTC += p.FeesBTC
		total.RevenueUSD += p.RevenueUSD
		total.EnergyCostsUSD += p.EnergyCostsUSD
		total.OperationalCostsUSD += p.OperationalCostsUSD
		total.PriceSamples = append(total.PriceSamples, p.PriceSamples...)

		power = append(power, p.SitePowerMW)
		hashrate = append(hashrate, p.HashrateMHS)
		curtailmentRates = append(curtailmentRates, p.CurtailmentRate)
		issueRates = append(issueRates, p.OperationalIssuesRate)
		if p.CurtailmentMWh != nil {
			curtailed = calc.Float(calc.ValueOr(curtailed, 0) + *p.CurtailmentMWh)
		}
	}

	total.TotalCostsUSD = total.EnergyCostsUSD + total.OperationalCostsUSD
	total.SitePowerMW = calc.Mean(power)
	total.HashrateMHS = calc.Mean(hashrate)
	total.CurtailmentRate = calc.MeanOpt(curtailmentRates)
	total.OperationalIssuesRate = calc.MeanOpt(issueRates)
	total.CurtailmentMWh = curtailed
	total.AvgPriceUSD = calc.Mean(total.PriceSamples)
	return total
}
