package records

import (
	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/timeseries"
)

// PeriodRecord is the reduction of the days falling in one calendar period.
//
// Flow fields are sums over the days. Level and rate fields are means; for
// the yearly grain they are the mean of the monthly means.
type PeriodRecord struct {
	Period string
	Ts     int64
	Days   int

	RevenueBTC float64
	FeesBTC    float64
	// RevenueUSD is Σ(day BTC × day price): every coin is valued at the
	// price of the day it was produced.
	RevenueUSD          float64
	TotalCostsUSD       float64
	EnergyCostsUSD      float64
	OperationalCostsUSD float64

	SitePowerMW float64
	HashrateMHS float64

	CurtailmentMWh        *float64
	CurtailmentRate       *float64
	OperationalIssuesRate *float64

	PriceSamples []float64
	AvgPriceUSD  float64
}

// HoursInPeriod returns the hours covered by the constituent days.
func (p PeriodRecord) HoursInPeriod() float64 {
	return float64(p.Days * timeseries.HoursPerDay)
}

// RevenueUSDAtAveragePrice values the period's BTC at the mean period price.
func (p PeriodRecord) RevenueUSDAtAveragePrice() float64 {
	return p.RevenueBTC * p.AvgPriceUSD
}

// SubsidyBTC is the part of revenue that is not transaction fees.
func (p PeriodRecord) SubsidyBTC() float64 {
	return p.RevenueBTC - p.FeesBTC
}

// Aggregate groups days by period and reduces each group. The daily grain is
// the identity: one PeriodRecord per DailyRecord.
func Aggregate(days []DailyRecord, periodType timeseries.PeriodType) []PeriodRecord {
	periodType = timeseries.ParsePeriodType(string(periodType))
	if periodType == timeseries.PeriodYearly {
		return aggregateYearly(days)
	}

	groups := timeseries.GroupByPeriod(days, func(d DailyRecord) int64 { return d.Ts }, periodType)
	out := make([]PeriodRecord, 0, len(groups))
	for _, g := range groups {
		out = append(out, reduceDays(g.Key, g.Label, g.Items))
	}
	return out
}

func reduceDays(key int64, label string, days []DailyRecord) PeriodRecord {
	rec := PeriodRecord{
		Period:       label,
		Ts:           key,
		Days:         len(days),
		PriceSamples: make([]float64, 0, len(days)),
	}
	power := make([]float64, 0, len(days))
	hashrate := make([]float64, 0, len(days))
	curtailmentRates := make([]*float64, 0, len(days))
	issueRates := make([]*float64, 0, len(days))
	curtailed := make([]*float64, 0, len(days))

	for _, d := range days {
		rec.RevenueBTC += d.RevenueBTC
		rec.FeesBTC += d.FeesBTC
		rec.RevenueUSD += d.RevenueUSD()
		rec.EnergyCostsUSD += d.EnergyCostsUSD
		rec.OperationalCostsUSD += d.OperationalCostsUSD
		rec.PriceSamples = append(rec.PriceSamples, d.PriceUSD)

		power = append(power, d.SitePowerMW())
		hashrate = append(hashrate, d.HashrateMHS)
		curtailmentRates = append(curtailmentRates, d.CurtailmentRate)
		issueRates = append(issueRates, d.OperationalIssuesRate)
		curtailed = append(curtailed, d.CurtailmentMWh)
	}

	rec.TotalCostsUSD = rec.EnergyCostsUSD + rec.OperationalCostsUSD
	rec.SitePowerMW = calc.Mean(power)
	rec.HashrateMHS = calc.Mean(hashrate)
	rec.CurtailmentRate = calc.MeanOpt(curtailmentRates)
	rec.OperationalIssuesRate = calc.MeanOpt(issueRates)
	rec.CurtailmentMWh = sumOpt(curtailed)
	rec.AvgPriceUSD = calc.Mean(rec.PriceSamples)
	return rec
}

func aggregateYearly(days []DailyRecord) []PeriodRecord {
	months := Aggregate(days, timeseries.PeriodMonthly)
	groups := timeseries.GroupByPeriod(months, func(m PeriodRecord) int64 { return m.Ts }, timeseries.PeriodYearly)

	out := make([]PeriodRecord, 0, len(groups))
	for _, g := range groups {
		out = append(out, reduceMonths(g.Key, g.Label, g.Items))
	}
	return out
}

func reduceMonths(key int64, label string, months []PeriodRecord) PeriodRecord {
	rec := PeriodRecord{Period: label, Ts: key}
	power := make([]float64, 0, len(months))
	hashrate := make([]float64, 0, len(months))
	curtailmentRates := make([]*float64, 0, len(months))
	issueRates := make([]*float64, 0, len(months))
	curtailed := make([]*float64, 0, len(months))

	for _, m := range months {
		rec.Days += m.Days
		rec.RevenueBTC += m.RevenueBTC
		rec.FeesBTC += m.FeesBTC
		rec.RevenueUSD += m.RevenueUSD
		rec.EnergyCostsUSD += m.EnergyCostsUSD
		rec.OperationalCostsUSD += m.OperationalCostsUSD
		rec.PriceSamples = append(rec.PriceSamples, m.PriceSamples...)

		power = append(power, m.SitePowerMW)
		hashrate = append(hashrate, m.HashrateMHS)
		curtailmentRates = append(curtailmentRates, m.CurtailmentRate)
		issueRates = append(issueRates, m.OperationalIssuesRate)
		curtailed = append(curtailed, m.CurtailmentMWh)
	}

	rec.TotalCostsUSD = rec.EnergyCostsUSD + rec.OperationalCostsUSD
	rec.SitePowerMW = calc.Mean(power)
	rec.HashrateMHS = calc.Mean(hashrate)
	rec.CurtailmentRate = calc.MeanOpt(curtailmentRates)
	rec.OperationalIssuesRate = calc.MeanOpt(issueRates)
	rec.CurtailmentMWh = sumOpt(curtailed)
	rec.AvgPriceUSD = calc.Mean(rec.PriceSamples)
	return rec
}

func sumOpt(values []*float64) *float64 {
	var sum float64
	var seen bool
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		seen = true
	}
	if !seen {
		return nil
	}
	return &sum
}
