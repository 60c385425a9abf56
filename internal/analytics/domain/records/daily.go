package records

import (
	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/sources"
	"mining-dashboard/internal/analytics/domain/timeseries"
)

// DailyRecord is the merged view of every source for one UTC day.
// Records are never mutated after Merge returns them.
type DailyRecord struct {
	Ts                  int64
	RevenueBTC          float64
	FeesBTC             float64
	PriceUSD            float64
	HashrateMHS         float64
	SitePowerW          float64
	EnergyCostsUSD      float64
	OperationalCostsUSD float64

	// Nil when the day has no electricity reading.
	CurtailmentMWh        *float64
	CurtailmentRate       *float64
	OperationalIssuesRate *float64
}

// RevenueUSD values the day's BTC at the day's price.
func (d DailyRecord) RevenueUSD() float64 { return d.RevenueBTC * d.PriceUSD }

// TotalCostsUSD returns energy plus operational cost.
func (d DailyRecord) TotalCostsUSD() float64 { return d.EnergyCostsUSD + d.OperationalCostsUSD }

// SitePowerMW returns the site power in MW.
func (d DailyRecord) SitePowerMW() float64 { return calc.WToMW(d.SitePowerW) }

// Params carries the site constants the merger needs.
type Params struct {
	NominalAvailablePowerMWh float64
}

// Merge joins every adapted source onto the transaction days. A day with
// revenue but no telemetry is kept with zero defaults; a day with telemetry
// but no transactions is dropped.
func Merge(src sources.Adapted, params Params) []DailyRecord {
	r := timeseries.Reconciler[DailyRecord]{
		Days: src.Transactions.Days(),
		Build: func(day int64) DailyRecord {
			return buildDay(day, src, params)
		},
	}
	return r.Reconcile()
}

func buildDay(day int64, src sources.Adapted, params Params) DailyRecord {
	tx := src.Transactions[day]
	price, _ := src.Prices.At(day)
	cost := src.Costs.DailyShare(day)

	rec := DailyRecord{
		Ts:                  day,
		RevenueBTC:          tx.RevenueBTC,
		FeesBTC:             tx.FeesBTC,
		PriceUSD:            price,
		HashrateMHS:         src.Hashrate[day],
		SitePowerW:          src.Power[day],
		EnergyCostsUSD:      cost.EnergyCostUSD,
		OperationalCostsUSD: cost.OperationalCostUSD,
	}

	if energy, ok := src.Electricity[day]; ok {
		powerMW := rec.SitePowerMW()
		curtailment := calc.Curtailment(energy.UsedEnergy, params.NominalAvailablePowerMWh, powerMW, timeseries.HoursPerDay)
		rec.CurtailmentMWh = calc.Float(curtailment.CurtailmentMWh)
		rec.CurtailmentRate = calc.Float(curtailment.Rate)
		rec.OperationalIssuesRate = calc.OperationalIssuesRate(energy.AvailableEnergy, powerMW, timeseries.HoursPerDay)
	}
	return rec
}

// Between keeps the records whose day lies in [from, to). A zero bound is open.
func Between(days []DailyRecord, from, to int64) []DailyRecord {
	out := make([]DailyRecord, 0, len(days))
	for _, d := range days {
		if from != 0 && d.Ts < timeseries.StartOfDay(from) {
			continue
		}
		if to != 0 && d.Ts >= to {
			continue
		}
		out = append(out, d)
	}
	return out
}
