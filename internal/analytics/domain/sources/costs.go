package sources

import (
	"time"

	"mining-dashboard/internal/analytics/domain/timeseries"
)

// CostProrationDays is the fixed divisor used to turn a monthly cost into a
// daily share. It is deliberately not the number of days in the month.
const CostProrationDays = 30

// MonthlyCost is the production cost booked for one month.
type MonthlyCost struct {
	EnergyCostUSD      float64
	OperationalCostUSD float64
}

// Total returns energy plus operational cost.
func (c MonthlyCost) Total() float64 {
	return c.EnergyCostUSD + c.OperationalCostUSD
}

// CostTable resolves monthly production costs.
type CostTable struct {
	byMonth map[timeseries.MonthKey]MonthlyCost
}

// NewCostTable indexes cost records by calendar month. When site is set only
// that site's records are used; otherwise all sites are summed.
func NewCostTable(records []CostRecord, site string) CostTable {
	byMonth := make(map[timeseries.MonthKey]MonthlyCost)
	for _, rec := range records {
		if site != "" && rec.Site != site {
			continue
		}
		if rec.Month < 1 || rec.Month > 12 || rec.Year <= 0 {
			continue
		}
		key := timeseries.MonthKey{Year: rec.Year, Month: time.Month(rec.Month)}
		cost := byMonth[key]
		if v, ok := finite(rec.EnergyCost); ok {
			cost.EnergyCostUSD += v
		}
		if v, ok := finite(rec.OperationalCost); ok {
			cost.OperationalCostUSD += v
		}
		byMonth[key] = cost
	}
	return CostTable{byMonth: byMonth}
}

// Monthly returns the cost booked for a month.
func (t CostTable) Monthly(key timeseries.MonthKey) (MonthlyCost, bool) {
	cost, ok := t.byMonth[key]
	return cost, ok
}

// DailyShare returns the pro-rated cost for the day containing ts.
// A month without a cost record yields zero.
func (t CostTable) DailyShare(ts int64) MonthlyCost {
	cost, ok := t.byMonth[timeseries.MonthKeyOf(ts)]
	if !ok {
		return MonthlyCost{}
	}
	return MonthlyCost{
		EnergyCostUSD:      cost.EnergyCostUSD / CostProrationDays,
		OperationalCostUSD: cost.OperationalCostUSD / CostProrationDays,
	}
}

// Len returns the number of months with a cost record.
func (t CostTable) Len() int { return len(t.byMonth) }
