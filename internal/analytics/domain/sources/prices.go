package sources

import "mining-dashboard/internal/analytics/domain/timeseries"

// PriceTable resolves the BTC/USD price for a day.
type PriceTable struct {
	byDay   timeseries.DayMap[float64]
	current *float64
}

// NewPriceTable builds a day-keyed price lookup. Samples on the same day are
// averaged. The first currentPrice seen becomes the fallback for days without
// a historical price.
func NewPriceTable(entries []PriceEntry) PriceTable {
	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[int64]acc)
	var current *float64
	for _, entry := range entries {
		if price, ok := finite(entry.PriceUSD); ok {
			day := timeseries.StartOfDay(entry.Ts.Int64())
			a := sums[day]
			a.sum += price
			a.n++
			sums[day] = a
		}
		if current == nil {
			if price, ok := finite(entry.CurrentPrice); ok {
				current = &price
			}
		}
	}

	byDay := make(timeseries.DayMap[float64], len(sums))
	for day, a := range sums {
		byDay[day] = a.sum / float64(a.n)
	}
	return PriceTable{byDay: byDay, current: current}
}

// At returns the price for the day containing ts, falling back to the current
// price. ok is false only when neither is known, in which case price is 0.
func (t PriceTable) At(ts int64) (float64, bool) {
	if price, ok := t.byDay.Get(ts); ok {
		return price, true
	}
	if t.current != nil {
		return *t.current, true
	}
	return 0, false
}

// Current returns the current price placeholder, if any.
func (t PriceTable) Current() (float64, bool) {
	if t.current == nil {
		return 0, false
	}
	return *t.current, true
}

// Latest returns the current price, or the most recent historical price.
func (t PriceTable) Latest() (float64, bool) {
	if price, ok := t.Current(); ok {
		return price, true
	}
	days := t.byDay.Days()
	if len(days) == 0 {
		return 0, false
	}
	return t.byDay[days[len(days)-1]], true
}

// Historical returns the day-keyed historical prices.
func (t PriceTable) Historical() timeseries.DayMap[float64] {
	return t.byDay
}
