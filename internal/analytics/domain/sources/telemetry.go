package sources

import "mining-dashboard/internal/analytics/domain/timeseries"

// TelemetryByDay sums hashrate (miner series) and site power (powermeter
// series) per day. Unknown series types and missing readings are ignored.
func TelemetryByDay(series []TelemetrySeries) (hashrate, power timeseries.DayMap[float64]) {
	hashrate = make(timeseries.DayMap[float64])
	power = make(timeseries.DayMap[float64])
	for _, s := range series {
		for _, sample := range s.Data {
			ts := sample.Ts.Int64()
			switch s.Type {
			case SeriesMiner:
				if v, ok := finite(sample.Val.HashrateMHS5mSumAggr); ok {
					hashrate.Update(ts, func(cur float64) float64 { return cur + v })
				}
			case SeriesPowermeter:
				if v, ok := finite(sample.Val.SitePowerW); ok {
					power.Update(ts, func(cur float64) float64 { return cur + v })
				}
			}
		}
	}
	return hashrate, power
}
