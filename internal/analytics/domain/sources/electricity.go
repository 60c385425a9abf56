package sources

import "mining-dashboard/internal/analytics/domain/timeseries"

// EnergyDay is the electricity reading for one day.
type EnergyDay struct {
	UsedEnergy      float64
	AvailableEnergy float64
}

// ElectricityByDay sums used and available energy per day. Records without
// an energy block are skipped.
func ElectricityByDay(records []ElectricityRecord) timeseries.DayMap[EnergyDay] {
	out := make(timeseries.DayMap[EnergyDay])
	for _, rec := range records {
		if rec.Energy == nil {
			continue
		}
		used, hasUsed := finite(rec.Energy.UsedEnergy)
		available, hasAvailable := finite(rec.Energy.AvailableEnergy)
		if !hasUsed && !hasAvailable {
			continue
		}
		out.Update(rec.Ts.Int64(), func(cur EnergyDay) EnergyDay {
			cur.UsedEnergy += used
			cur.AvailableEnergy += available
			return cur
		})
	}
	return out
}
