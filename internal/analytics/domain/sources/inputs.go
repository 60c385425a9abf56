package sources

import "mining-dashboard/internal/analytics/domain/timeseries"

// Inputs bundles the typed raw arrays for one site and date range.
type Inputs struct {
	Transactions []TransactionBatch
	Prices       []PriceEntry
	Costs        []CostRecord
	Telemetry    []TelemetrySeries
	Electricity  []ElectricityRecord
}

// Adapted is the day-keyed view of Inputs.
type Adapted struct {
	Transactions timeseries.DayMap[TransactionDay]
	Prices       PriceTable
	Costs        CostTable
	Hashrate     timeseries.DayMap[float64]
	Power        timeseries.DayMap[float64]
	Electricity  timeseries.DayMap[EnergyDay]
}

// Adapt runs every source adapter. costSite scopes cost records; empty means all.
func (in Inputs) Adapt(costSite string) Adapted {
	hashrate, power := TelemetryByDay(in.Telemetry)
	return Adapted{
		Transactions: TransactionsByDay(in.Transactions),
		Prices:       NewPriceTable(in.Prices),
		Costs:        NewCostTable(in.Costs, costSite),
		Hashrate:     hashrate,
		Power:        power,
		Electricity:  ElectricityByDay(in.Electricity),
	}
}

// Counts reports the number of raw entries per source.
func (in Inputs) Counts() map[string]int {
	return map[string]int{
		"transactions": len(in.Transactions),
		"prices":       len(in.Prices),
		"costs":        len(in.Costs),
		"telemetry":    len(in.Telemetry),
		"electricity":  len(in.Electricity),
	}
}
