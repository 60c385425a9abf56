package metrics

import (
	"mining-dashboard/internal/analytics/domain/calc"
	"mining-dashboard/internal/analytics/domain/records"
	"mining-dashboard/internal/analytics/domain/timeseries"
)

// ProductionValueUSD is Σ(day BTC × day price) over the given days.
func ProductionValueUSD(days []records.DailyRecord) float64 {
	var sum float64
	for _, d := range days {
		sum += d.RevenueBTC * d.PriceUSD
	}
	return sum
}

// AtProductionPricePerMWh divides a production value by the energy consumed
// at avgPowerMW over hours.
func AtProductionPricePerMWh(productionValueUSD, avgPowerMW, hours float64) *float64 {
	return calc.SafeDiv(productionValueUSD, avgPowerMW*hours)
}

// AtProductionPricePerPHsDay divides a production value by the hash-seconds
// delivered at avgHashrateMHS over hours, scaled to one day.
func AtProductionPricePerPHsDay(productionValueUSD, avgHashrateMHS, hours float64) *float64 {
	perHashSecond := calc.SafeDiv(productionValueUSD, calc.MHsToPHs(avgHashrateMHS)*hours*3600)
	if perHashSecond == nil {
		return nil
	}
	return calc.Float(*perHashSecond * timeseries.SecondsPerDay)
}

// EnergyRevenueAtProductionPrice is the energy metric computed straight from days.
func EnergyRevenueAtProductionPrice(days []records.DailyRecord, avgPowerMW, hours float64) *float64 {
	return AtProductionPricePerMWh(ProductionValueUSD(days), avgPowerMW, hours)
}

// HashRevenueAtProductionPrice is the hash metric computed straight from days.
func HashRevenueAtProductionPrice(days []records.DailyRecord, avgHashrateMHS, hours float64) *float64 {
	return AtProductionPricePerPHsDay(ProductionValueUSD(days), avgHashrateMHS, hours)
}
