package calc

import "math"

// CurtailmentResult is the outcome of a curtailment calculation.
type CurtailmentResult struct {
	UsedEnergyMWh  float64
	CurtailmentMWh float64
	// Rate is +Inf when the site reported no power consumption.
	Rate float64
}

// Curtailment computes curtailed energy and rate for one window.
//
//	used = usedEnergy/1e6 × hours
//	curtailment = nominalAvailablePowerMWh − used
//	rate = curtailment / (powerConsumptionMW × hours)
//
// A zero power consumption yields a +Inf rate. A non-positive curtailment
// (site used at least the nominal figure) yields a rate of 0.
func Curtailment(usedEnergy, nominalAvailablePowerMWh, powerConsumptionMW, hours float64) CurtailmentResult {
	used := EnergyFieldToMWh(usedEnergy, hours)
	curtailed := nominalAvailablePowerMWh - used
	res := CurtailmentResult{UsedEnergyMWh: used, CurtailmentMWh: curtailed}

	switch {
	case curtailed <= 0:
		res.Rate = 0
	case powerConsumptionMW*hours == 0:
		res.Rate = math.Inf(1)
	default:
		res.Rate = curtailed / (powerConsumptionMW * hours)
	}
	return res
}

// OperationalIssuesRate returns (available − consumed) / available, floored at 0.
// availableEnergy is an electricity feed reading; consumption is in MW.
// A zero available energy yields nil.
func OperationalIssuesRate(availableEnergy, powerConsumptionMW, hours float64) *float64 {
	availableMWh := EnergyFieldToMWh(availableEnergy, hours)
	consumedMWh := powerConsumptionMW * hours
	rate := SafeDiv(availableMWh-consumedMWh, availableMWh)
	if rate == nil {
		return nil
	}
	v := math.Max(0, *rate)
	return &v
}

// PerMW divides a value by a power in MW.
func PerMW(value, powerMW float64) *float64 {
	return SafeDiv(value, powerMW)
}

// PerMWh divides a value by the energy produced at powerMW over hours.
func PerMWh(value, powerMW, hours float64) *float64 {
	return SafeDiv(value, powerMW*hours)
}
