package calc

// PerPHs divides a value by a hashrate given in MH/s, converted to PH/s.
func PerPHs(value, hashrateMHS float64) *float64 {
	return SafeDiv(value, MHsToPHs(hashrateMHS))
}

// PerPHsPerDay divides a value by PH/s and by the number of days it covers.
func PerPHsPerDay(value, hashrateMHS, days float64) *float64 {
	return SafeDiv(value, MHsToPHs(hashrateMHS)*days)
}

// CapacityFactor returns actual/nominal × 100, or 0 without a nominal figure.
func CapacityFactor(actualMHS, nominalMHS float64) float64 {
	if nominalMHS <= 0 || !IsFinite(nominalMHS) || !IsFinite(actualMHS) {
		return 0
	}
	return actualMHS / nominalMHS * 100
}
