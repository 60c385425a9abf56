package calc

const (
	// SatoshisPerBTC converts between BTC and satoshis.
	SatoshisPerBTC = 1e8
	// MHsPerPHs converts MH/s to PH/s.
	MHsPerPHs = 1e9
	// WPerMW converts W to MW.
	WPerMW = 1e6
	// EnergyFieldDivisor scales the electricity feed's usedEnergy/availableEnergy
	// readings to MW before multiplying by hours.
	EnergyFieldDivisor = 1e6
)

// MHsToPHs converts a hashrate in MH/s to PH/s.
func MHsToPHs(mhs float64) float64 { return mhs / MHsPerPHs }

// WToMW converts a power reading in W to MW.
func WToMW(w float64) float64 { return w / WPerMW }

// SatoshisToBTC converts satoshis to BTC.
func SatoshisToBTC(sats float64) float64 { return sats / SatoshisPerBTC }

// BTCToSatoshis converts BTC to satoshis.
func BTCToSatoshis(btc float64) float64 { return btc * SatoshisPerBTC }

// EnergyFieldToMWh converts an electricity feed reading to MWh over hours.
func EnergyFieldToMWh(value, hours float64) float64 {
	return value / EnergyFieldDivisor * hours
}
