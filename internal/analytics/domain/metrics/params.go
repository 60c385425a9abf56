package metrics

// Params are the site and market constants the calculators depend on.
type Params struct {
	// CurrentBTCPrice is today's spot price, used for HODL valuations.
	CurrentBTCPrice          float64 `json:"current_btc_price"`
	NominalHashrateMHS       float64 `json:"nominal_hashrate_mhs"`
	NominalAvailablePowerMWh float64 `json:"nominal_available_power_mwh"`
}
