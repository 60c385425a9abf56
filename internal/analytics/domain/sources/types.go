package sources

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"
)

// MaxMillis bounds accepted timestamps to ±100,000,000 days around the epoch.
const MaxMillis = 8.64e15

// ErrInvalidTimestamp rejects non-finite or out-of-range timestamps.
var ErrInvalidTimestamp = errors.New("sources: invalid timestamp")

// Millis is a millisecond timestamp that tolerates the encodings seen in
// upstream payloads: integer or float numbers, numeric strings, RFC3339 strings.
type Millis int64

// UnmarshalJSON implements json.Unmarshaler.
func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return m.setFloat(n)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		*m = Millis(t.UnixMilli())
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	return m.setFloat(n)
}

func (m *Millis) setFloat(n float64) error {
	if math.IsNaN(n) || n < -MaxMillis || n > MaxMillis {
		return ErrInvalidTimestamp
	}
	*m = Millis(math.Floor(n))
	return nil
}

// Int64 returns the raw millisecond value.
func (m Millis) Int64() int64 { return int64(m) }

// TransactionBatch is one pool payout bucket.
type TransactionBatch struct {
	Ts           Millis        `json:"ts"`
	Transactions []Transaction `json:"transactions"`
}

// Transaction is a single pool transaction. Modern records carry
// changed_balance; legacy records carry satoshi counters instead.
type Transaction struct {
	ChangedBalance        *float64     `json:"changed_balance,omitempty"`
	MiningExtra           *MiningExtra `json:"mining_extra,omitempty"`
	SatoshisNetEarned     *float64     `json:"satoshis_net_earned,omitempty"`
	FeesCollectedSatoshis *float64     `json:"fees_colected_satoshis,omitempty"`
}

// MiningExtra holds pool metadata attached to a transaction.
type MiningExtra struct {
	TxFee *float64 `json:"tx_fee,omitempty"`
}

// PriceEntry is either a historical price sample or a current price placeholder.
type PriceEntry struct {
	Ts           Millis   `json:"ts"`
	PriceUSD     *float64 `json:"priceUSD,omitempty"`
	CurrentPrice *float64 `json:"currentPrice,omitempty"`
}

// CostRecord is a monthly production cost line. Month is 1-based.
type CostRecord struct {
	Site            string   `json:"site"`
	Year            int      `json:"year"`
	Month           int      `json:"month"`
	EnergyCost      *float64 `json:"energyCost,omitempty"`
	OperationalCost *float64 `json:"operationalCost,omitempty"`
}

// Telemetry series types.
const (
	SeriesMiner      = "miner"
	SeriesPowermeter = "powermeter"
)

// TelemetrySeries is a hashrate or power series.
type TelemetrySeries struct {
	Type string            `json:"type"`
	Data []TelemetrySample `json:"data"`
}

// TelemetrySample is one telemetry reading.
type TelemetrySample struct {
	Ts  Millis         `json:"ts"`
	Val TelemetryValue `json:"val"`
}

// TelemetryValue carries the aggregated readings of a sample.
type TelemetryValue struct {
	HashrateMHS5mSumAggr *float64 `json:"hashrate_mhs_5m_sum_aggr,omitempty"`
	SitePowerW           *float64 `json:"site_power_w,omitempty"`
}

// ElectricityRecord is a daily electricity reading.
type ElectricityRecord struct {
	Ts     Millis         `json:"ts"`
	Energy *EnergyReading `json:"energy,omitempty"`
}

// EnergyReading holds used and available energy readings.
type EnergyReading struct {
	UsedEnergy      *float64 `json:"usedEnergy,omitempty"`
	AvailableEnergy *float64 `json:"availableEnergy,omitempty"`
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}
