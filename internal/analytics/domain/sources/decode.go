package sources

import "encoding/json"

// RawInputs holds the undecoded source payloads as delivered upstream.
type RawInputs struct {
	Transactions json.RawMessage `json:"transactions"`
	Prices       json.RawMessage `json:"prices"`
	Costs        json.RawMessage `json:"costs"`
	Telemetry    json.RawMessage `json:"telemetry"`
	Electricity  json.RawMessage `json:"electricity"`
}

// Decode turns raw payloads into typed inputs. It never fails: a payload
// that is not an array becomes empty and undecodable elements are skipped.
func (r RawInputs) Decode() Inputs {
	return Inputs{
		Transactions: DecodeTransactions(r.Transactions),
		Prices:       DecodePrices(r.Prices),
		Costs:        DecodeCosts(r.Costs),
		Telemetry:    DecodeTelemetry(r.Telemetry),
		Electricity:  DecodeElectricity(r.Electricity),
	}
}

// DecodeTransactions leniently decodes a transaction array.
func DecodeTransactions(raw json.RawMessage) []TransactionBatch {
	return decodeArray[TransactionBatch](raw)
}

// DecodePrices leniently decodes a price array.
func DecodePrices(raw json.RawMessage) []PriceEntry {
	return decodeArray[PriceEntry](raw)
}

// DecodeCosts leniently decodes a monthly cost array.
func DecodeCosts(raw json.RawMessage) []CostRecord {
	return decodeArray[CostRecord](raw)
}

// DecodeTelemetry leniently decodes a telemetry array.
func DecodeTelemetry(raw json.RawMessage) []TelemetrySeries {
	return decodeArray[TelemetrySeries](raw)
}

// DecodeElectricity leniently decodes an electricity array.
func DecodeElectricity(raw json.RawMessage) []ElectricityRecord {
	return decodeArray[ElectricityRecord](raw)
}

func decodeArray[T any](raw json.RawMessage) []T {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return []T{}
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
