package sources

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"mining-dashboard/internal/analytics/domain/timeseries"
)

func day(year int, month time.Month, d int) int64 {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func f(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTransactionsByDay_SumsSameDayBatches(t *testing.T) {
	d := day(2024, time.April, 1)
	batches := []TransactionBatch{
		{Ts: Millis(d + 3600_000), Transactions: []Transaction{
			{ChangedBalance: f(0.1), MiningExtra: &MiningExtra{TxFee: f(0.01)}},
			{ChangedBalance: f(0.2)},
		}},
		{Ts: Millis(d + 7200_000), Transactions: []Transaction{
			{ChangedBalance: f(0.3), MiningExtra: &MiningExtra{TxFee: f(0.02)}},
		}},
	}
	got := TransactionsByDay(batches)
	if len(got) != 1 {
		t.Fatalf("expected 1 day, got %d", len(got))
	}
	if !almostEqual(got[d].RevenueBTC, 0.6) {
		t.Fatalf("expected revenue 0.6, got %v", got[d].RevenueBTC)
	}
	if !almostEqual(got[d].FeesBTC, 0.03) {
		t.Fatalf("expected fees 0.03, got %v", got[d].FeesBTC)
	}
}

func TestTransactionsByDay_LegacyShape(t *testing.T) {
	d := day(2021, time.June, 5)
	batches := []TransactionBatch{{Ts: Millis(d), Transactions: []Transaction{
		{SatoshisNetEarned: f(150_000_000), FeesCollectedSatoshis: f(2_500_000)},
	}}}
	got := TransactionsByDay(batches)[d]
	if got.RevenueBTC != 1.5 || got.FeesBTC != 0.025 {
		t.Fatalf("unexpected legacy conversion %+v", got)
	}
}

func TestTransactionsByDay_SkipsEmptyBatches(t *testing.T) {
	got := TransactionsByDay([]TransactionBatch{{Ts: Millis(day(2024, 1, 1))}})
	if len(got) != 0 {
		t.Fatalf("expected no days, got %d", len(got))
	}
}

func TestPriceTable_FallbackToFirstCurrentPrice(t *testing.T) {
	d1 := day(2024, time.April, 1)
	table := NewPriceTable([]PriceEntry{
		{Ts: Millis(d1 + 10), PriceUSD: f(65000)},
		{Ts: Millis(d1 + 20), PriceUSD: f(67000)},
		{CurrentPrice: f(70000)},
		{CurrentPrice: f(71000)},
	})
	if p, ok := table.At(d1); !ok || p != 66000 {
		t.Fatalf("expected averaged 66000, got %v (ok=%v)", p, ok)
	}
	if p, ok := table.At(day(2024, time.April, 2)); !ok || p != 70000 {
		t.Fatalf("expected fallback 70000, got %v (ok=%v)", p, ok)
	}
}

func TestPriceTable_NoData(t *testing.T) {
	table := NewPriceTable(nil)
	if p, ok := table.At(0); ok || p != 0 {
		t.Fatalf("expected miss, got %v (ok=%v)", p, ok)
	}
	if _, ok := table.Latest(); ok {
		t.Fatalf("expected no latest price")
	}
}

func TestCostTable_FixedProration(t *testing.T) {
	table := NewCostTable([]CostRecord{
		{Site: "site-a", Year: 2024, Month: 2, EnergyCost: f(3000), OperationalCost: f(600)},
		{Site: "site-b", Year: 2024, Month: 2, EnergyCost: f(9999)},
		{Site: "site-a", Year: 2024, Month: 13, EnergyCost: f(1)},
	}, "site-a")

	share := table.DailyShare(day(2024, time.February, 10))
	if share.EnergyCostUSD != 100 || share.OperationalCostUSD != 20 {
		t.Fatalf("expected /30 share, got %+v", share)
	}
	if miss := table.DailyShare(day(2024, time.March, 1)); miss != (MonthlyCost{}) {
		t.Fatalf("expected zero cost for missing month, got %+v", miss)
	}
	if table.Len() != 1 {
		t.Fatalf("expected one month, got %d", table.Len())
	}
}

func TestCostTable_AllSitesSummed(t *testing.T) {
	table := NewCostTable([]CostRecord{
		{Site: "a", Year: 2024, Month: 2, EnergyCost: f(30)},
		{Site: "b", Year: 2024, Month: 2, EnergyCost: f(60)},
	}, "")
	monthly, ok := table.Monthly(timeseries.MonthKey{Year: 2024, Month: time.February})
	if !ok || monthly.EnergyCostUSD != 90 {
		t.Fatalf("expected 90, got %+v (ok=%v)", monthly, ok)
	}
}

func TestTelemetryByDay_SplitsByType(t *testing.T) {
	d := day(2024, time.April, 1)
	hashrate, power := TelemetryByDay([]TelemetrySeries{
		{Type: SeriesMiner, Data: []TelemetrySample{
			{Ts: Millis(d + 1), Val: TelemetryValue{HashrateMHS5mSumAggr: f(10)}},
			{Ts: Millis(d + 2), Val: TelemetryValue{HashrateMHS5mSumAggr: f(5), SitePowerW: f(99)}},
		}},
		{Type: SeriesPowermeter, Data: []TelemetrySample{
			{Ts: Millis(d + 3), Val: TelemetryValue{SitePowerW: f(1000)}},
			{Ts: Millis(d + 4), Val: TelemetryValue{}},
		}},
		{Type: "container", Data: []TelemetrySample{{Ts: Millis(d), Val: TelemetryValue{SitePowerW: f(7)}}}},
	})
	if hashrate[d] != 15 {
		t.Fatalf("expected hashrate 15, got %v", hashrate[d])
	}
	if power[d] != 1000 {
		t.Fatalf("expected power 1000, got %v", power[d])
	}
}

func TestElectricityByDay(t *testing.T) {
	d := day(2024, time.April, 1)
	got := ElectricityByDay([]ElectricityRecord{
		{Ts: Millis(d), Energy: &EnergyReading{UsedEnergy: f(100), AvailableEnergy: f(200)}},
		{Ts: Millis(d + 5), Energy: &EnergyReading{UsedEnergy: f(1)}},
		{Ts: Millis(d + 6)},
	})
	if got[d].UsedEnergy != 101 || got[d].AvailableEnergy != 200 {
		t.Fatalf("unexpected %+v", got[d])
	}
}

func TestDecode_MalformedShapesAreEmpty(t *testing.T) {
	raw := RawInputs{
		Transactions: json.RawMessage(`{"not":"an array"}`),
		Prices:       json.RawMessage(`null`),
		Costs:        json.RawMessage(`[{"site":"a","year":2024,"month":1,"energyCost":10}, "junk"]`),
		Telemetry:    nil,
		Electricity:  json.RawMessage(`[{"ts":"2024-04-01T00:00:00Z","energy":{"usedEnergy":1}}]`),
	}
	in := raw.Decode()
	if len(in.Transactions) != 0 || len(in.Prices) != 0 || len(in.Telemetry) != 0 {
		t.Fatalf("expected empty collections, got %+v", in)
	}
	if len(in.Costs) != 1 {
		t.Fatalf("expected junk element skipped, got %d costs", len(in.Costs))
	}
	if len(in.Electricity) != 1 || in.Electricity[0].Ts.Int64() != day(2024, time.April, 1) {
		t.Fatalf("expected RFC3339 ts decoded, got %+v", in.Electricity)
	}
}

func TestMillis_AcceptsFloatAndString(t *testing.T) {
	var batch TransactionBatch
	if err := json.Unmarshal([]byte(`{"ts":1.7119296e12,"transactions":[]}`), &batch); err != nil {
		t.Fatalf("unmarshal float ts: %v", err)
	}
	if batch.Ts.Int64() != 1711929600000 {
		t.Fatalf("unexpected ts %d", batch.Ts)
	}
	if err := json.Unmarshal([]byte(`{"ts":"1711929600000"}`), &batch); err != nil {
		t.Fatalf("unmarshal string ts: %v", err)
	}
	if batch.Ts.Int64() != 1711929600000 {
		t.Fatalf("unexpected ts %d", batch.Ts)
	}
}

func TestDecodeTransactions_SkipsInvalidTimestamps(t *testing.T) {
	raw := json.RawMessage(`[
		{"ts":"NaN","transactions":[{"changed_balance":1}]},
		{"ts":"Inf","transactions":[{"changed_balance":1}]},
		{"ts":1e30,"transactions":[{"changed_balance":1}]},
		{"ts":-1e30,"transactions":[{"changed_balance":1}]},
		{"ts":1711929600000,"transactions":[{"changed_balance":0.5}]}
	]`)
	batches := DecodeTransactions(raw)
	if len(batches) != 1 || batches[0].Ts.Int64() != 1711929600000 {
		t.Fatalf("expected only the valid batch, got %+v", batches)
	}

	byDay := TransactionsByDay(batches)
	days := byDay.Days()
	if len(days) != 1 || days[0] != day(2024, time.April, 1) {
		t.Fatalf("unexpected days %v", days)
	}
	if !almostEqual(byDay[days[0]].RevenueBTC, 0.5) {
		t.Fatalf("unexpected revenue %v", byDay[days[0]].RevenueBTC)
	}

	var ts Millis
	if err := json.Unmarshal([]byte(`"1e30"`), &ts); !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
}
