package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mining-dashboard/internal/analytics/domain/sources"
)

func TestSourceStore_ReadInputsFiltersRange(t *testing.T) {
	store := NewSourceStore()
	seed := []byte(`{
  "site-a": {
    "transactions": [
      {"ts": 1711929600000, "transactions": [{"changed_balance": 0.5}]},
      {"ts": 1714521600000, "transactions": [{"changed_balance": 0.7}]}
    ],
    "prices": [
      {"ts": 1711929600000, "priceUSD": 65000},
      {"ts": 1704067200000, "priceUSD": 42000},
      {"currentPrice": 70000}
    ],
    "costs": [
      {"site": "site-a", "year": 2024, "month": 4, "energyCost": 300000, "operationalCost": 150000},
      {"site": "site-a", "year": 2024, "month": 6, "energyCost": 1, "operationalCost": 1}
    ],
    "telemetry": [
      {"type": "miner", "data": [{"ts": 1711929600000, "val": {"hashrate_mhs_5m_sum_aggr": 45000000}}, {"ts": 1714521600000, "val": {"hashrate_mhs_5m_sum_aggr": 1}}]}
    ],
    "electricity": "not-an-array"
  }
}`)
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, seed, 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if err := store.LoadFile(path); err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if store.Sites() != 1 {
		t.Fatalf("expected one site, got %d", store.Sites())
	}

	from := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	in, err := store.ReadInputs(context.Background(), "site-a", from, to)
	if err != nil {
		t.Fatalf("read inputs: %v", err)
	}
	if len(in.Transactions) != 1 {
		t.Fatalf("expected April transactions only, got %d", len(in.Transactions))
	}
	if len(in.Prices) != 2 {
		t.Fatalf("expected April price plus current price, got %d", len(in.Prices))
	}
	if len(in.Costs) != 1 || in.Costs[0].Month != 4 {
		t.Fatalf("expected April costs only, got %+v", in.Costs)
	}
	if len(in.Telemetry) != 1 || len(in.Telemetry[0].Data) != 1 {
		t.Fatalf("expected one telemetry sample, got %+v", in.Telemetry)
	}
	if len(in.Electricity) != 0 {
		t.Fatalf("malformed electricity payload should decode to empty")
	}
}

func TestSourceStore_Errors(t *testing.T) {
	store := NewSourceStore()
	if err := store.Put("", sources.Inputs{}); !errors.Is(err, ErrEmptySiteID) {
		t.Fatalf("expected ErrEmptySiteID, got %v", err)
	}
	if _, err := store.ReadInputs(context.Background(), "", time.Now(), time.Now()); !errors.Is(err, ErrEmptySiteID) {
		t.Fatalf("expected ErrEmptySiteID, got %v", err)
	}
	in, err := store.ReadInputs(context.Background(), "missing", time.Now(), time.Now().Add(time.Hour))
	if err != nil || len(in.Transactions) != 0 {
		t.Fatalf("unknown site should read empty, got %+v %v", in, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.ReadInputs(ctx, "site-a", time.Now(), time.Now()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
