package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"mining-dashboard/internal/analytics/domain/sources"
	"mining-dashboard/internal/analytics/domain/timeseries"
)

// ErrEmptySiteID indicates a read or write without a site id.
var ErrEmptySiteID = errors.New("memory: empty site id")

// SourceStore is an in-memory SourceReader for demo/testing.
type SourceStore struct {
	mu    sync.RWMutex
	sites map[string]sources.Inputs
}

// NewSourceStore constructs an empty store.
func NewSourceStore() *SourceStore {
	return &SourceStore{sites: make(map[string]sources.Inputs)}
}

// Put replaces the inputs held for a site.
func (s *SourceStore) Put(siteID string, in sources.Inputs) error {
	if siteID == "" {
		return ErrEmptySiteID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sites[siteID] = in
	return nil
}

// PutRaw decodes upstream payloads and stores them for a site.
func (s *SourceStore) PutRaw(siteID string, raw sources.RawInputs) error {
	return s.Put(siteID, raw.Decode())
}

// LoadFile seeds the store from a JSON object keyed by site id, each value
// holding the raw source arrays.
func (s *SourceStore) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("memory: read seed: %w", err)
	}
	var bySite map[string]sources.RawInputs
	if err := json.Unmarshal(data, &bySite); err != nil {
		return fmt.Errorf("memory: parse seed: %w", err)
	}
	for siteID, raw := range bySite {
		if err := s.PutRaw(siteID, raw); err != nil {
			return err
		}
	}
	return nil
}

// Sites returns the number of sites held.
func (s *SourceStore) Sites() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sites)
}

// ReadInputs returns the site's records whose day lies in [from, to).
// Current price placeholders are always returned; cost records are kept for
// every month the range touches. An unknown site yields empty inputs.
func (s *SourceStore) ReadInputs(ctx context.Context, siteID string, from, to time.Time) (sources.Inputs, error) {
	if err := ctx.Err(); err != nil {
		return sources.Inputs{}, err
	}
	if siteID == "" {
		return sources.Inputs{}, ErrEmptySiteID
	}

	s.mu.RLock()
	in, ok := s.sites[siteID]
	s.mu.RUnlock()
	if !ok {
		return sources.Inputs{}, nil
	}

	w := window{from: timeseries.StartOfDay(timeseries.FromTime(from)), to: timeseries.FromTime(to)}
	out := sources.Inputs{
		Transactions: filter(in.Transactions, func(b sources.TransactionBatch) bool { return w.contains(b.Ts) }),
		Prices: filter(in.Prices, func(p sources.PriceEntry) bool {
			return p.CurrentPrice != nil || w.contains(p.Ts)
		}),
		Costs:       filter(in.Costs, w.touchesMonth),
		Electricity: filter(in.Electricity, func(e sources.ElectricityRecord) bool { return w.contains(e.Ts) }),
		Telemetry:   make([]sources.TelemetrySeries, 0, len(in.Telemetry)),
	}
	for _, series := range in.Telemetry {
		out.Telemetry = append(out.Telemetry, sources.TelemetrySeries{
			Type: series.Type,
			Data: filter(series.Data, func(d sources.TelemetrySample) bool { return w.contains(d.Ts) }),
		})
	}
	return out, nil
}

type window struct {
	from int64
	to   int64
}

func (w window) contains(ts sources.Millis) bool {
	day := timeseries.StartOfDay(ts.Int64())
	return day >= w.from && day < w.to
}

func (w window) touchesMonth(c sources.CostRecord) bool {
	start := time.Date(c.Year, time.Month(c.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return timeseries.FromTime(end) > w.from && timeseries.FromTime(start) < w.to
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
