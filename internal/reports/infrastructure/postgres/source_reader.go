package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mining-dashboard/internal/analytics/domain/sources"
	"mining-dashboard/internal/analytics/domain/timeseries"
)

var (
	// ErrNilDB indicates the reader was built without a database handle.
	ErrNilDB = errors.New("postgres: nil db")
	// ErrEmptySiteID indicates a read without a site id.
	ErrEmptySiteID = errors.New("postgres: empty site id")
)

// Tables names the source tables read by SourceReader.
type Tables struct {
	Transactions string
	Prices       string
	Costs        string
	Telemetry    string
	Electricity  string
}

// DefaultTables returns the table names created by the migrations.
func DefaultTables() Tables {
	return Tables{
		Transactions: "pool_transactions",
		Prices:       "btc_prices",
		Costs:        "production_costs",
		Telemetry:    "site_telemetry",
		Electricity:  "electricity_records",
	}
}

// SourceReader reads report inputs from Postgres.
type SourceReader struct {
	db     *sql.DB
	tables Tables
}

// ReaderOption configures the reader.
type ReaderOption func(*SourceReader)

// WithTables overrides the default table names. Empty names are ignored.
func WithTables(tables Tables) ReaderOption {
	return func(r *SourceReader) {
		if tables.Transactions != "" {
			r.tables.Transactions = tables.Transactions
		}
		if tables.Prices != "" {
			r.tables.Prices = tables.Prices
		}
		if tables.Costs != "" {
			r.tables.Costs = tables.Costs
		}
		if tables.Telemetry != "" {
			r.tables.Telemetry = tables.Telemetry
		}
		if tables.Electricity != "" {
			r.tables.Electricity = tables.Electricity
		}
	}
}

// NewSourceReader constructs a reader.
func NewSourceReader(db *sql.DB, opts ...ReaderOption) *SourceReader {
	r := &SourceReader{db: db, tables: DefaultTables()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadInputs loads every source for siteID whose UTC day starts in
// [StartOfDay(from), to), so a partial first or last day is read whole.
// Prices are not site scoped; cost records of every site are returned and
// scoped later by the cost adapter.
func (r *SourceReader) ReadInputs(ctx context.Context, siteID string, from, to time.Time) (sources.Inputs, error) {
	if r == nil || r.db == nil {
		return sources.Inputs{}, ErrNilDB
	}
	if siteID == "" {
		return sources.Inputs{}, ErrEmptySiteID
	}
	from, to = dayBounds(from, to)

	var (
		in  sources.Inputs
		err error
	)
	if in.Transactions, err = r.readTransactions(ctx, siteID, from, to); err != nil {
		return sources.Inputs{}, fmt.Errorf("postgres: read transactions: %w", err)
	}
	if in.Prices, err = r.readPrices(ctx, from, to); err != nil {
		return sources.Inputs{}, fmt.Errorf("postgres: read prices: %w", err)
	}
	if in.Costs, err = r.readCosts(ctx, from, to); err != nil {
		return sources.Inputs{}, fmt.Errorf("postgres: read costs: %w", err)
	}
	if in.Telemetry, err = r.readTelemetry(ctx, siteID, from, to); err != nil {
		return sources.Inputs{}, fmt.Errorf("postgres: read telemetry: %w", err)
	}
	if in.Electricity, err = r.readElectricity(ctx, siteID, from, to); err != nil {
		return sources.Inputs{}, fmt.Errorf("postgres: read electricity: %w", err)
	}
	return in, nil
}

func (r *SourceReader) readTransactions(ctx context.Context, siteID string, from, to time.Time) ([]sources.TransactionBatch, error) {
	query := fmt.Sprintf(`
SELECT
	ts,
	changed_balance,
	tx_fee,
	satoshis_net_earned,
	fees_collected_satoshis
FROM %s
WHERE site_id = $1
	AND ts >= $2
	AND ts < $3
ORDER BY ts ASC`, r.tables.Transactions)

	rows, err := r.db.QueryContext(ctx, query, siteID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []sources.TransactionBatch
	for rows.Next() {
		var (
			ts                              time.Time
			changed, fee, satoshis, feeSats sql.NullFloat64
		)
		if err := rows.Scan(&ts, &changed, &fee, &satoshis, &feeSats); err != nil {
			return nil, err
		}
		tx := sources.Transaction{
			ChangedBalance:        nullable(changed),
			SatoshisNetEarned:     nullable(satoshis),
			FeesCollectedSatoshis: nullable(feeSats),
		}
		if fee.Valid {
			tx.MiningExtra = &sources.MiningExtra{TxFee: nullable(fee)}
		}
		// Consecutive rows sharing a timestamp form one batch.
		n := len(result)
		if n > 0 && result[n-1].Ts == millis(ts) {
			result[n-1].Transactions = append(result[n-1].Transactions, tx)
			continue
		}
		result = append(result, sources.TransactionBatch{Ts: millis(ts), Transactions: []sources.Transaction{tx}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SourceReader) readPrices(ctx context.Context, from, to time.Time) ([]sources.PriceEntry, error) {
	query := fmt.Sprintf(`
SELECT ts, price_usd
FROM %s
WHERE ts >= $1
	AND ts < $2
ORDER BY ts ASC`, r.tables.Prices)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []sources.PriceEntry
	for rows.Next() {
		var (
			ts    time.Time
			price float64
		)
		if err := rows.Scan(&ts, &price); err != nil {
			return nil, err
		}
		p := price
		result = append(result, sources.PriceEntry{Ts: millis(ts), PriceUSD: &p})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var current float64
	err = r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT price_usd FROM %s ORDER BY ts DESC LIMIT 1`, r.tables.Prices)).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, err
	default:
		result = append(result, sources.PriceEntry{CurrentPrice: &current})
	}
	return result, nil
}

func (r *SourceReader) readCosts(ctx context.Context, from, to time.Time) ([]sources.CostRecord, error) {
	query := fmt.Sprintf(`
SELECT site, year, month, energy_cost, operational_cost
FROM %s
WHERE make_date(year, month, 1) >= date_trunc('month', $1::timestamptz AT TIME ZONE 'UTC')::date
	AND make_date(year, month, 1) < ($2::timestamptz AT TIME ZONE 'UTC')::date
ORDER BY year ASC, month ASC, site ASC`, r.tables.Costs)

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []sources.CostRecord
	for rows.Next() {
		var (
			rec                 sources.CostRecord
			energy, operational sql.NullFloat64
		)
		if err := rows.Scan(&rec.Site, &rec.Year, &rec.Month, &energy, &operational); err != nil {
			return nil, err
		}
		rec.EnergyCost = nullable(energy)
		rec.OperationalCost = nullable(operational)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SourceReader) readTelemetry(ctx context.Context, siteID string, from, to time.Time) ([]sources.TelemetrySeries, error) {
	query := fmt.Sprintf(`
SELECT series_type, ts, hashrate_mhs, site_power_w
FROM %s
WHERE site_id = $1
	AND ts >= $2
	AND ts < $3
ORDER BY series_type ASC, ts ASC`, r.tables.Telemetry)

	rows, err := r.db.QueryContext(ctx, query, siteID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []sources.TelemetrySeries
	for rows.Next() {
		var (
			seriesType      string
			ts              time.Time
			hashrate, power sql.NullFloat64
		)
		if err := rows.Scan(&seriesType, &ts, &hashrate, &power); err != nil {
			return nil, err
		}
		sample := sources.TelemetrySample{
			Ts: millis(ts),
			Val: sources.TelemetryValue{
				HashrateMHS5mSumAggr: nullable(hashrate),
				SitePowerW:           nullable(power),
			},
		}
		n := len(result)
		if n == 0 || result[n-1].Type != seriesType {
			result = append(result, sources.TelemetrySeries{Type: seriesType})
			n++
		}
		result[n-1].Data = append(result[n-1].Data, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SourceReader) readElectricity(ctx context.Context, siteID string, from, to time.Time) ([]sources.ElectricityRecord, error) {
	query := fmt.Sprintf(`
SELECT ts, used_energy, available_energy
FROM %s
WHERE site_id = $1
	AND ts >= $2
	AND ts < $3
ORDER BY ts ASC`, r.tables.Electricity)

	rows, err := r.db.QueryContext(ctx, query, siteID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []sources.ElectricityRecord
	for rows.Next() {
		var (
			ts              time.Time
			used, available sql.NullFloat64
		)
		if err := rows.Scan(&ts, &used, &available); err != nil {
			return nil, err
		}
		result = append(result, sources.ElectricityRecord{
			Ts: millis(ts),
			Energy: &sources.EnergyReading{
				UsedEnergy:      nullable(used),
				AvailableEnergy: nullable(available),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// dayBounds widens [from, to) to whole UTC days: the day holding from through
// the end of the last day starting before to.
func dayBounds(from, to time.Time) (time.Time, time.Time) {
	lo := timeseries.StartOfDay(timeseries.FromTime(from))
	hi := timeseries.StartOfDay(timeseries.FromTime(to))
	if hi < timeseries.FromTime(to) {
		hi += timeseries.DayMs
	}
	return timeseries.ToTime(lo), timeseries.ToTime(hi)
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func millis(t time.Time) sources.Millis {
	return sources.Millis(timeseries.FromTime(t.UTC()))
}
