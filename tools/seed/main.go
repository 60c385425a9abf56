package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"mining-dashboard/internal/analytics/domain/sources"
)

type config struct {
	dsn        string
	out        string
	sitePrefix string
	siteCount  int
	startDate  string
	days       int
	basePrice  float64
}

func main() {
	cfg := parseConfig()
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.siteCount <= 0 {
		logger.Fatal("site-count must be > 0")
	}
	if cfg.days <= 0 {
		logger.Fatal("days must be > 0")
	}
	if cfg.dsn == "" && cfg.out == "" {
		logger.Fatal("one of pg-dsn or out is required")
	}
	start, err := parseStartDate(cfg.startDate)
	if err != nil {
		logger.WithError(err).Fatal("invalid start-date")
	}

	sites := buildSiteIDs(cfg.sitePrefix, cfg.siteCount)
	payloads := make(map[string]sitePayload, len(sites))
	for idx, siteID := range sites {
		payloads[siteID] = generateSite(siteID, idx, start, cfg.days, cfg.basePrice)
	}

	if cfg.out != "" {
		if err := writeSeedFile(cfg.out, payloads); err != nil {
			logger.WithError(err).Fatal("write seed file")
		}
		logger.WithFields(logrus.Fields{"file": cfg.out, "sites": len(sites), "days": cfg.days}).Info("seed file written")
	}

	if cfg.dsn != "" {
		db, err := sql.Open("pgx", cfg.dsn)
		if err != nil {
			logger.WithError(err).Fatal("open db")
		}
		defer db.Close()

		ctx := context.Background()
		if err := seedPrices(ctx, db, payloads[sites[0]].Prices); err != nil {
			logger.WithError(err).Fatal("seed prices")
		}
		for idx, siteID := range sites {
			if err := seedSite(ctx, db, siteID, payloads[siteID]); err != nil {
				logger.WithError(err).WithField("site", siteID).Fatal("seed site")
			}
			logger.Infof("seeded site %s (%d/%d)", siteID, idx+1, len(sites))
		}
	}

	logger.Info("seed completed")
}

func parseConfig() config {
	cfg := config{}
	flag.StringVar(&cfg.dsn, "pg-dsn", envOrDefault("PG_DSN", envOrDefault("DATABASE_URL", "")), "Postgres DSN")
	flag.StringVar(&cfg.out, "out", envOrDefault("SEED_OUT", ""), "output JSON file for the in-memory source store")
	flag.StringVar(&cfg.sitePrefix, "site-prefix", envOrDefault("SITE_PREFIX", "site-"), "site id prefix")
	flag.IntVar(&cfg.siteCount, "site-count", envOrInt("SITE_COUNT", 2), "number of sites to seed")
	flag.StringVar(&cfg.startDate, "start-date", envOrDefault("START_DATE", ""), "start date (YYYY-MM-DD or RFC3339)")
	flag.IntVar(&cfg.days, "days", envOrInt("DAYS", 60), "number of days to seed")
	flag.Float64Var(&cfg.basePrice, "base-price", envOrFloat("BASE_PRICE", 60000), "BTC price on the first day")
	flag.Parse()
	return cfg
}

// sitePayload mirrors the raw source arrays the memory store loads.
type sitePayload struct {
	Transactions []sources.TransactionBatch  `json:"transactions"`
	Prices       []sources.PriceEntry        `json:"prices"`
	Costs        []sources.CostRecord        `json:"costs"`
	Telemetry    []sources.TelemetrySeries   `json:"telemetry"`
	Electricity  []sources.ElectricityRecord `json:"electricity"`
}

// generateSite builds deterministic daily data. idx shifts the scale so
// sites differ.
func generateSite(siteID string, idx int, start time.Time, days int, basePrice float64) sitePayload {
	scale := float64(idx%5 + 1)
	start = start.UTC().Truncate(24 * time.Hour)

	var (
		payload  sitePayload
		hashrate []sources.TelemetrySample
		power    []sources.TelemetrySample
		months   = map[[2]int]bool{}
	)
	for day := 0; day < days; day++ {
		dayStart := start.AddDate(0, 0, day)
		ts := sources.Millis(dayStart.UnixMilli())

		revenue := 0.02*scale + float64(day%7)*0.001
		fee := revenue * 0.05
		payload.Transactions = append(payload.Transactions, sources.TransactionBatch{
			Ts: ts,
			Transactions: []sources.Transaction{{
				ChangedBalance: ptr(revenue),
				MiningExtra:    &sources.MiningExtra{TxFee: ptr(fee)},
			}},
		})
		payload.Prices = append(payload.Prices, sources.PriceEntry{
			Ts:       ts,
			PriceUSD: ptr(basePrice + float64(day)*50),
		})

		hashrate = append(hashrate, sources.TelemetrySample{
			Ts:  ts,
			Val: sources.TelemetryValue{HashrateMHS5mSumAggr: ptr(9e6*scale - float64(day%5)*1e5)},
		})
		// Every tenth day the power meter is offline.
		if day%10 != 9 {
			power = append(power, sources.TelemetrySample{
				Ts:  ts,
				Val: sources.TelemetryValue{SitePowerW: ptr(4e6*scale - float64(day%3)*2e5)},
			})
		}
		payload.Electricity = append(payload.Electricity, sources.ElectricityRecord{
			Ts: ts,
			Energy: &sources.EnergyReading{
				UsedEnergy:      ptr(160000*scale - float64(day%4)*5000),
				AvailableEnergy: ptr(190000 * scale),
			},
		})
		months[[2]int{dayStart.Year(), int(dayStart.Month())}] = true
	}

	for day := 0; day < days; day++ {
		dayStart := start.AddDate(0, 0, day)
		key := [2]int{dayStart.Year(), int(dayStart.Month())}
		if !months[key] {
			continue
		}
		delete(months, key)
		payload.Costs = append(payload.Costs, sources.CostRecord{
			Site:            siteID,
			Year:            key[0],
			Month:           key[1],
			EnergyCost:      ptr(45000 * scale),
			OperationalCost: ptr(15000 * scale),
		})
	}

	payload.Telemetry = []sources.TelemetrySeries{
		{Type: sources.SeriesMiner, Data: hashrate},
		{Type: sources.SeriesPowermeter, Data: power},
	}
	if n := len(payload.Prices); n > 0 {
		current := *payload.Prices[n-1].PriceUSD * 1.02
		payload.Prices = append(payload.Prices, sources.PriceEntry{CurrentPrice: &current})
	}
	return payload
}

func writeSeedFile(path string, payloads map[string]sitePayload) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func seedPrices(ctx context.Context, db *sql.DB, prices []sources.PriceEntry) error {
	const insertSQL = `
INSERT INTO btc_prices (ts, price_usd) VALUES ($1, $2)
ON CONFLICT (ts) DO UPDATE SET price_usd = EXCLUDED.price_usd`

	return inTx(ctx, db, insertSQL, func(stmt *sql.Stmt) error {
		for _, p := range prices {
			if p.PriceUSD == nil {
				continue
			}
			if _, err := stmt.ExecContext(ctx, millisTime(p.Ts), *p.PriceUSD); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedSite(ctx context.Context, db *sql.DB, siteID string, payload sitePayload) error {
	if err := inTx(ctx, db, `
INSERT INTO pool_transactions (site_id, ts, changed_balance, tx_fee) VALUES ($1, $2, $3, $4)`,
		func(stmt *sql.Stmt) error {
			for _, batch := range payload.Transactions {
				for _, tx := range batch.Transactions {
					var fee *float64
					if tx.MiningExtra != nil {
						fee = tx.MiningExtra.TxFee
					}
					if _, err := stmt.ExecContext(ctx, siteID, millisTime(batch.Ts), tx.ChangedBalance, fee); err != nil {
						return err
					}
				}
			}
			return nil
		}); err != nil {
		return fmt.Errorf("transactions: %w", err)
	}

	if err := inTx(ctx, db, `
INSERT INTO production_costs (site, year, month, energy_cost, operational_cost) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (site, year, month)
DO UPDATE SET
	energy_cost = EXCLUDED.energy_cost,
	operational_cost = EXCLUDED.operational_cost`,
		func(stmt *sql.Stmt) error {
			for _, c := range payload.Costs {
				if _, err := stmt.ExecContext(ctx, c.Site, c.Year, c.Month, c.EnergyCost, c.OperationalCost); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return fmt.Errorf("costs: %w", err)
	}

	if err := inTx(ctx, db, `
INSERT INTO site_telemetry (site_id, ts, series_type, hashrate_mhs, site_power_w) VALUES ($1, $2, $3, $4, $5)`,
		func(stmt *sql.Stmt) error {
			for _, series := range payload.Telemetry {
				for _, sample := range series.Data {
					if _, err := stmt.ExecContext(ctx, siteID, millisTime(sample.Ts), series.Type, sample.Val.HashrateMHS5mSumAggr, sample.Val.SitePowerW); err != nil {
						return err
					}
				}
			}
			return nil
		}); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	if err := inTx(ctx, db, `
INSERT INTO electricity_records (site_id, ts, used_energy, available_energy) VALUES ($1, $2, $3, $4)
ON CONFLICT (site_id, ts)
DO UPDATE SET
	used_energy = EXCLUDED.used_energy,
	available_energy = EXCLUDED.available_energy`,
		func(stmt *sql.Stmt) error {
			for _, rec := range payload.Electricity {
				if rec.Energy == nil {
					continue
				}
				if _, err := stmt.ExecContext(ctx, siteID, millisTime(rec.Ts), rec.Energy.UsedEnergy, rec.Energy.AvailableEnergy); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return fmt.Errorf("electricity: %w", err)
	}
	return nil
}

func inTx(ctx context.Context, db *sql.DB, query string, fn func(*sql.Stmt) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := fn(stmt); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func parseStartDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().UTC().AddDate(0, 0, -60).Truncate(24 * time.Hour), nil
	}
	if strings.Contains(value, "T") {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, err
		}
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

func buildSiteIDs(prefix string, count int) []string {
	list := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		list = append(list, fmt.Sprintf("%s%03d", prefix, i))
	}
	return list
}

func millisTime(ts sources.Millis) time.Time {
	return time.UnixMilli(ts.Int64()).UTC()
}

func ptr(v float64) *float64 { return &v }

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envOrFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
