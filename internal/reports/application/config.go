package application

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"mining-dashboard/internal/analytics/domain/timeseries"
)

// CostSiteAll makes a site's reports sum cost records of every site.
const CostSiteAll = "*"

// SiteParams are the per-site constants the report pipeline needs.
type SiteParams struct {
	NominalAvailablePowerMWh float64 `yaml:"nominal_available_power_mwh"`
	NominalHashrateMHS       float64 `yaml:"nominal_hashrate_mhs"`
	// CostSite selects cost records; empty means the site's own id.
	CostSite string `yaml:"cost_site"`
}

// Config defines report configuration.
type Config struct {
	Defaults      SiteParams            `yaml:"defaults"`
	Sites         map[string]SiteParams `yaml:"sites"`
	DefaultPeriod string                `yaml:"default_period"`
	MaxRangeDays  int                   `yaml:"max_range_days"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Defaults: SiteParams{
			NominalAvailablePowerMWh: 22.5,
		},
		DefaultPeriod: string(timeseries.PeriodDaily),
		MaxRangeDays:  3660,
	}
}

// LoadConfig loads config from the yaml file named by REPORTS_CONFIG, then
// applies env overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("REPORTS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reports: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("reports: parse config: %w", err)
		}
	}

	cfg.Defaults.NominalAvailablePowerMWh = getenvFloatDefault("REPORTS_NOMINAL_AVAILABLE_POWER_MWH", cfg.Defaults.NominalAvailablePowerMWh)
	cfg.Defaults.NominalHashrateMHS = getenvFloatDefault("REPORTS_NOMINAL_HASHRATE_MHS", cfg.Defaults.NominalHashrateMHS)
	cfg.DefaultPeriod = getenvDefault("REPORTS_DEFAULT_PERIOD", cfg.DefaultPeriod)
	cfg.MaxRangeDays = getenvIntDefault("REPORTS_MAX_RANGE_DAYS", cfg.MaxRangeDays)

	if !timeseries.PeriodType(cfg.DefaultPeriod).IsValid() {
		return cfg, fmt.Errorf("reports: invalid default_period %q", cfg.DefaultPeriod)
	}
	if cfg.Defaults.NominalAvailablePowerMWh < 0 || cfg.Defaults.NominalHashrateMHS < 0 {
		return cfg, fmt.Errorf("reports: nominal site figures must not be negative")
	}
	return cfg, nil
}

// ParamsForSite returns defaults merged with the site's overrides.
func (c Config) ParamsForSite(siteID string) SiteParams {
	params := c.Defaults
	if override, ok := c.Sites[siteID]; ok {
		params = mergeParams(params, override)
	}
	if params.CostSite == "" {
		params.CostSite = siteID
	}
	return params
}

// CostScope is the site filter passed to the cost adapter.
func (p SiteParams) CostScope() string {
	if p.CostSite == CostSiteAll {
		return ""
	}
	return p.CostSite
}

func mergeParams(base, override SiteParams) SiteParams {
	if override.NominalAvailablePowerMWh != 0 {
		base.NominalAvailablePowerMWh = override.NominalAvailablePowerMWh
	}
	if override.NominalHashrateMHS != 0 {
		base.NominalHashrateMHS = override.NominalHashrateMHS
	}
	if override.CostSite != "" {
		base.CostSite = override.CostSite
	}
	return base
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
