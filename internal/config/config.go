package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dannijak/IS-Macro/internal/collector"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL           string `yaml:"base_url"`
		SeriesID          int    `yaml:"series_id"`
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
		RetryMax          int    `yaml:"retry_max"`
		LookbackMonths    int    `yaml:"lookback_months"`
		StrictMonthBounds bool   `yaml:"strict_month_bounds"`
		Offline           bool   `yaml:"offline"`
	} `yaml:"data_source"`
	Cache struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Sync struct {
		Cron string `yaml:"cron"`
		From string `yaml:"from"`
	} `yaml:"sync"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("CBI_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("PENALTY_SERIES_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.SeriesID = id
		}
	}
	if v := os.Getenv("PENALTY_LOOKBACK_MONTHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.LookbackMonths = n
		}
	}
	if v := os.Getenv("PENALTY_OFFLINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DataSource.Offline = b
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SYNC"); v != "" {
		cfg.Sync.Cron = v
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = collector.DefaultCBIBaseURL
	}
	if cfg.DataSource.SeriesID == 0 {
		cfg.DataSource.SeriesID = collector.PenaltyRateSeriesID
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.DataSource.LookbackMonths == 0 {
		cfg.DataSource.LookbackMonths = collector.DefaultLookbackMonths
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 60
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/penalty.db"
	}
	if cfg.Sync.Cron == "" {
		// 06:00 on the 2nd of every month, after the monthly publication.
		cfg.Sync.Cron = "0 0 6 2 * *"
	}
	if cfg.Sync.From == "" {
		cfg.Sync.From = "2001-01-01"
	}

	return cfg, nil
}

// Validate checks that all fields are usable.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.DataSource.SeriesID <= 0 {
		return fmt.Errorf("data_source.series_id must be positive")
	}
	if c.DataSource.TimeoutSeconds <= 0 {
		return fmt.Errorf("data_source.timeout_seconds must be positive")
	}
	if c.DataSource.RetryMax < 0 {
		return fmt.Errorf("data_source.retry_max must not be negative")
	}
	if c.DataSource.LookbackMonths < 0 {
		return fmt.Errorf("data_source.lookback_months must not be negative")
	}
	if c.DataSource.Offline && c.Database.SQLitePath == "" {
		return fmt.Errorf("data_source.offline requires database.sqlite_path")
	}
	if _, err := c.SyncFrom(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the HTTP timeout for the rate feed.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// CacheTTL returns the in-memory rate cache lifetime. Negative disables it.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLMinutes < 0 {
		return 0
	}
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// Lookback returns the effective look-back in months, 0 when strict month
// bounds are requested.
func (c *Config) Lookback() int {
	if c.DataSource.StrictMonthBounds {
		return 0
	}
	return c.DataSource.LookbackMonths
}

// SyncFrom returns the first date the rate sync downloads.
func (c *Config) SyncFrom() (civil.Date, error) {
	d, err := civil.ParseDate(c.Sync.From)
	if err != nil {
		return civil.Date{}, fmt.Errorf("sync.from: %w", err)
	}
	return d, nil
}
