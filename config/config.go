package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTableCount     = 10
	DefaultPricePerMinute = 2.0
	DefaultCurrency       = "RUB"
	DefaultLedgerDSN      = "file::memory:?cache=shared"
	DefaultLogOutput      = "anticafe.log"
)

// Config represents the overall application configuration.
type Config struct {
	Tables  TablesConfig  `yaml:"tables"`
	Billing BillingConfig `yaml:"billing"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Log     LogConfig     `yaml:"log"`
}

// TablesConfig holds the venue layout.
type TablesConfig struct {
	Count int `yaml:"count"`
}

// BillingConfig holds the starting tariff. The price can be changed at runtime.
type BillingConfig struct {
	PricePerMinute *float64 `yaml:"price_per_minute"`
	Currency       string   `yaml:"currency"`
}

// LedgerConfig selects where completed visits are kept for the session.
type LedgerConfig struct {
	Driver   string `yaml:"driver"` // "sqlite" or "memory"
	DSN      string `yaml:"dsn"`
	LogLevel string `yaml:"log_level"` // gorm logger: silent, error, warn, info
}

// LogConfig holds the application logger settings.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	Output      string `yaml:"output"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	// An empty file is a document with every key absent.
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("config file %s not found; using defaults", path)
		return Default(), nil
	}
	return cfg, err
}

// Validate rejects settings the venue cannot start with.
func (c *Config) Validate() error {
	if c.Tables.Count < 1 {
		return fmt.Errorf("tables.count must be at least 1, got %d", c.Tables.Count)
	}
	if p := c.Billing.PricePerMinute; p != nil && *p < 0 {
		return fmt.Errorf("billing.price_per_minute must not be negative, got %v", *p)
	}
	switch c.Ledger.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown ledger.driver %q", c.Ledger.Driver)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Tables.Count == 0 {
		cfg.Tables.Count = DefaultTableCount
	}

	// Zero is a valid tariff, so only an absent key falls back to the default.
	if cfg.Billing.PricePerMinute == nil {
		p := DefaultPricePerMinute
		cfg.Billing.PricePerMinute = &p
	}
	if cfg.Billing.Currency == "" {
		cfg.Billing.Currency = DefaultCurrency
	}

	if cfg.Ledger.Driver == "" {
		cfg.Ledger.Driver = "sqlite"
	}
	if cfg.Ledger.DSN == "" {
		cfg.Ledger.DSN = DefaultLedgerDSN
	}
	if cfg.Ledger.LogLevel == "" {
		cfg.Ledger.LogLevel = "warn"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = DefaultLogOutput
	}
}
