package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"StockPilot/internal/calculator"
	"StockPilot/internal/fundamentals"
)

// Config holds all application configuration.
type Config struct {
	Alpaca struct {
		TradingURL string `yaml:"trading_url"`
		DataURL    string `yaml:"data_url"`
		KeyID      string `yaml:"key_id"`
		SecretKey  string `yaml:"secret_key"`
	} `yaml:"alpaca"`

	Market struct {
		Timeframe    string   `yaml:"timeframe"`     // "1Hour" or "1Day"
		TPM          int      `yaml:"tpm"`           // bars per trading day
		LookbackDays int      `yaml:"lookback_days"` // calendar days of history fetched
		Symbols      []string `yaml:"symbols"`       // scan universe
	} `yaml:"market"`

	Technical struct {
		RSIPeriod   int `yaml:"rsi_period"`
		StochFast   int `yaml:"stoch_fast"`
		StochSlow   int `yaml:"stoch_slow"`
		MACDFast    int `yaml:"macd_fast"`
		MACDSlow    int `yaml:"macd_slow"`
		MACDSignal  int `yaml:"macd_signal"`
		ADRPeriod   int `yaml:"adr_period"`
		MAShortDays int `yaml:"ma_short_days"`
		MALongDays  int `yaml:"ma_long_days"`
	} `yaml:"technical"`

	Trading struct {
		DryRun            bool    `yaml:"dry_run"`
		PaperCash         float64 `yaml:"paper_cash"`
		MinBuyScore       int     `yaml:"min_buy_score"`
		ShortMarginBuffer float64 `yaml:"short_margin_buffer"`
		EnableShorts      *bool   `yaml:"enable_shorts"`
		MissingDebtPolicy string  `yaml:"missing_debt_policy"`
	} `yaml:"trading"`

	Schedule struct {
		ScanCron  string `yaml:"scan_cron"`
		TradeCron string `yaml:"trade_cron"`
	} `yaml:"schedule"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	Scanner struct {
		Workers int `yaml:"workers"`
	} `yaml:"scanner"`

	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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

	// Environment variable overrides. Credentials come from the same names
	// the Alpaca SDKs use, so a plain .env file works.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.KeyID = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.SecretKey = v
	}
	if v := os.Getenv("APCA_ENDPOINT"); v != "" {
		cfg.Alpaca.TradingURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("DRY_RUN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Trading.DryRun = b
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Alpaca.TradingURL == "" {
		c.Alpaca.TradingURL = "https://paper-api.alpaca.markets"
	}
	if c.Alpaca.DataURL == "" {
		c.Alpaca.DataURL = "https://data.alpaca.markets"
	}
	if c.Market.Timeframe == "" {
		c.Market.Timeframe = "1Hour"
	}
	if c.Market.TPM == 0 {
		if c.Market.Timeframe == "1Day" {
			c.Market.TPM = 1
		} else {
			c.Market.TPM = 7 // regular US session hours
		}
	}
	if c.Market.LookbackDays == 0 {
		c.Market.LookbackDays = 400
	}

	t := &c.Technical
	if t.RSIPeriod == 0 {
		t.RSIPeriod = 14
	}
	if t.StochFast == 0 {
		t.StochFast = 3
	}
	if t.StochSlow == 0 {
		t.StochSlow = 14
	}
	if t.MACDFast == 0 {
		t.MACDFast = 12
	}
	if t.MACDSlow == 0 {
		t.MACDSlow = 26
	}
	if t.MACDSignal == 0 {
		t.MACDSignal = 9
	}
	if t.ADRPeriod == 0 {
		t.ADRPeriod = 7
	}
	if t.MAShortDays == 0 {
		t.MAShortDays = 50
	}
	if t.MALongDays == 0 {
		t.MALongDays = 200
	}

	if c.Trading.MinBuyScore == 0 {
		c.Trading.MinBuyScore = 8
	}
	if c.Trading.ShortMarginBuffer == 0 {
		c.Trading.ShortMarginBuffer = 0.95
	}
	if c.Trading.EnableShorts == nil {
		enabled := true
		c.Trading.EnableShorts = &enabled
	}
	if c.Trading.MissingDebtPolicy == "" {
		c.Trading.MissingDebtPolicy = string(fundamentals.AssumeLowRisk)
	}
	if c.Trading.PaperCash == 0 {
		c.Trading.PaperCash = 100000
	}

	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 0 7 * * 1-5"
	}
	if c.Schedule.TradeCron == "" {
		c.Schedule.TradeCron = "0 45 9 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/stockdb.sqlite"
	}
	if c.Scanner.Workers == 0 {
		c.Scanner.Workers = 4
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if !c.Trading.DryRun {
		if c.Alpaca.KeyID == "" || c.Alpaca.SecretKey == "" {
			return fmt.Errorf("alpaca credentials are required unless trading.dry_run is set")
		}
	}
	if c.Market.TPM <= 0 {
		return fmt.Errorf("market.tpm must be positive")
	}
	if c.Trading.ShortMarginBuffer <= 0 || c.Trading.ShortMarginBuffer > 1 {
		return fmt.Errorf("trading.short_margin_buffer must be in (0, 1]")
	}
	switch fundamentals.MissingDebtPolicy(c.Trading.MissingDebtPolicy) {
	case fundamentals.AssumeLowRisk, fundamentals.RequireDebtField:
	default:
		return fmt.Errorf("trading.missing_debt_policy must be %q or %q",
			fundamentals.AssumeLowRisk, fundamentals.RequireDebtField)
	}
	return nil
}

// IndicatorParams maps the technical section onto calculator parameters.
func (c *Config) IndicatorParams() calculator.Params {
	return calculator.Params{
		RSIPeriod:   c.Technical.RSIPeriod,
		StochFast:   c.Technical.StochFast,
		StochSlow:   c.Technical.StochSlow,
		MACDFast:    c.Technical.MACDFast,
		MACDSlow:    c.Technical.MACDSlow,
		MACDSignal:  c.Technical.MACDSignal,
		ADRPeriod:   c.Technical.ADRPeriod,
		MAShortDays: c.Technical.MAShortDays,
		MALongDays:  c.Technical.MALongDays,
	}
}
