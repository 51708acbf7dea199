// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"shipquote/internal/logging"
)

// DefaultExchangeRate converts the client currency into the pricing
// currency (0.88 pricing units per client unit).
var DefaultExchangeRate = decimal.RequireFromString("0.88")

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// ExchangeRate is the client-to-pricing currency conversion rate
	// applied when a deal file does not set its own
	ExchangeRate decimal.Decimal `json:"exchange_rate"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (cli, json)
	DefaultFormat string `json:"default_format"`

	// NoColor disables ANSI colors in CLI output
	NoColor bool `json:"no_color"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version:      "1.0",
		ExchangeRate: DefaultExchangeRate,
		Output: OutputConfig{
			DefaultFormat: "cli",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, then applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := json.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overlays SHIPQUOTE_* environment variables, loading a local
// .env file first if one exists.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("SHIPQUOTE_EXCHANGE_RATE"); v != "" {
		if rate, err := decimal.NewFromString(v); err == nil && rate.IsPositive() {
			c.ExchangeRate = rate
		}
	}
	if v := os.Getenv("SHIPQUOTE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SHIPQUOTE_NO_COLOR"); v != "" {
		if noColor, err := strconv.ParseBool(v); err == nil {
			c.Output.NoColor = noColor
		}
	}
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
