package reconciliation

import (
	"errors"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config defines reconciliation tuning shared by the ledger and
// settlement services.
type Config struct {
	// Tolerance is the receipt classification epsilon in currency units.
	Tolerance string `yaml:"tolerance"`
	// WindowMonths is the trailing ledger window.
	WindowMonths int `yaml:"window_months"`
	// Currency is an opaque code carried into exports, never formatted.
	Currency string `yaml:"currency"`
}

// LoadConfig loads reconciliation config from defaults, env, and an
// optional YAML file pointed to by RECONCILIATION_CONFIG.
func LoadConfig() (Config, error) {
	cfg := Config{
		Tolerance:    getenvDefault("LEDGER_TOLERANCE", "0.01"),
		WindowMonths: getenvIntDefault("LEDGER_WINDOW_MONTHS", 24),
		Currency:     getenvDefault("CURRENCY", "EUR"),
	}

	if path := os.Getenv("RECONCILIATION_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.WindowMonths <= 0 {
		return cfg, errors.New("reconciliation: window months must be positive")
	}
	if _, err := cfg.Epsilon(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Epsilon parses the configured tolerance.
func (c Config) Epsilon() (decimal.Decimal, error) {
	eps, err := decimal.NewFromString(c.Tolerance)
	if err != nil {
		return decimal.Zero, errors.New("reconciliation: malformed tolerance")
	}
	if eps.IsNegative() {
		return decimal.Zero, errors.New("reconciliation: negative tolerance")
	}
	return eps, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
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
