// Package config loads client settings from the environment with working
// defaults, so the CLI runs against a local backend out of the box.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/AdY21850/sweet-shop-manager/internal/pricing"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	StateDir       string

	TaxRate          float64
	FreeShippingOver float64
	ShippingFee      float64
}

func Load() *Config {
	return &Config{
		APIBaseURL:       getEnv("SWEETSHOP_API_URL", "http://localhost:8080/api"),
		RequestTimeout:   getEnvDuration("SWEETSHOP_TIMEOUT", 30*time.Second),
		StateDir:         getEnv("SWEETSHOP_STATE_DIR", defaultStateDir()),
		TaxRate:          getEnvFloat("SWEETSHOP_TAX_RATE", pricing.DefaultTaxRate),
		FreeShippingOver: getEnvFloat("SWEETSHOP_FREE_SHIPPING_OVER", pricing.DefaultFreeShippingOver),
		ShippingFee:      getEnvFloat("SWEETSHOP_SHIPPING_FEE", pricing.DefaultShippingFee),
	}
}

// Calculator builds the pricing calculator from the configured rates.
func (c *Config) Calculator() pricing.Calculator {
	return pricing.NewCalculator(c.TaxRate, c.FreeShippingOver, c.ShippingFee)
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "sweetshop")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
