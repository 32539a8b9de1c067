// Package config loads the monitor settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendBadger = "badger"

	// A dashboard makes up to three sequential upstream calls
	dashboardUpstreamCalls = 3
	writeTimeoutMargin     = 5 * time.Second
)

type Config struct {
	HTTPServer HTTPServer
	Upstream   Upstream
	Analytics  Analytics
	Cache      Cache
	Log        Log
	Metrics    Metrics
}

type HTTPServer struct {
	Port string `env:"HTTP_PORT" env-default:"8080"`
	// Timeout bounds reads; writes get at least three UPSTREAM_TIMEOUTs plus a margin
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"30s"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Upstream struct {
	FrankfurterURL     string        `env:"FRANKFURTER_URL" env-default:"https://api.frankfurter.app"`
	WorldBankURL       string        `env:"WORLDBANK_URL" env-default:"https://api.worldbank.org/v2"`
	WorldBankIndicator string        `env:"WORLDBANK_INDICATOR" env-default:"FP.CPI.TOTL.ZG"`
	WorldBankPerPage   int           `env:"WORLDBANK_PER_PAGE" env-default:"4000"`
	Timeout            time.Duration `env:"UPSTREAM_TIMEOUT" env-default:"10s"`
	UserAgent          string        `env:"USER_AGENT" env-default:"fx-inflation-monitor/1.0"`
}

type Analytics struct {
	RateWindowDays     int `env:"RATE_WINDOW_DAYS" env-default:"180"`
	SameCurrencyPoints int `env:"SAME_CURRENCY_POINTS" env-default:"10"`
	TrailingYears      int `env:"TRAILING_YEARS" env-default:"5"`
}

type Cache struct {
	Enabled   bool          `env:"CACHE_ENABLED" env-default:"true"`
	Backend   string        `env:"CACHE_BACKEND" env-default:"memory"`
	TTL       time.Duration `env:"CACHE_TTL" env-default:"1h"`
	GlobalTTL time.Duration `env:"GLOBAL_CACHE_TTL" env-default:"24h"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"INFO"`
}

type Metrics struct {
	Enabled bool `env:"METRICS_ENABLED" env-default:"true"`
}

// Load reads the environment, after loading .env when present, and validates the result
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))

	switch {
	case c.HTTPServer.Port == "":
		return fmt.Errorf("invalid config: HTTP_PORT must be set")
	case c.Upstream.FrankfurterURL == "" || c.Upstream.WorldBankURL == "":
		return fmt.Errorf("invalid config: upstream URLs must be set")
	case c.Upstream.Timeout <= 0:
		return fmt.Errorf("invalid config: UPSTREAM_TIMEOUT must be positive, got %s", c.Upstream.Timeout)
	case c.Upstream.WorldBankPerPage <= 0:
		return fmt.Errorf("invalid config: WORLDBANK_PER_PAGE must be positive, got %d", c.Upstream.WorldBankPerPage)
	case c.Analytics.RateWindowDays <= 0:
		return fmt.Errorf("invalid config: RATE_WINDOW_DAYS must be positive, got %d", c.Analytics.RateWindowDays)
	case c.Analytics.SameCurrencyPoints <= 0:
		return fmt.Errorf("invalid config: SAME_CURRENCY_POINTS must be positive, got %d", c.Analytics.SameCurrencyPoints)
	case c.Analytics.TrailingYears <= 0:
		return fmt.Errorf("invalid config: TRAILING_YEARS must be positive, got %d", c.Analytics.TrailingYears)
	case c.Cache.TTL <= 0 || c.Cache.GlobalTTL <= 0:
		return fmt.Errorf("invalid config: cache TTLs must be positive")
	case c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendBadger:
		return fmt.Errorf("invalid config: unknown CACHE_BACKEND %q", c.Cache.Backend)
	}

	return nil
}

// WriteTimeout is HTTP_TIMEOUT, raised when needed so a dashboard whose
// upstream calls all run to UPSTREAM_TIMEOUT can still be written
func (c *Config) WriteTimeout() time.Duration {
	needed := dashboardUpstreamCalls*c.Upstream.Timeout + writeTimeoutMargin
	if c.HTTPServer.Timeout > needed {
		return c.HTTPServer.Timeout
	}
	return needed
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	if strings.Contains(c.HTTPServer.Port, ":") {
		return c.HTTPServer.Port
	}
	return ":" + c.HTTPServer.Port
}
