// Package app assembles the dependency graph shared by the server and the CLI.
package app

import (
	"fmt"

	"github.com/damon-houk/fx-inflation-monitor/internal/application/service"
	"github.com/damon-houk/fx-inflation-monitor/internal/config"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/repository"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/api"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/cache"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/httpx"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Wire bundles the clients, cache and service built from a Config.
type Wire struct {
	Config    *config.Config
	Logger    logger.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Recorder
	Rates     repository.ExchangeRateRepository
	Inflation repository.InflationRepository
	Service   *service.MarketService

	store cache.Store
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg *config.Config, log logger.Logger) (*Wire, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	w := &Wire{Config: cfg, Logger: log}

	// Metrics are optional; a nil recorder records nothing
	if cfg.Metrics.Enabled {
		w.Registry = prometheus.NewRegistry()
		w.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		w.Metrics = metrics.New(w.Registry)
	}

	// One HTTP client for both upstreams
	httpClient := httpx.New(cfg.Upstream.Timeout, cfg.Upstream.UserAgent)

	var rates repository.ExchangeRateRepository = api.NewFrankfurterClient(
		api.WithBaseURL(cfg.Upstream.FrankfurterURL),
		api.WithHTTPClient(httpClient),
		api.WithLogger(log),
		api.WithMetrics(w.Metrics),
		api.WithRateWindow(cfg.Analytics.RateWindowDays, cfg.Analytics.SameCurrencyPoints),
	)
	var inflation repository.InflationRepository = api.NewWorldBankClient(
		api.WithBaseURL(cfg.Upstream.WorldBankURL),
		api.WithHTTPClient(httpClient),
		api.WithLogger(log),
		api.WithMetrics(w.Metrics),
		api.WithIndicator(cfg.Upstream.WorldBankIndicator, cfg.Upstream.WorldBankPerPage),
	)

	if cfg.Cache.Enabled {
		store, err := newStore(cfg.Cache.Backend)
		if err != nil {
			return nil, err
		}
		w.store = store

		memo := cache.NewMemo(store, cfg.Cache.TTL, log, w.Metrics)
		rates = cache.NewCachedExchangeRateRepository(rates, memo, log)
		inflation = cache.NewCachedInflationRepository(inflation, memo, cfg.Cache.GlobalTTL, log)
	}

	w.Rates = rates
	w.Inflation = inflation
	w.Service = service.NewMarketService(rates, inflation, service.Settings{
		TrailingYears:  cfg.Analytics.TrailingYears,
		RateWindowDays: cfg.Analytics.RateWindowDays,
	}, log)

	log.Info("Dependencies wired", map[string]interface{}{
		"cache_enabled":   cfg.Cache.Enabled,
		"cache_backend":   cfg.Cache.Backend,
		"metrics_enabled": cfg.Metrics.Enabled,
		"frankfurter_url": cfg.Upstream.FrankfurterURL,
		"worldbank_url":   cfg.Upstream.WorldBankURL,
	})

	return w, nil
}

func newStore(backend string) (cache.Store, error) {
	switch backend {
	case config.CacheBackendBadger:
		return cache.OpenBadgerStore()
	case config.CacheBackendMemory, "":
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// Close releases the cache store
func (w *Wire) Close() error {
	if w.store == nil {
		return nil
	}
	return w.store.Close()
}
