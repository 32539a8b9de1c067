package api

import (
	"strings"
	"time"

	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/httpx"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/metrics"
)

// Option configures a FrankfurterClient or a WorldBankClient
type Option func(*clientConfig)

type clientConfig struct {
	baseURL            string
	http               *httpx.Client
	logger             logger.Logger
	metrics            *metrics.Recorder
	now                func() time.Time
	rateWindowDays     int
	sameCurrencyPoints int
	indicator          string
	perPage            int
	countries          []entity.Country
}

func newClientConfig(baseURL string, opts []Option) clientConfig {
	cfg := clientConfig{
		baseURL:            baseURL,
		now:                time.Now,
		rateWindowDays:     defaultRateWindowDays,
		sameCurrencyPoints: defaultSameCurrencyPoints,
		indicator:          defaultIndicator,
		perPage:            defaultPerPage,
		countries:          DefaultCountries(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.http == nil {
		cfg.http = httpx.New(10*time.Second, "fx-inflation-monitor/1.0")
	}
	if cfg.logger == nil {
		cfg.logger = logger.GetDefaultLogger()
	}
	cfg.baseURL = strings.TrimRight(cfg.baseURL, "/")

	return cfg
}

func (c clientConfig) fetcher() fetcher {
	return fetcher{http: c.http, logger: c.logger, metrics: c.metrics}
}

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for upstream calls
func WithHTTPClient(client *httpx.Client) Option {
	return func(c *clientConfig) {
		c.http = client
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(c *clientConfig) {
		c.logger = log
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *clientConfig) {
		c.metrics = rec
	}
}

// WithClock replaces time.Now, used for default date windows
func WithClock(now func() time.Time) Option {
	return func(c *clientConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRateWindow sets the default look-back in days and the length of the
// synthetic same-currency series
func WithRateWindow(days, sameCurrencyPoints int) Option {
	return func(c *clientConfig) {
		if days > 0 {
			c.rateWindowDays = days
		}
		if sameCurrencyPoints > 0 {
			c.sameCurrencyPoints = sameCurrencyPoints
		}
	}
}

// WithIndicator sets the World Bank indicator code and the page size of the
// all-countries request
func WithIndicator(code string, perPage int) Option {
	return func(c *clientConfig) {
		if code != "" {
			c.indicator = code
		}
		if perPage > 0 {
			c.perPage = perPage
		}
	}
}

// WithCountries replaces the supported country table
func WithCountries(countries []entity.Country) Option {
	return func(c *clientConfig) {
		if len(countries) > 0 {
			c.countries = countries
		}
	}
}
