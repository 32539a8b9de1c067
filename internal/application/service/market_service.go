// Package service internal/application/service/market_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/analytics"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/repository"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/middleware"
)

const (
	DefaultBase    = "USD"
	DefaultTarget  = "EUR"
	DefaultCountry = "India"

	defaultTrailingYears  = 5
	defaultRateWindowDays = 180
)

// Settings tunes the derived metrics of MarketService
type Settings struct {
	// TrailingYears is the window of the average inflation metric
	TrailingYears int
	// RateWindowDays is the default look-back of rate queries, used in insight text
	RateWindowDays int
}

// RateReport is a rate series with its derived metrics
type RateReport struct {
	Series        *entity.RateSeries
	Current       float64
	PercentChange float64
	Volatility    float64
}

// InflationReport is an inflation series with its trailing average
type InflationReport struct {
	Series          entity.InflationSeries
	TrailingAverage float64
	TrailingYears   int
}

// DashboardRequest holds the selections of one dashboard interaction
type DashboardRequest struct {
	Base          string
	Target        string
	Start         civil.Date
	End           civil.Date
	Country       string
	Compare       string
	ShowInflation bool
}

// Dashboard is everything one interaction renders. Each section carries its
// own status; a failed section leaves the others intact.
type Dashboard struct {
	Request    DashboardRequest
	Rates      entity.Result[RateReport]
	Inflation  *entity.Result[InflationReport]
	Comparison *entity.Result[InflationReport]
	Cards      []MetricCard
	Insights   []string
	Sources    []DataSource
}

// MarketService orchestrates fetches and derived metrics
type MarketService struct {
	rates     repository.ExchangeRateRepository
	inflation repository.InflationRepository
	settings  Settings
	logger    logger.Logger
}

// NewMarketService creates a new market service
func NewMarketService(rates repository.ExchangeRateRepository, inflation repository.InflationRepository, settings Settings, log logger.Logger) *MarketService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if settings.TrailingYears <= 0 {
		settings.TrailingYears = defaultTrailingYears
	}
	if settings.RateWindowDays <= 0 {
		settings.RateWindowDays = defaultRateWindowDays
	}

	return &MarketService{
		rates:     rates,
		inflation: inflation,
		settings:  settings,
		logger:    log,
	}
}

// Currencies returns the currency catalog
func (s *MarketService) Currencies(ctx context.Context) entity.Result[entity.CurrencyCatalog] {
	catalog, err := s.rates.FetchCurrencyCatalog(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch currency catalog", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"error":      err.Error(),
		})
		return entity.NewResult(catalog, fmt.Errorf("failed to fetch currencies: %w", err))
	}

	return entity.NewResult(catalog, nil)
}

// Countries lists the countries accepted by InflationReport
func (s *MarketService) Countries() []entity.Country {
	return s.inflation.SupportedCountries()
}

// RateReport fetches a rate series and computes its metrics. Invalid queries
// fail without reaching the repository.
func (s *MarketService) RateReport(ctx context.Context, query entity.RateQuery) entity.Result[RateReport] {
	requestID := middleware.GetRequestID(ctx)
	query = query.Normalize()

	if err := query.Validate(); err != nil {
		return entity.NewResult(RateReport{}, err)
	}

	s.logger.Debug("Fetching rate series", map[string]interface{}{
		"request_id": requestID,
		"base":       query.Base,
		"target":     query.Target,
	})

	series, err := s.rates.FetchRateSeries(ctx, query)
	if err != nil {
		s.logger.Error("Failed to fetch rate series", map[string]interface{}{
			"request_id": requestID,
			"base":       query.Base,
			"target":     query.Target,
			"error":      err.Error(),
		})
		return entity.NewResult(RateReport{}, fmt.Errorf("failed to fetch exchange rates: %w", err))
	}

	report, err := buildRateReport(series)
	if err != nil {
		s.logger.Warn("Rate metrics undefined", map[string]interface{}{
			"request_id": requestID,
			"base":       query.Base,
			"target":     query.Target,
			"error":      err.Error(),
		})
		return entity.NewResult(report, err)
	}

	s.logger.Info("Rate report computed", map[string]interface{}{
		"request_id":     requestID,
		"base":           query.Base,
		"target":         query.Target,
		"points":         series.Len(),
		"percent_change": report.PercentChange,
		"volatility":     report.Volatility,
	})

	return entity.NewResult(report, nil)
}

func buildRateReport(series *entity.RateSeries) (RateReport, error) {
	report := RateReport{Series: series}

	latest, ok := series.Latest()
	if !ok {
		return report, analytics.ErrEmptySeries
	}
	report.Current = latest.Rate

	change, err := analytics.PercentChange(series)
	if err != nil {
		return report, err
	}
	report.PercentChange = change

	volatility, err := analytics.StdDev(series)
	if err != nil {
		return report, err
	}
	report.Volatility = volatility

	return report, nil
}

// InflationReport fetches a country's inflation history and its trailing
// average. An empty history is an empty result, not a failure.
func (s *MarketService) InflationReport(ctx context.Context, country string) entity.Result[InflationReport] {
	requestID := middleware.GetRequestID(ctx)
	report := InflationReport{TrailingYears: s.settings.TrailingYears}

	series, err := s.inflation.FetchCountryInflation(ctx, country)
	report.Series = series
	if err == nil && series.IsEmpty() {
		err = entity.NoData("no inflation data for %s", country)
	}
	if err != nil {
		s.logger.Warn("No inflation report", map[string]interface{}{
			"request_id": requestID,
			"country":    country,
			"error":      err.Error(),
		})
		return entity.NewResult(report, err)
	}

	avg, err := analytics.TrailingAverage(series, s.settings.TrailingYears)
	if err != nil {
		return entity.NewResult(report, err)
	}
	report.TrailingAverage = avg

	s.logger.Info("Inflation report computed", map[string]interface{}{
		"request_id":       requestID,
		"country":          series.Country,
		"years":            series.Len(),
		"trailing_average": avg,
	})

	return entity.NewResult(report, nil)
}

// GlobalSnapshot returns the latest inflation rate of every country
func (s *MarketService) GlobalSnapshot(ctx context.Context) entity.Result[entity.GlobalInflationSnapshot] {
	snapshot, err := s.inflation.FetchGlobalInflationSnapshot(ctx)
	if err == nil && snapshot.IsEmpty() {
		err = entity.NoData("global inflation snapshot is empty")
	}
	if err != nil {
		s.logger.Warn("No global inflation snapshot", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"error":      err.Error(),
		})
	}

	return entity.NewResult(snapshot, err)
}

// Dashboard runs one interaction: the rate section, then the inflation and
// comparison sections when requested, one fetch after another.
func (s *MarketService) Dashboard(ctx context.Context, req DashboardRequest) *Dashboard {
	req = req.withDefaults()

	d := &Dashboard{
		Request: req,
		Sources: DataSources(),
	}

	d.Rates = s.RateReport(ctx, entity.RateQuery{
		Base:   req.Base,
		Target: req.Target,
		Start:  req.Start,
		End:    req.End,
	})

	if req.ShowInflation {
		inflation := s.InflationReport(ctx, req.Country)
		d.Inflation = &inflation

		if req.Compare != "" && !sameCountry(req.Compare, req.Country) {
			comparison := s.InflationReport(ctx, req.Compare)
			d.Comparison = &comparison
		}
	}

	d.Cards = s.metricCards(d)
	d.Insights = s.insights(d)

	s.logger.Info("Dashboard assembled", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"rates":      string(d.Rates.Status),
		"inflation":  sectionStatus(d.Inflation),
		"comparison": sectionStatus(d.Comparison),
	})

	return d
}

func (r DashboardRequest) withDefaults() DashboardRequest {
	if r.Base == "" {
		r.Base = DefaultBase
	}
	if r.Target == "" {
		r.Target = DefaultTarget
	}
	if r.Country == "" {
		r.Country = DefaultCountry
	}
	return r
}

func sectionStatus(r *entity.Result[InflationReport]) string {
	if r == nil {
		return "skipped"
	}
	return string(r.Status)
}

// IsInvalidQuery reports whether a result failed because of bad input
func IsInvalidQuery(err error) bool {
	return errors.Is(err, entity.ErrInvalidQuery)
}

// IsUndefinedMetric reports whether a result failed because a metric is undefined
func IsUndefinedMetric(err error) bool {
	return errors.Is(err, analytics.ErrZeroBase) ||
		errors.Is(err, analytics.ErrEmptySeries) ||
		errors.Is(err, analytics.ErrNonFinite)
}
