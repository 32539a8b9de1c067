package cache

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/repository"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
)

// CachedExchangeRateRepository memoizes an ExchangeRateRepository
type CachedExchangeRateRepository struct {
	next   repository.ExchangeRateRepository
	memo   *Memo
	logger logger.Logger
	now    func() time.Time
}

// NewCachedExchangeRateRepository wraps next with memo
func NewCachedExchangeRateRepository(next repository.ExchangeRateRepository, memo *Memo, log logger.Logger) repository.ExchangeRateRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedExchangeRateRepository{
		next:   next,
		memo:   memo,
		logger: log,
		now:    time.Now,
	}
}

// FetchCurrencyCatalog returns the memoized currency catalog
func (r *CachedExchangeRateRepository) FetchCurrencyCatalog(ctx context.Context) (entity.CurrencyCatalog, error) {
	return GetOrFetch(ctx, r.memo, "currencies", Key("currencies"), 0, r.next.FetchCurrencyCatalog)
}

// FetchRateSeries returns the memoized series for a query. Same-currency
// queries never reach the network and are not cached.
func (r *CachedExchangeRateRepository) FetchRateSeries(ctx context.Context, query entity.RateQuery) (*entity.RateSeries, error) {
	q := query.Normalize()
	if q.SameCurrency() {
		return r.next.FetchRateSeries(ctx, q)
	}

	params := []string{q.Base, q.Target, q.Start.String(), q.End.String()}
	// Open-ended windows move with the calendar
	if q.Start == (civil.Date{}) || q.End == (civil.Date{}) {
		params = append(params, civil.DateOf(r.now().UTC()).String())
	}
	key := Key("rate_series", params...)
	r.logger.Debug("Finding rate series", map[string]interface{}{
		"key": key,
	})

	return GetOrFetch(ctx, r.memo, "rate_series", key, 0, func(ctx context.Context) (*entity.RateSeries, error) {
		return r.next.FetchRateSeries(ctx, q)
	})
}

// CachedInflationRepository memoizes an InflationRepository. The global
// snapshot is kept for globalTTL, which is usually longer than the memo default.
type CachedInflationRepository struct {
	next      repository.InflationRepository
	memo      *Memo
	globalTTL time.Duration
	logger    logger.Logger
}

// NewCachedInflationRepository wraps next with memo
func NewCachedInflationRepository(next repository.InflationRepository, memo *Memo, globalTTL time.Duration, log logger.Logger) repository.InflationRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedInflationRepository{
		next:      next,
		memo:      memo,
		globalTTL: globalTTL,
		logger:    log,
	}
}

// SupportedCountries delegates to the wrapped repository
func (r *CachedInflationRepository) SupportedCountries() []entity.Country {
	return r.next.SupportedCountries()
}

// FetchCountryInflation returns the memoized history of a country
func (r *CachedInflationRepository) FetchCountryInflation(ctx context.Context, country string) (entity.InflationSeries, error) {
	key := Key("country_inflation", strings.ToLower(strings.TrimSpace(country)))

	return GetOrFetch(ctx, r.memo, "country_inflation", key, 0, func(ctx context.Context) (entity.InflationSeries, error) {
		return r.next.FetchCountryInflation(ctx, country)
	})
}

// FetchGlobalInflationSnapshot returns the memoized global snapshot
func (r *CachedInflationRepository) FetchGlobalInflationSnapshot(ctx context.Context) (entity.GlobalInflationSnapshot, error) {
	return GetOrFetch(ctx, r.memo, "global_inflation", Key("global_inflation"), r.globalTTL, r.next.FetchGlobalInflationSnapshot)
}
