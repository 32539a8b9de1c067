package repository

import (
	"context"

	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
)

// InflationRepository defines access to consumer-price inflation statistics.
// Empty results are reported as errors wrapping entity.ErrNoData.
type InflationRepository interface {
	// SupportedCountries lists the countries FetchCountryInflation accepts
	SupportedCountries() []entity.Country

	// FetchCountryInflation returns the annual inflation history of a country
	FetchCountryInflation(ctx context.Context, country string) (entity.InflationSeries, error)

	// FetchGlobalInflationSnapshot returns the latest known inflation rate of every country
	FetchGlobalInflationSnapshot(ctx context.Context) (entity.GlobalInflationSnapshot, error)
}
