package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

const (
	worldBankBaseURL = "https://api.worldbank.org/v2"

	// Inflation, consumer prices (annual %)
	defaultIndicator = "FP.CPI.TOTL.ZG"
	defaultPerPage   = 4000
)

// DefaultCountries returns the countries the inflation endpoints accept, by name
func DefaultCountries() []entity.Country {
	return []entity.Country{
		{Name: "Germany", ISO2: "DE"},
		{Name: "India", ISO2: "IN"},
		{Name: "United States", ISO2: "US"},
		{Name: "Japan", ISO2: "JP"},
		{Name: "France", ISO2: "FR"},
		{Name: "Brazil", ISO2: "BR"},
		{Name: "United Kingdom", ISO2: "GB"},
		{Name: "China", ISO2: "CN"},
		{Name: "Canada", ISO2: "CA"},
		{Name: "Australia", ISO2: "AU"},
	}
}

// WorldBankClient reads inflation statistics from the World Bank indicators API
type WorldBankClient struct {
	baseURL   string
	indicator string
	perPage   int
	fetcher   fetcher
	logger    logger.Logger
	countries []entity.Country
	byName    map[string]entity.Country
}

// NewWorldBankClient creates a new World Bank API client
func NewWorldBankClient(opts ...Option) *WorldBankClient {
	cfg := newClientConfig(worldBankBaseURL, opts)

	countries := make([]entity.Country, len(cfg.countries))
	copy(countries, cfg.countries)
	sort.Slice(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })

	byName := make(map[string]entity.Country, len(countries))
	for _, c := range countries {
		byName[strings.ToLower(c.Name)] = c
	}

	return &WorldBankClient{
		baseURL:   cfg.baseURL,
		indicator: cfg.indicator,
		perPage:   cfg.perPage,
		fetcher:   cfg.fetcher(),
		logger:    cfg.logger,
		countries: countries,
		byName:    byName,
	}
}

// indicatorRecord is one element of the second array of an indicator response
type indicatorRecord struct {
	Country     json.RawMessage `json:"country"`
	CountryISO3 string          `json:"countryiso3code"`
	Date        string          `json:"date"`
	Value       json.RawMessage `json:"value"`
}

// SupportedCountries lists the accepted countries sorted by name
func (c *WorldBankClient) SupportedCountries() []entity.Country {
	out := make([]entity.Country, len(c.countries))
	copy(out, c.countries)
	return out
}

// LookupCountry resolves a country name, ignoring case
func (c *WorldBankClient) LookupCountry(name string) (entity.Country, bool) {
	country, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return country, ok
}

// FetchCountryInflation retrieves the annual inflation history of a supported
// country. Unknown countries, error statuses and malformed payloads give an
// empty series with an error wrapping entity.ErrNoData.
func (c *WorldBankClient) FetchCountryInflation(ctx context.Context, name string) (entity.InflationSeries, error) {
	country, ok := c.LookupCountry(name)
	if !ok {
		c.logger.Warn("No ISO code found for country", map[string]interface{}{
			"country": name,
		})
		return entity.NewInflationSeries(name, nil), entity.NoData("no ISO code found for %s", name)
	}

	reqURL := fmt.Sprintf("%s/country/%s/indicator/%s?format=json", c.baseURL, country.ISO2, c.indicator)

	series, err := fetchAndNormalize(ctx, &c.fetcher, sourceWorldBank, "country_inflation", reqURL,
		validateIndicatorPayload,
		func(payload []json.RawMessage) (entity.InflationSeries, error) {
			records, err := decodeRecords(payload[1])
			if err != nil {
				return entity.InflationSeries{}, err
			}
			return normalizeCountry(country.Name, records), nil
		})
	if err == nil && series.IsEmpty() {
		err = entity.NoData("no inflation values for %s", country.Name)
	}
	if err != nil {
		err = soften(err)
		c.logger.Warn("No inflation data for country", map[string]interface{}{
			"country": country.Name,
			"error":   err.Error(),
		})
		return entity.NewInflationSeries(country.Name, nil), err
	}

	c.logger.Info("Fetched country inflation", map[string]interface{}{
		"country": country.Name,
		"years":   series.Len(),
	})

	return series, nil
}

// FetchGlobalInflationSnapshot retrieves the latest known inflation rate of
// every country and aggregate the API reports
func (c *WorldBankClient) FetchGlobalInflationSnapshot(ctx context.Context) (entity.GlobalInflationSnapshot, error) {
	reqURL := fmt.Sprintf("%s/country/all/indicator/%s?format=json&per_page=%d", c.baseURL, c.indicator, c.perPage)

	snapshot, err := fetchAndNormalize(ctx, &c.fetcher, sourceWorldBank, "global_inflation", reqURL,
		validateIndicatorPayload,
		func(payload []json.RawMessage) (entity.GlobalInflationSnapshot, error) {
			records, err := decodeRecords(payload[1])
			if err != nil {
				return entity.GlobalInflationSnapshot{}, err
			}
			return normalizeGlobal(records), nil
		})
	if err == nil && snapshot.IsEmpty() {
		err = entity.NoData("no inflation values in global response")
	}
	if err != nil {
		err = soften(err)
		c.logger.Warn("Could not fetch global inflation data", map[string]interface{}{
			"error": err.Error(),
		})
		return entity.GlobalInflationSnapshot{}, err
	}

	c.logger.Info("Fetched global inflation snapshot", map[string]interface{}{
		"countries": snapshot.Len(),
	})

	return snapshot, nil
}

// validateIndicatorPayload checks the [metadata, records] envelope
func validateIndicatorPayload(payload []json.RawMessage) error {
	if len(payload) < 2 {
		return entity.NoData("indicator payload has %d elements, want at least 2", len(payload))
	}
	records := bytes.TrimSpace(payload[1])
	if len(records) == 0 || bytes.Equal(records, []byte("null")) || bytes.Equal(records, []byte("[]")) {
		return entity.NoData("indicator payload has no records")
	}
	if records[0] != '[' {
		return entity.NoData("indicator records are not a list")
	}
	return nil
}

func decodeRecords(raw json.RawMessage) ([]indicatorRecord, error) {
	var records []indicatorRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, entity.NoData("malformed indicator records: %v", err)
	}
	return records, nil
}

func normalizeCountry(country string, records []indicatorRecord) entity.InflationSeries {
	points := make([]entity.InflationPoint, 0, len(records))
	for _, r := range records {
		year, ok := parseYear(r.Date)
		if !ok {
			continue
		}
		rate, ok := parseValue(r.Value)
		if !ok {
			continue
		}
		points = append(points, entity.InflationPoint{Year: year, Rate: rate})
	}
	return entity.NewInflationSeries(country, points)
}

func normalizeGlobal(records []indicatorRecord) entity.GlobalInflationSnapshot {
	rows := make([]entity.SnapshotRow, 0, len(records))
	for _, r := range records {
		year, ok := parseYear(r.Date)
		if !ok {
			continue
		}
		rate, ok := parseValue(r.Value)
		if !ok {
			continue
		}
		rows = append(rows, entity.SnapshotRow{
			Country: countryName(r.Country),
			ISO3:    r.CountryISO3,
			Year:    year,
			Rate:    rate,
		})
	}
	return entity.LatestPerCountry(rows)
}

// countryName flattens {"id":"IN","value":"India"}; anything else is used as text
func countryName(raw json.RawMessage) string {
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Value != "" {
		return obj.Value
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func parseYear(s string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return year, true
}

// parseValue accepts a JSON number or a numeric string; null and anything
// non-numeric report false
func parseValue(raw json.RawMessage) (float64, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, false
	}
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
	}

	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}
