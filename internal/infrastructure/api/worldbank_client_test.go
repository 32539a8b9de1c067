package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorldBank(t *testing.T, handler http.HandlerFunc) (*WorldBankClient, *int32) {
	t.Helper()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewWorldBankClient(WithBaseURL(server.URL), WithLogger(logger.Nop()))
	return client, &hits
}

func TestSupportedCountries(t *testing.T) {
	client := NewWorldBankClient(WithLogger(logger.Nop()))

	countries := client.SupportedCountries()
	require.Len(t, countries, 10)
	assert.Equal(t, "Australia", countries[0].Name)
	assert.Equal(t, "United States", countries[9].Name)

	country, ok := client.LookupCountry("united kingdom")
	assert.True(t, ok)
	assert.Equal(t, "GB", country.ISO2)

	// Callers get a copy
	countries[0].Name = "Changed"
	assert.Equal(t, "Australia", client.SupportedCountries()[0].Name)
}

func TestFetchCountryInflation(t *testing.T) {
	t.Run("Drops null values", func(t *testing.T) {
		client, hits := newTestWorldBank(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/country/IN/indicator/FP.CPI.TOTL.ZG", r.URL.Path)
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			w.Write([]byte(`[{}, [{"date":"2020","value":"5.1"}, {"date":"2019","value":null}]]`))
		})

		series, err := client.FetchCountryInflation(context.Background(), "India")
		require.NoError(t, err)
		assert.Equal(t, int32(1), *hits)

		assert.Equal(t, "India", series.Country)
		require.Equal(t, 1, series.Len())
		assert.Equal(t, 2020, series.Points[0].Year)
		assert.Equal(t, 5.1, series.Points[0].Rate)
	})

	t.Run("Sorted by year with numeric values", func(t *testing.T) {
		client, _ := newTestWorldBank(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[
				{"page":1,"pages":1,"per_page":50,"total":3},
				[
					{"country":{"id":"JP","value":"Japan"},"countryiso3code":"JPN","date":"2022","value":2.497},
					{"country":{"id":"JP","value":"Japan"},"countryiso3code":"JPN","date":"2020","value":-0.025},
					{"country":{"id":"JP","value":"Japan"},"countryiso3code":"JPN","date":"2021","value":-0.233}
				]
			]`))
		})

		series, err := client.FetchCountryInflation(context.Background(), "Japan")
		require.NoError(t, err)
		require.Equal(t, 3, series.Len())
		assert.Equal(t, []int{2020, 2021, 2022}, []int{series.Points[0].Year, series.Points[1].Year, series.Points[2].Year})
		assert.Equal(t, -0.025, series.Points[0].Rate)
	})

	t.Run("Unknown country needs no network call", func(t *testing.T) {
		client, hits := newTestWorldBank(t, func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request to %s", r.URL)
		})

		series, err := client.FetchCountryInflation(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, entity.ErrNoData)
		assert.True(t, series.IsEmpty())
		assert.Equal(t, int32(0), *hits)
	})

	soft := map[string]struct {
		status int
		body   string
	}{
		"Error status":          {http.StatusBadGateway, `oops`},
		"Single element":        {http.StatusOK, `[{"message":[{"id":"120","key":"Invalid value"}]}]`},
		"Null records":          {http.StatusOK, `[{"page":0}, null]`},
		"Empty records":         {http.StatusOK, `[{"page":0}, []]`},
		"Records not a list":    {http.StatusOK, `[{"page":0}, {"date":"2020"}]`},
		"Not JSON":              {http.StatusOK, `<html></html>`},
		"Only null values":      {http.StatusOK, `[{}, [{"date":"2020","value":null}]]`},
		"Only malformed values": {http.StatusOK, `[{}, [{"date":"year","value":"1.0"},{"date":"2020","value":"n/a"}]]`},
	}
	for name, tc := range soft {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestWorldBank(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			series, err := client.FetchCountryInflation(context.Background(), "Germany")
			assert.ErrorIs(t, err, entity.ErrNoData)
			assert.False(t, entity.IsRemoteFetchError(err))
			assert.True(t, series.IsEmpty())
			assert.Equal(t, "Germany", series.Country)
		})
	}
}

func TestFetchGlobalInflationSnapshot(t *testing.T) {
	records := []map[string]interface{}{
		{"country": map[string]string{"id": "BR", "value": "Brazil"}, "countryiso3code": "BRA", "date": "2021", "value": nil},
		{"country": map[string]string{"id": "BR", "value": "Brazil"}, "countryiso3code": "BRA", "date": "2020", "value": 3.2},
		{"country": map[string]string{"id": "BR", "value": "Brazil"}, "countryiso3code": "BRA", "date": "2019", "value": 3.7},
		{"country": map[string]string{"id": "BR", "value": "Brazil"}, "countryiso3code": "BRA", "date": "2018", "value": 3.66},
		{"country": map[string]string{"id": "1W", "value": "World"}, "countryiso3code": "WLD", "date": "2021", "value": "3.47"},
		{"country": map[string]string{"id": "XX", "value": "Nowhere"}, "countryiso3code": "", "date": "2021", "value": nil},
	}

	client, hits := newTestWorldBank(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/country/all/indicator/FP.CPI.TOTL.ZG", r.URL.Path)
		assert.Equal(t, "4000", r.URL.Query().Get("per_page"))

		body, err := json.Marshal([]interface{}{map[string]int{"page": 1}, records})
		require.NoError(t, err)
		w.Write(body)
	})

	snapshot, err := client.FetchGlobalInflationSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), *hits)

	// Nowhere has no non-null value and is absent
	require.Equal(t, 2, snapshot.Len())

	brazil, ok := snapshot.Find("Brazil")
	require.True(t, ok)
	assert.Equal(t, 2020, brazil.Year)
	assert.Equal(t, 3.2, brazil.Rate)
	assert.Equal(t, "BRA", brazil.ISO3)

	world, ok := snapshot.Find("World")
	require.True(t, ok)
	assert.Equal(t, 3.47, world.Rate)
}

func TestFetchGlobalInflationSnapshotSoftFailures(t *testing.T) {
	for name, body := range map[string]string{
		"Short payload": `[{"page":1}]`,
		"Null records":  `[{"page":1}, null]`,
		"Object body":   `{"message":"bad"}`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestWorldBank(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			snapshot, err := client.FetchGlobalInflationSnapshot(context.Background())
			assert.ErrorIs(t, err, entity.ErrNoData)
			assert.True(t, snapshot.IsEmpty())
		})
	}

	t.Run("Error status", func(t *testing.T) {
		client, _ := newTestWorldBank(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.FetchGlobalInflationSnapshot(context.Background())
		assert.ErrorIs(t, err, entity.ErrNoData)
	})
}

func TestParseValue(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want float64
		ok   bool
	}{
		"number":          {`5.1`, 5.1, true},
		"negative":        {`-0.25`, -0.25, true},
		"string":          {`"5.1"`, 5.1, true},
		"exponent":        {`1.5e1`, 15, true},
		"null":            {`null`, 0, false},
		"empty string":    {`""`, 0, false},
		"non-numeric":     {`"n/a"`, 0, false},
		"missing (empty)": {``, 0, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := parseValue(json.RawMessage(tc.raw))
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestCountryName(t *testing.T) {
	assert.Equal(t, "India", countryName(json.RawMessage(`{"id":"IN","value":"India"}`)))
	assert.Equal(t, "India", countryName(json.RawMessage(`"India"`)))
	assert.Equal(t, "42", countryName(json.RawMessage(`42`)))
}
