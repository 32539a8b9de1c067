package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/currencies":
			w.Write([]byte(`{"EUR":"Euro","USD":"United States Dollar"}`))
		case strings.HasPrefix(r.URL.Path, "/country/IN/"):
			w.Write([]byte(`[{"page":1},[{"date":"2021","value":5.1},{"date":"2020","value":6.6}]]`))
		case strings.HasPrefix(r.URL.Path, "/country/all/"):
			w.Write([]byte(`[{"page":1},[{"country":{"value":"Brazil"},"countryiso3code":"BRA","date":"2020","value":3.2}]]`))
		case strings.HasPrefix(r.URL.Path, "/country/"):
			w.WriteHeader(http.StatusInternalServerError)
		case r.URL.Query().Get("to") == "EUR":
			w.Write([]byte(`{"rates":{"2024-01-01":{"EUR":0.90},"2024-01-02":{"EUR":0.918}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	upstream := fakeUpstream(t)
	root := NewRootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--frankfurter-url", upstream.URL, "--worldbank-url", upstream.URL}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestCurrenciesCommand(t *testing.T) {
	out, err := run(t, "currencies")
	require.NoError(t, err)
	assert.Contains(t, out, "EUR")
	assert.Contains(t, out, "United States Dollar")
}

func TestCountriesCommand(t *testing.T) {
	out, err := run(t, "countries")
	require.NoError(t, err)
	assert.Contains(t, out, "GB  United Kingdom")
}

func TestRatesCommand(t *testing.T) {
	out, err := run(t, "rates", "--base", "usd", "--target", "eur")
	require.NoError(t, err)
	assert.Contains(t, out, "USD → EUR (2 points)")
	assert.Contains(t, out, "change 2.00%")

	_, err = run(t, "rates", "--target", "GBP")
	assert.Error(t, err)

	_, err = run(t, "rates", "--start", "yesterday")
	assert.ErrorContains(t, err, "invalid --start")
}

func TestInflationCommands(t *testing.T) {
	out, err := run(t, "inflation", "india")
	require.NoError(t, err)
	assert.Contains(t, out, "India inflation (2 years)")
	assert.Contains(t, out, "average of the last 5 years 5.85%")

	out, err = run(t, "inflation", "Germany")
	require.NoError(t, err)
	assert.Contains(t, out, "No inflation data")

	out, err = run(t, "global")
	require.NoError(t, err)
	assert.Contains(t, out, "BRA")
	assert.Contains(t, out, "3.20%")
}

func TestDashboardCommand(t *testing.T) {
	out, err := run(t, "dashboard", "--compare", "Germany")
	require.NoError(t, err)

	assert.Contains(t, out, "Current USD → EUR: 0.92 (2.00%)")
	assert.Contains(t, out, "Could not load inflation data")
	assert.Contains(t, out, "USD strengthened by 2.00% against EUR in the last six months.")
	assert.Contains(t, out, "Inflation in India averaged 5.9%, a moderate level overall.")
	assert.Contains(t, out, "Data sources: Frankfurter API")
}
