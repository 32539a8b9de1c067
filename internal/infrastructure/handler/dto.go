package handler

import (
	"github.com/damon-houk/fx-inflation-monitor/internal/application/service"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// Section is one independently fetched part of a response
type Section[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// CurrencyResponse is one entry of the currency catalog
type CurrencyResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CurrenciesResponse represents the response for the currency list endpoint
type CurrenciesResponse struct {
	Currencies []CurrencyResponse `json:"currencies"`
}

// CountryResponse is a supported country
type CountryResponse struct {
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
}

// CountriesResponse represents the response for the country list endpoint
type CountriesResponse struct {
	Countries []CountryResponse `json:"countries"`
}

// RatePointResponse is one dated rate
type RatePointResponse struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// RateReportResponse represents the response for the rates endpoint
type RateReportResponse struct {
	Base          string              `json:"base"`
	Target        string              `json:"target"`
	Current       float64             `json:"current"`
	PercentChange float64             `json:"percent_change"`
	Volatility    float64             `json:"volatility"`
	Points        []RatePointResponse `json:"points"`
}

// InflationPointResponse is the inflation of one year
type InflationPointResponse struct {
	Year          int     `json:"year"`
	InflationRate float64 `json:"inflation_rate"`
}

// InflationReportResponse is a country history with its trailing average
type InflationReportResponse struct {
	Country         string                   `json:"country"`
	TrailingAverage float64                  `json:"trailing_average"`
	TrailingYears   int                      `json:"trailing_years"`
	Points          []InflationPointResponse `json:"points"`
}

// SnapshotRowResponse is the latest inflation rate of one country
type SnapshotRowResponse struct {
	Country       string  `json:"country"`
	ISO3          string  `json:"iso3"`
	Year          int     `json:"year"`
	InflationRate float64 `json:"inflation_rate"`
}

// GlobalInflationResponse lists the latest inflation rate of every country
type GlobalInflationResponse struct {
	Rows []SnapshotRowResponse `json:"rows"`
}

// MetricCardResponse is a headline dashboard figure
type MetricCardResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

// DataSourceResponse credits an upstream API
type DataSourceResponse struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// DashboardRequestResponse echoes the effective dashboard selections
type DashboardRequestResponse struct {
	Base          string `json:"base"`
	Target        string `json:"target"`
	Start         string `json:"start,omitempty"`
	End           string `json:"end,omitempty"`
	Country       string `json:"country"`
	Compare       string `json:"compare,omitempty"`
	ShowInflation bool   `json:"inflation"`
}

// DashboardResponse represents the response for the dashboard endpoint
type DashboardResponse struct {
	Request    DashboardRequestResponse          `json:"request"`
	Rates      Section[RateReportResponse]       `json:"rates"`
	Inflation  *Section[InflationReportResponse] `json:"inflation,omitempty"`
	Comparison *Section[InflationReportResponse] `json:"comparison,omitempty"`
	Cards      []MetricCardResponse              `json:"cards"`
	Insights   []string                          `json:"insights"`
	Sources    []DataSourceResponse              `json:"sources"`
}

func newSection[T, R any](result entity.Result[T], convert func(T) R) Section[R] {
	s := Section[R]{
		Status:  string(result.Status),
		Message: result.Message(),
	}
	if result.OK() {
		data := convert(result.Value)
		s.Data = &data
	}
	return s
}

func toCurrencies(catalog entity.CurrencyCatalog) CurrenciesResponse {
	currencies := catalog.Currencies()
	resp := CurrenciesResponse{Currencies: make([]CurrencyResponse, 0, len(currencies))}
	for _, c := range currencies {
		resp.Currencies = append(resp.Currencies, CurrencyResponse{Code: c.Code, Name: c.Name})
	}
	return resp
}

func toCountries(countries []entity.Country) CountriesResponse {
	resp := CountriesResponse{Countries: make([]CountryResponse, 0, len(countries))}
	for _, c := range countries {
		resp.Countries = append(resp.Countries, CountryResponse{Name: c.Name, ISO2: c.ISO2})
	}
	return resp
}

func toRateReport(r service.RateReport) RateReportResponse {
	resp := RateReportResponse{
		Base:          r.Series.Base,
		Target:        r.Series.Target,
		Current:       r.Current,
		PercentChange: r.PercentChange,
		Volatility:    r.Volatility,
		Points:        make([]RatePointResponse, 0, r.Series.Len()),
	}
	for _, p := range r.Series.Points {
		resp.Points = append(resp.Points, RatePointResponse{Date: p.Date.String(), Rate: p.Rate})
	}
	return resp
}

func toInflationReport(r service.InflationReport) InflationReportResponse {
	resp := InflationReportResponse{
		Country:         r.Series.Country,
		TrailingAverage: r.TrailingAverage,
		TrailingYears:   r.TrailingYears,
		Points:          make([]InflationPointResponse, 0, r.Series.Len()),
	}
	for _, p := range r.Series.Points {
		resp.Points = append(resp.Points, InflationPointResponse{Year: p.Year, InflationRate: p.Rate})
	}
	return resp
}

func toGlobalInflation(g entity.GlobalInflationSnapshot) GlobalInflationResponse {
	resp := GlobalInflationResponse{Rows: make([]SnapshotRowResponse, 0, g.Len())}
	for _, r := range g.Rows {
		resp.Rows = append(resp.Rows, SnapshotRowResponse{
			Country:       r.Country,
			ISO3:          r.ISO3,
			Year:          r.Year,
			InflationRate: r.Rate,
		})
	}
	return resp
}

func toDashboard(d *service.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Request: DashboardRequestResponse{
			Base:          d.Request.Base,
			Target:        d.Request.Target,
			Country:       d.Request.Country,
			Compare:       d.Request.Compare,
			ShowInflation: d.Request.ShowInflation,
		},
		Rates:    newSection(d.Rates, toRateReport),
		Cards:    make([]MetricCardResponse, 0, len(d.Cards)),
		Insights: d.Insights,
		Sources:  make([]DataSourceResponse, 0, len(d.Sources)),
	}
	if !isZeroDate(d.Request.Start) {
		resp.Request.Start = d.Request.Start.String()
	}
	if !isZeroDate(d.Request.End) {
		resp.Request.End = d.Request.End.String()
	}
	if d.Inflation != nil {
		s := newSection(*d.Inflation, toInflationReport)
		resp.Inflation = &s
	}
	if d.Comparison != nil {
		s := newSection(*d.Comparison, toInflationReport)
		resp.Comparison = &s
	}
	if resp.Insights == nil {
		resp.Insights = []string{}
	}
	for _, c := range d.Cards {
		resp.Cards = append(resp.Cards, MetricCardResponse{Label: c.Label, Value: c.Value, Delta: c.Delta})
	}
	for _, s := range d.Sources {
		resp.Sources = append(resp.Sources, DataSourceResponse{Name: s.Name, URL: s.URL, Description: s.Description})
	}
	return resp
}
