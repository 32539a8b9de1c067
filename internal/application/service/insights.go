package service

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	highInflation = 6.0
	lowInflation  = 2.0
)

// MetricCard is a headline figure of the dashboard
type MetricCard struct {
	Label string
	Value string
	Delta string
}

// DataSource credits an upstream API
type DataSource struct {
	Name        string
	URL         string
	Description string
}

// DataSources lists the upstream APIs the dashboard is built from
func DataSources() []DataSource {
	return []DataSource{
		{Name: "Frankfurter API", URL: "https://www.frankfurter.app/", Description: "exchange rates"},
		{Name: "World Bank", URL: "https://data.worldbank.org/indicator/FP.CPI.TOTL.ZG", Description: "inflation data"},
	}
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func percent(v float64, places int32) string {
	return fixed(v, places) + "%"
}

func sameCountry(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (s *MarketService) metricCards(d *Dashboard) []MetricCard {
	var cards []MetricCard

	if d.Rates.OK() {
		r := d.Rates.Value
		cards = append(cards,
			MetricCard{
				Label: fmt.Sprintf("Current %s → %s", r.Series.Base, r.Series.Target),
				Value: fixed(r.Current, 2),
				Delta: percent(r.PercentChange, 2),
			},
			MetricCard{
				Label: "Volatility",
				Value: fixed(r.Volatility, 4),
			},
		)
	}

	for _, section := range []*resultRef{inflationRef(d.Inflation), inflationRef(d.Comparison)} {
		if section == nil {
			continue
		}
		cards = append(cards, MetricCard{
			Label: fmt.Sprintf("Avg Inflation %s (last %d yrs)", section.country, section.years),
			Value: percent(section.avg, 2),
		})
	}

	return cards
}

// insights renders the short explanatory sentences of a dashboard
func (s *MarketService) insights(d *Dashboard) []string {
	var sentences []string

	if d.Rates.OK() {
		sentences = append(sentences, RateInsight(d.Rates.Value, s.period(d.Request)))
	}

	main := inflationRef(d.Inflation)
	if main != nil {
		sentences = append(sentences, InflationInsight(main.country, main.avg))
	}

	if cmp := inflationRef(d.Comparison); cmp != nil && main != nil {
		sentences = append(sentences, ComparisonInsight(main.country, main.avg, cmp.country, cmp.avg, main.years))
	}

	return sentences
}

func (s *MarketService) period(req DashboardRequest) string {
	if req.Start == (civil.Date{}) && req.End == (civil.Date{}) && s.settings.RateWindowDays == defaultRateWindowDays {
		return "in the last six months"
	}
	return "over the selected period"
}

// RateInsight describes the movement of base against target
func RateInsight(r RateReport, period string) string {
	base, target := r.Series.Base, r.Series.Target
	change := decimal.NewFromFloat(r.PercentChange).Round(2)

	switch change.Sign() {
	case 1:
		return fmt.Sprintf("%s strengthened by %s%% against %s %s.", base, change.StringFixed(2), target, period)
	case -1:
		return fmt.Sprintf("%s weakened by %s%% against %s %s.", base, change.Abs().StringFixed(2), target, period)
	default:
		return fmt.Sprintf("The exchange rate between %s and %s remained stable.", base, target)
	}
}

// InflationInsight classifies an average inflation rate
func InflationInsight(country string, avg float64) string {
	switch {
	case avg > highInflation:
		return fmt.Sprintf("High inflation in %s (%s) may have pressured its currency.", country, percent(avg, 1))
	case avg < lowInflation:
		return fmt.Sprintf("Low inflation in %s (%s) indicates stable purchasing power.", country, percent(avg, 1))
	default:
		return fmt.Sprintf("Inflation in %s averaged %s, a moderate level overall.", country, percent(avg, 1))
	}
}

// ComparisonInsight contrasts the inflation of two countries
func ComparisonInsight(country string, avg float64, compare string, compareAvg float64, years int) string {
	diff := decimal.NewFromFloat(avg).Sub(decimal.NewFromFloat(compareAvg)).Round(1)

	switch diff.Sign() {
	case 1:
		return fmt.Sprintf("Over the last %d years inflation in %s ran %s points above %s (%s).",
			years, country, diff.StringFixed(1), compare, percent(compareAvg, 1))
	case -1:
		return fmt.Sprintf("Over the last %d years inflation in %s ran %s points below %s (%s).",
			years, country, diff.Abs().StringFixed(1), compare, percent(compareAvg, 1))
	default:
		return fmt.Sprintf("Over the last %d years inflation in %s matched %s at %s.",
			years, country, compare, percent(compareAvg, 1))
	}
}

type resultRef struct {
	country string
	avg     float64
	years   int
}

func inflationRef(r *entity.Result[InflationReport]) *resultRef {
	if r == nil || !r.OK() {
		return nil
	}
	return &resultRef{
		country: r.Value.Series.Country,
		avg:     r.Value.TrailingAverage,
		years:   r.Value.TrailingYears,
	}
}
