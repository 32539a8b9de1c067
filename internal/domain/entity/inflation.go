package entity

import (
	"sort"
)

// Country is a country supported by the inflation endpoints
type Country struct {
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
}

// InflationPoint is the annual consumer-price inflation of one year, in percent
type InflationPoint struct {
	Year int     `json:"year"`
	Rate float64 `json:"inflation_rate"`
}

// InflationSeries is the inflation history of one country, ascending by year.
// Rates may be negative.
type InflationSeries struct {
	Country string           `json:"country"`
	Points  []InflationPoint `json:"points"`
}

// NewInflationSeries sorts points by year. When a year appears more than once
// the first occurrence wins.
func NewInflationSeries(country string, points []InflationPoint) InflationSeries {
	seen := make(map[int]struct{}, len(points))
	out := make([]InflationPoint, 0, len(points))
	for _, p := range points {
		if _, dup := seen[p.Year]; dup {
			continue
		}
		seen[p.Year] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })

	return InflationSeries{Country: country, Points: out}
}

// Len returns the number of years in the series
func (s InflationSeries) Len() int {
	return len(s.Points)
}

// IsEmpty reports whether the series has no data
func (s InflationSeries) IsEmpty() bool {
	return len(s.Points) == 0
}

// Values returns the inflation rates in year order
func (s InflationSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Rate
	}
	return out
}

// SnapshotRow is the most recent known inflation rate of one country
type SnapshotRow struct {
	Country string  `json:"country"`
	ISO3    string  `json:"iso3"`
	Year    int     `json:"year"`
	Rate    float64 `json:"inflation_rate"`
}

// GlobalInflationSnapshot holds at most one row per country
type GlobalInflationSnapshot struct {
	Rows []SnapshotRow `json:"rows"`
}

// LatestPerCountry keeps, for every country, the row with the greatest year.
// Rows must already exclude missing rates. The result is sorted by country name.
func LatestPerCountry(rows []SnapshotRow) GlobalInflationSnapshot {
	latest := make(map[string]SnapshotRow, len(rows))
	for _, r := range rows {
		cur, ok := latest[r.Country]
		if !ok || r.Year > cur.Year {
			latest[r.Country] = r
		}
	}

	out := make([]SnapshotRow, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })

	return GlobalInflationSnapshot{Rows: out}
}

// Len returns the number of countries in the snapshot
func (g GlobalInflationSnapshot) Len() int {
	return len(g.Rows)
}

// IsEmpty reports whether the snapshot has no rows
func (g GlobalInflationSnapshot) IsEmpty() bool {
	return len(g.Rows) == 0
}

// Find returns the row for country
func (g GlobalInflationSnapshot) Find(country string) (SnapshotRow, bool) {
	for _, r := range g.Rows {
		if r.Country == country {
			return r, true
		}
	}
	return SnapshotRow{}, false
}
