package entity

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
)

// RatePoint is a single observation of a base→target exchange rate
type RatePoint struct {
	Date civil.Date `json:"date"`
	Rate float64    `json:"rate"`
}

// RateSeries is the rate history of one currency pair, ascending by date
type RateSeries struct {
	Base   string      `json:"base"`
	Target string      `json:"target"`
	Points []RatePoint `json:"points"`
}

// RateQuery describes a rate-series request. A zero Start or End means
// "use the default window".
type RateQuery struct {
	Base   string
	Target string
	Start  civil.Date
	End    civil.Date
}

// Normalize upper-cases the currency codes
func (q RateQuery) Normalize() RateQuery {
	q.Base = strings.ToUpper(strings.TrimSpace(q.Base))
	q.Target = strings.ToUpper(strings.TrimSpace(q.Target))
	return q
}

// SameCurrency reports whether base and target denote the same currency
func (q RateQuery) SameCurrency() bool {
	n := q.Normalize()
	return n.Base == n.Target
}

// Validate checks the currency codes and, when both are set, the date order
func (q RateQuery) Validate() error {
	n := q.Normalize()
	if !IsCurrencyCode(n.Base) {
		return fmt.Errorf("%w: base currency %q must be a 3-letter code", ErrInvalidQuery, q.Base)
	}
	if !IsCurrencyCode(n.Target) {
		return fmt.Errorf("%w: target currency %q must be a 3-letter code", ErrInvalidQuery, q.Target)
	}
	if !isZeroDate(n.Start) && !isZeroDate(n.End) && n.End.Before(n.Start) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidQuery, n.Start, n.End)
	}
	return nil
}

// NewRateSeries sorts points ascending by date and enforces the series invariants:
// at least one point, unique dates, strictly positive rates.
func NewRateSeries(base, target string, points []RatePoint) (*RateSeries, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("rate series %s->%s has no points", base, target)
	}

	sorted := make([]RatePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i, p := range sorted {
		if p.Rate <= 0 {
			return nil, fmt.Errorf("invalid rate %f on %s for %s->%s", p.Rate, p.Date, base, target)
		}
		if i > 0 && sorted[i-1].Date == p.Date {
			return nil, fmt.Errorf("duplicate rate date %s for %s->%s", p.Date, base, target)
		}
	}

	return &RateSeries{
		Base:   base,
		Target: target,
		Points: sorted,
	}, nil
}

// Len returns the number of points
func (s *RateSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Values returns the rates in date order
func (s *RateSeries) Values() []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Rate
	}
	return out
}

// Latest returns the most recent point
func (s *RateSeries) Latest() (RatePoint, bool) {
	if s.Len() == 0 {
		return RatePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

func isZeroDate(d civil.Date) bool {
	return d == civil.Date{}
}
