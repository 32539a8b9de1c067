// Package analytics computes descriptive statistics over fetched series.
// All functions are pure.
package analytics

import (
	"errors"
	"math"
)

var (
	// ErrEmptySeries is returned when a statistic needs at least one value
	ErrEmptySeries = errors.New("series is empty")

	// ErrZeroBase is returned by PercentChange when the first value is zero
	ErrZeroBase = errors.New("percent change undefined: first value is zero")

	// ErrInvalidWindow is returned for a non-positive trailing window
	ErrInvalidWindow = errors.New("trailing window must be positive")

	// ErrNonFinite is returned when a statistic overflows to an infinite or NaN value
	ErrNonFinite = errors.New("statistic is not a finite number")
)

// Series is anything that can expose its values in chronological order
type Series interface {
	Values() []float64
}

// PercentChange returns (last - first) / first * 100
func PercentChange(s Series) (float64, error) {
	values := s.Values()
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}

	first, last := values[0], values[len(values)-1]
	if first == 0 {
		return 0, ErrZeroBase
	}

	return finite((last - first) / first * 100)
}

// StdDev returns the population standard deviation of the series values
func StdDev(s Series) (float64, error) {
	values := s.Values()
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}

	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}

	return finite(math.Sqrt(sum / float64(len(values))))
}

// TrailingAverage returns the mean of the last n values by position. Shorter
// series are averaged in full.
func TrailingAverage(s Series, n int) (float64, error) {
	if n <= 0 {
		return 0, ErrInvalidWindow
	}

	values := s.Values()
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	if len(values) > n {
		values = values[len(values)-n:]
	}

	return finite(mean(values))
}

// Values adapts a plain slice to Series
type Values []float64

// Values returns v itself
func (v Values) Values() []float64 { return v }

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func finite(v float64) (float64, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNonFinite
	}
	return v, nil
}
