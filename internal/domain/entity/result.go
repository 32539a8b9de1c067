package entity

import "errors"

// ResultStatus discriminates the outcome of a fetch
type ResultStatus string

const (
	// StatusOK means the value is present and usable
	StatusOK ResultStatus = "ok"
	// StatusEmpty means the upstream had nothing for the request
	StatusEmpty ResultStatus = "empty"
	// StatusFailed means the fetch or a derived computation failed
	StatusFailed ResultStatus = "failed"
)

// Result is the uniform outcome of every fetch operation
type Result[T any] struct {
	Status ResultStatus
	Value  T
	Err    error
}

// NewResult classifies a (value, error) pair. Errors wrapping ErrNoData are
// empty results, any other error is a failure.
func NewResult[T any](value T, err error) Result[T] {
	switch {
	case err == nil:
		return Result[T]{Status: StatusOK, Value: value}
	case errors.Is(err, ErrNoData):
		return Result[T]{Status: StatusEmpty, Value: value, Err: err}
	default:
		return Result[T]{Status: StatusFailed, Value: value, Err: err}
	}
}

// OK reports whether the result carries a usable value
func (r Result[T]) OK() bool {
	return r.Status == StatusOK
}

// Message returns the error text, or "" for a successful result
func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
