package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData marks a soft empty result: the upstream answered, but there is
	// nothing usable for the request
	ErrNoData = errors.New("no data available")

	// ErrInvalidQuery marks a request rejected before any network call
	ErrInvalidQuery = errors.New("invalid query")
)

// RemoteFetchError is a hard failure talking to an upstream API
type RemoteFetchError struct {
	Source     string
	URL        string
	StatusCode int // 0 when no response was received
	Reason     string
	Err        error
}

func (e *RemoteFetchError) Error() string {
	msg := fmt.Sprintf("%s fetch failed: %s", e.Source, e.Reason)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// IsRemoteFetchError reports whether err is, or wraps, a RemoteFetchError
func IsRemoteFetchError(err error) bool {
	var rfe *RemoteFetchError
	return errors.As(err, &rfe)
}

// NoData wraps ErrNoData with a description of why the result is empty
func NoData(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNoData, fmt.Sprintf(format, args...))
}
