// Package metrics holds the Prometheus collectors of the monitor.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fxmon"

// Recorder groups every collector the application reports
type Recorder struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream API calls by source, operation and outcome.",
		}, []string{"source", "operation", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source", "operation"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Memo cache lookups by operation and result.",
		}, []string{"operation", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	if reg != nil {
		reg.MustRegister(r.upstreamRequests, r.upstreamDuration, r.cacheLookups, r.httpRequests, r.httpDuration)
	}

	return r
}

// ObserveUpstream records one upstream call
func (r *Recorder) ObserveUpstream(source, operation, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(source, operation, outcome).Inc()
	r.upstreamDuration.WithLabelValues(source, operation).Observe(elapsed.Seconds())
}

// CacheHit records a memo cache hit
func (r *Recorder) CacheHit(operation string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(operation, "hit").Inc()
}

// CacheMiss records a memo cache miss
func (r *Recorder) CacheMiss(operation string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(operation, "miss").Inc()
}

// ObserveHTTP records one served HTTP request
func (r *Recorder) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
