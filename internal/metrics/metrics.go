// Package metrics records fetch and request counters for the helper.
//
// The helper has no listening socket, so metrics are collected in a private
// registry and exported as a node_exporter textfile on shutdown.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/systmms/vector-aws-secrets/internal/errors"
)

// ResultOK labels successful fetches and requests.
const ResultOK = "ok"

// Recorder provides methods to record helper metrics. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	requestsTotal *prometheus.CounterVec
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		fetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vector_aws_secrets_fetch_total",
				Help: "Total number of secret fetches by backend and result",
			},
			[]string{"backend", "result"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vector_aws_secrets_fetch_duration_seconds",
				Help:    "Duration of secret fetches in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"backend"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vector_aws_secrets_requests_total",
				Help: "Total number of request lines by result",
			},
			[]string{"result"},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveFetch records one backend call. err's kind becomes the result label.
func (r *Recorder) ObserveFetch(backend string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.fetchTotal.WithLabelValues(backend, result(err)).Inc()
	r.fetchDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// ObserveRequest records one processed request line.
func (r *Recorder) ObserveRequest(err error) {
	if r == nil {
		return
	}
	r.requestsTotal.WithLabelValues(result(err)).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is written to a temporary name first and renamed into place.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

func result(err error) string {
	if err == nil {
		return ResultOK
	}
	return string(errors.KindOf(err))
}
