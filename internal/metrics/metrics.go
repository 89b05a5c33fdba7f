// Package metrics exposes Prometheus instrumentation for frame fetches.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes
const (
	OutcomeOK             = "ok"
	OutcomeMalformed      = "malformed"
	OutcomeRetryExhausted = "retry_exhausted"
	OutcomeTransport      = "transport"
)

var (
	registerOnce sync.Once

	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framebridge",
			Name:      "fetch_total",
			Help:      "Frame fetches by stage and outcome.",
		},
		[]string{"stage", "outcome"},
	)
	pixelReadAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "framebridge",
			Name:      "pixel_read_attempts",
			Help:      "Read attempts needed to fill a frame's pixel block.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)
	bytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framebridge",
			Name:      "bytes_total",
			Help:      "Bytes read from engine streams.",
		},
		[]string{"stream"},
	)
)

// RegisterMetrics adds the collectors to the default registry once
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(fetchTotal, pixelReadAttempts, bytesTotal)
	})
}

// RecordFetch counts one fetch stage result
func RecordFetch(stage, outcome string) {
	RegisterMetrics()
	fetchTotal.WithLabelValues(stage, outcome).Inc()
}

// RecordPixelRead observes the attempts a pixel read took
func RecordPixelRead(attempts int) {
	RegisterMetrics()
	pixelReadAttempts.Observe(float64(attempts))
}

// AddBytes counts bytes read from a stream
func AddBytes(stream string, n int) {
	if n <= 0 {
		return
	}
	RegisterMetrics()
	bytesTotal.WithLabelValues(stream).Add(float64(n))
}
