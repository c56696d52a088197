// Package metrics exposes Prometheus collectors for notifier invocations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	promEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_notifier_events_total",
			Help: "Message-created events handled, by outcome",
		},
		[]string{"outcome"},
	)
	promHandleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_notifier_handle_duration_seconds",
			Help:    "Duration of a single event handling pass (lookup plus send)",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)
)

func init() {
	prometheus.MustRegister(promEvents, promHandleDuration)
}

// IncOutcome counts one handled event with the given outcome label.
func IncOutcome(outcome string) {
	promEvents.WithLabelValues(outcome).Inc()
}

// ObserveHandleDuration records how long one event took, in seconds.
func ObserveHandleDuration(seconds float64) {
	promHandleDuration.Observe(seconds)
}

// PromHandler returns an HTTP handler that exposes Prometheus metrics.
func PromHandler() http.Handler { return promhttp.Handler() }
