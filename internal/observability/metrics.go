// Package observability registers the Prometheus metrics for the plan
// generation pipeline.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	generationRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainnote",
		Subsystem: "planner",
		Name:      "generation_requests_total",
		Help:      "Daily plan requests by outcome (cached, rest, generated, failed).",
	}, []string{"outcome"})

	parseRepairs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainnote",
		Subsystem: "planner",
		Name:      "parse_repairs_total",
		Help:      "Number of JSON repair calls issued against the generation service.",
	})

	parseFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainnote",
		Subsystem: "planner",
		Name:      "parse_failures_total",
		Help:      "Number of responses that exhausted every parse stage.",
	})

	regenerations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "trainnote",
		Subsystem: "planner",
		Name:      "regenerations_total",
		Help:      "Number of strict regeneration passes triggered by the quality gate.",
	})

	generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trainnote",
		Subsystem: "planner",
		Name:      "generation_duration_seconds",
		Help:      "End-to-end duration of generating branch requests.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(generationRequests, parseRepairs, parseFailures, regenerations, generationDuration)
}

// RecordGeneration counts one plan request outcome.
func RecordGeneration(outcome string) {
	generationRequests.WithLabelValues(outcome).Inc()
}

// RecordParseRepair counts one repair round-trip.
func RecordParseRepair() {
	parseRepairs.Inc()
}

// RecordParseFailure counts one exhausted parse pipeline.
func RecordParseFailure() {
	parseFailures.Inc()
}

// RecordRegeneration counts one strict regeneration pass.
func RecordRegeneration() {
	regenerations.Inc()
}

// ObserveGenerationDuration records the latency of a generating-branch request.
func ObserveGenerationDuration(elapsed time.Duration) {
	generationDuration.Observe(elapsed.Seconds())
}
