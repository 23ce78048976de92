// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// Batch jobs have no long-lived scrape endpoint, so metrics are collected in
// a private registry and pushed to a Pushgateway when the run finishes. All
// Prometheus-specific dependencies live here; the rest of the project depends
// only on the metrics.Backend abstraction.
package prompush

import (
	"fmt"

	"salesetl/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec // "ingest_step_total"
	stepDuration *prometheus.SummaryVec // "ingest_step_duration_seconds"

	recordCounter  *prometheus.CounterVec // "ingest_records_total"
	discardCounter *prometheus.CounterVec // "ingest_discards_total"
	batchCounter   *prometheus.CounterVec // "ingest_batches_total"
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName is the Pushgateway "job" grouping key, gatewayURL the base URL of
// the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "salesetl"
	}

	reg := prometheus.NewRegistry()

	// The pipeline job name doubles as the Pushgateway grouping key, so the
	// collectors only carry the remaining labels.
	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_step_total",
			Help: "Total number of pipeline step executions, partitioned by dataset, step, and status.",
		},
		[]string{"dataset", "step", "status"},
	)
	stepDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "ingest_step_duration_seconds",
			Help:       "Duration of pipeline steps in seconds, partitioned by dataset, step, and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"dataset", "step", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_records_total",
			Help: "Record-level counts per dataset and kind (parsed, accepted, discarded, loaded, etc.).",
		},
		[]string{"dataset", "kind"},
	)
	discardCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_discards_total",
			Help: "Discarded records per dataset and discard reason.",
		},
		[]string{"dataset", "reason"},
	)
	batchCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_batches_total",
			Help: "Total number of copy batches flushed per dataset.",
		},
		[]string{"dataset"},
	)

	for name, c := range map[string]prometheus.Collector{
		"step counter":    stepCounter,
		"step summary":    stepDuration,
		"record counter":  recordCounter,
		"discard counter": discardCounter,
		"batch counter":   batchCounter,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}

	return &Backend{
		gatewayURL:     gatewayURL,
		jobName:        jobName,
		reg:            reg,
		stepCounter:    stepCounter,
		stepDuration:   stepDuration,
		recordCounter:  recordCounter,
		discardCounter: discardCounter,
		batchCounter:   batchCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "ingest_step_total":
		b.stepCounter.WithLabelValues(labels["dataset"], labels["step"], labels["status"]).Add(delta)
	case "ingest_records_total":
		b.recordCounter.WithLabelValues(labels["dataset"], labels["kind"]).Add(delta)
	case "ingest_discards_total":
		b.discardCounter.WithLabelValues(labels["dataset"], labels["reason"]).Add(delta)
	case "ingest_batches_total":
		b.batchCounter.WithLabelValues(labels["dataset"]).Add(delta)
	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "ingest_step_duration_seconds" || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["dataset"], labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
