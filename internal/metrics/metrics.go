// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the ingestion pipeline.
//
// It mirrors the storage abstraction pattern used elsewhere in the project:
// a narrow interface (Backend), a global pluggable implementation that
// defaults to a no-op, and concrete metric systems isolated in subpackages.
// Pipeline code records counters and durations unconditionally; whether they
// go anywhere is decided once at startup via SetBackend.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
// It is intentionally generic so we can plug in Prometheus, Datadog, etc.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency and success/failure for one pipeline step
// (parse, clean, load) of one dataset.
func RecordStep(job, dataset, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":     job,
		"dataset": dataset,
		"step":    step,
		"status":  status,
	}

	backend.IncCounter("ingest_step_total", 1, lbls)
	backend.ObserveHistogram("ingest_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a record-level counter for the given dataset and kind.
//
// Typical kinds mirror the run summary fields:
//   - "parsed"
//   - "skipped_rows"
//   - "accepted"
//   - "discarded"
//   - "loaded"
func RecordRows(job, dataset, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("ingest_records_total", float64(delta), Labels{
		"job":     job,
		"dataset": dataset,
		"kind":    kind,
	})
}

// RecordDiscards exports a discard-reason histogram as per-reason counters.
func RecordDiscards(job, dataset string, reasons map[string]int) {
	for reason, n := range reasons {
		if n <= 0 {
			continue
		}
		backend.IncCounter("ingest_discards_total", float64(n), Labels{
			"job":     job,
			"dataset": dataset,
			"reason":  reason,
		})
	}
}

// RecordBatches increments a batch-level counter for the given dataset.
func RecordBatches(job, dataset string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("ingest_batches_total", float64(delta), Labels{
		"job":     job,
		"dataset": dataset,
	})
}
