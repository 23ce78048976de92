package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"salesetl/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// readCounterValue reads the current value of a counter child for assertions.
func readCounterValue(t *testing.T, v *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := v.WithLabelValues(labels...).Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

// readSummaryCountSum reads sample count and sum from a SummaryVec child.
func readSummaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()

	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatalf("SummaryVec.WithLabelValues(...) does not implement prometheus.Metric")
	}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Summary.Write() error = %v", err)
	}
	if m.GetSummary() == nil {
		t.Fatalf("metric did not contain Summary value")
	}
	s := m.GetSummary()
	return s.GetSampleCount(), s.GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{
			name:       "missing gateway URL returns error",
			jobName:    "nightly",
			gatewayURL: "",
			wantErr:    true,
		},
		{
			name:        "empty job name uses default",
			jobName:     "",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "salesetl",
		},
		{
			name:        "explicit job name is preserved",
			jobName:     "nightly",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "nightly",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewBackend(%q, %q) error = nil, want non-nil", tt.jobName, tt.gatewayURL)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend(%q, %q) error = %v", tt.jobName, tt.gatewayURL, err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("backend.jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
			if b.gatewayURL != tt.gatewayURL {
				t.Fatalf("backend.gatewayURL = %q, want %q", b.gatewayURL, tt.gatewayURL)
			}
		})
	}
}

func TestIncCounterRouting(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("nightly", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter("ingest_step_total", 1, metrics.Labels{"dataset": "customers", "step": "clean", "status": "success"})
	b.IncCounter("ingest_records_total", 5, metrics.Labels{"dataset": "orders", "kind": "accepted"})
	b.IncCounter("ingest_discards_total", 2, metrics.Labels{"dataset": "orders", "reason": "unknown_customer_ref"})
	b.IncCounter("ingest_batches_total", 3, metrics.Labels{"dataset": "customers"})
	b.IncCounter("something_else_total", 9, nil)

	if got := readCounterValue(t, b.stepCounter, "customers", "clean", "success"); got != 1 {
		t.Errorf("step counter = %v, want 1", got)
	}
	if got := readCounterValue(t, b.recordCounter, "orders", "accepted"); got != 5 {
		t.Errorf("record counter = %v, want 5", got)
	}
	if got := readCounterValue(t, b.discardCounter, "orders", "unknown_customer_ref"); got != 2 {
		t.Errorf("discard counter = %v, want 2", got)
	}
	if got := readCounterValue(t, b.batchCounter, "customers"); got != 3 {
		t.Errorf("batch counter = %v, want 3", got)
	}
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("nightly", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.ObserveHistogram("ingest_step_duration_seconds", 0.5, metrics.Labels{"dataset": "orders", "step": "load", "status": "success"})
	b.ObserveHistogram("ingest_step_duration_seconds", 1.5, metrics.Labels{"dataset": "orders", "step": "load", "status": "success"})
	b.ObserveHistogram("unrelated_metric", 9, metrics.Labels{"dataset": "orders", "step": "load", "status": "success"})

	count, sum := readSummaryCountSum(t, b.stepDuration, "orders", "load", "success")
	if count != 2 {
		t.Errorf("sample count = %d, want 2", count)
	}
	if sum != 2.0 {
		t.Errorf("sample sum = %v, want 2.0", sum)
	}
}

// TestFlushPushes verifies that Flush performs an HTTP push of the registry
// to the configured gateway.
func TestFlushPushes(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = len(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("nightly", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter("ingest_batches_total", 1, metrics.Labels{"dataset": "customers"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if gotPath != "/metrics/job/nightly" {
		t.Errorf("push path = %q, want /metrics/job/nightly", gotPath)
	}
	if gotBody == 0 {
		t.Errorf("push body was empty")
	}
}
