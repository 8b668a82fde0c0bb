package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerWithOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithNamespace("test"),
		WithSubsystem("churn"),
		WithHistogramBuckets([]float64{1, 5, 10}),
		WithPrometheusRegistry(reg),
	)
	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.namespace != "test" || m.subsystem != "churn" {
		t.Errorf("options not applied: namespace=%q subsystem=%q", m.namespace, m.subsystem)
	}
}

func TestGlobalRecorders(t *testing.T) {
	// The global manager registers on the custom registry in init; these
	// must not panic.
	RecordRecordScored(0.7)
	RecordScoringError()
	RecordValidationError()
	RecordScoringLatency(1.5)
	RecordModelLoaded(1700000000)
	RecordTrainAUC(0.91)
	RecordJobDuration("build-features", 2.0)
	UpdateFeatureRowsBuilt(100)
	UpdateBatchRowsScored(100)
	RecordHTTPRequest("score", "POST", "200")
	RecordHTTPRequestDuration("score", "POST", "200", 3.2)
	UpdateSystemMemoryUsage(1 << 20)
	UpdateSystemGoroutineCount(12)

	if GetRegistry() == nil {
		t.Fatal("GetRegistry returned nil")
	}
	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected at least one metric family")
	}
}
