package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/powerplan/core/metrics"
)

func TestPromSink_RecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordRun(sampleRun(time.Now())); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP powerplan_runs_total Completed optimization runs
# TYPE powerplan_runs_total counter
powerplan_runs_total{over_budget="true"} 1
`
	if err := testutil.CollectAndCompare(sink.runs, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if got := testutil.ToFloat64(sink.energy.WithLabelValues(TierScheduled)); got != 0.5 {
		t.Errorf("scheduled energy = %v", got)
	}
	if got := testutil.ToFloat64(sink.slots.WithLabelValues(TierPriority)); got != 2 {
		t.Errorf("priority slots = %v", got)
	}
	if got := testutil.ToFloat64(sink.overrun); got != 120 {
		t.Errorf("overrun = %v", got)
	}
	if c := testutil.CollectAndCount(sink.cost); c == 0 {
		t.Errorf("cost not recorded")
	}
}

func TestPromSink_RejectionAndIndex(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	_ = sink.RecordRejection(coremetrics.RejectedRunEvent{RunID: "x"})
	_ = sink.RecordIndexStats(coremetrics.IndexStats{CachedKeys: 7, Scans: 7, Records: 100})

	if got := testutil.ToFloat64(sink.rejected); got != 1 {
		t.Errorf("rejected = %v", got)
	}
	if got := testutil.ToFloat64(sink.cacheKeys); got != 7 {
		t.Errorf("cached keys = %v", got)
	}
}

func TestNewPromSinkWithRegistry_Reuse(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.runs != second.runs {
		t.Errorf("expected collectors to be shared")
	}
}
