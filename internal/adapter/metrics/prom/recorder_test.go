package prom

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"eveanchor/internal/app/ports"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	r.RecordSolve(ports.OutcomeOK, 10*time.Millisecond)
	r.RecordSolve(ports.OutcomeOK, 20*time.Millisecond)
	r.RecordSolve(ports.OutcomeInfeasible, time.Millisecond)
	r.RecordCacheHit()
	r.RecordCacheMiss()
	r.RecordCacheMiss()

	if got := testutil.ToFloat64(r.solves.WithLabelValues("ok")); got != 2 {
		t.Fatalf("ok solves=%v want 2", got)
	}
	if got := testutil.ToFloat64(r.cache.WithLabelValues("miss")); got != 2 {
		t.Fatalf("cache misses=%v want 2", got)
	}

	want := `
# HELP eveanchor_result_cache_lookups_total Result cache lookups by result.
# TYPE eveanchor_result_cache_lookups_total counter
eveanchor_result_cache_lookups_total{result="hit"} 1
eveanchor_result_cache_lookups_total{result="miss"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "eveanchor_result_cache_lookups_total"); err != nil {
		t.Fatalf("gather: %v", err)
	}
}

func TestRecorderRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewRecorder(reg); err != nil {
		t.Fatalf("first NewRecorder: %v", err)
	}
	if _, err := NewRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
