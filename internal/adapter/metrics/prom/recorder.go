// Package prom records solve metrics as Prometheus collectors.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"eveanchor/internal/app/ports"
)

const namespace = "eveanchor"

type Recorder struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewRecorder registers the solve collectors on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Harvest solves by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time spent building and solving the harvest LP.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"outcome"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_lookups_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{r.solves, r.duration, r.cache} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) RecordSolve(outcome ports.SolveOutcome, elapsed time.Duration) {
	r.solves.WithLabelValues(string(outcome)).Inc()
	r.duration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}

func (r *Recorder) RecordCacheHit()  { r.cache.WithLabelValues("hit").Inc() }
func (r *Recorder) RecordCacheMiss() { r.cache.WithLabelValues("miss").Inc() }
