package inmemory

import (
	"sync"
	"time"

	"eveanchor/internal/app/ports"
)

type Snapshot struct {
	SolveTotal   uint64            `json:"solve_total"`
	ByOutcome    map[string]uint64 `json:"by_outcome"`
	CacheHits    uint64            `json:"cache_hits"`
	CacheMisses  uint64            `json:"cache_misses"`
	SolveSeconds float64           `json:"solve_seconds"`
}

type Recorder struct {
	mu        sync.Mutex
	byOutcome map[string]uint64
	hits      uint64
	misses    uint64
	elapsed   time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{
		byOutcome: map[string]uint64{},
	}
}

func (r *Recorder) RecordSolve(outcome ports.SolveOutcome, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOutcome[string(outcome)]++
	r.elapsed += elapsed
}

func (r *Recorder) RecordCacheHit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
}

func (r *Recorder) RecordCacheMiss() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CacheHits:    r.hits,
		CacheMisses:  r.misses,
		SolveSeconds: r.elapsed.Seconds(),
		ByOutcome:    make(map[string]uint64, len(r.byOutcome)),
	}
	for k, v := range r.byOutcome {
		out.ByOutcome[k] = v
		out.SolveTotal += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
