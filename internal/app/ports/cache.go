package ports

import (
	"context"
	"time"

	"eveanchor/internal/domain/harvest"
)

// CachedResult is either a solved allocation or the message of a failed
// solve.
type CachedResult struct {
	Allocations []harvest.Allocation `json:"allocations,omitempty"`
	Objective   float64              `json:"objective,omitempty"`
	Err         string               `json:"error,omitempty"`
	Outcome     SolveOutcome         `json:"outcome"`
	SolvedAt    time.Time            `json:"solved_at"`
}

// ResultCache memoises solve results by request signature. Entries older
// than the cache TTL read as misses.
//
// Get and Set are not coordinated: two callers that miss on the same key at
// the same time both solve and both Set, and the later write wins. Solving is
// deterministic so the only cost is the duplicated work.
type ResultCache interface {
	Get(ctx context.Context, key string) (CachedResult, bool)
	Set(ctx context.Context, key string, result CachedResult)
}
