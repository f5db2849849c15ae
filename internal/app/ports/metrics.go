package ports

import "time"

type SolveOutcome string

const (
	OutcomeOK         SolveOutcome = "ok"
	OutcomeInfeasible SolveOutcome = "infeasible"
	OutcomeInvalid    SolveOutcome = "invalid"
	OutcomeError      SolveOutcome = "error"
)

type SolveMetrics interface {
	RecordSolve(outcome SolveOutcome, elapsed time.Duration)
	RecordCacheHit()
	RecordCacheMiss()
}
