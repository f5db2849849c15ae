package solve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/ports"
	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/lp"
)

type UseCase struct {
	Locations objective.LocationSource
	Tuning    harvest.Tuning
	Solver    lp.Solver
	Cache     ports.ResultCache
	Metrics   ports.SolveMetrics
	History   ports.SolveHistory
	Logger    *zap.Logger
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	logger := u.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	start := nowFn()
	out := Response{RequestID: uuid.NewString(), Signature: Signature(req)}
	logger = logger.With(zap.String("request_id", out.RequestID), zap.String("signature", out.Signature))

	if req.Days <= 0 {
		u.record(ports.OutcomeInvalid, 0)
		return Response{}, harvest.ErrInvalidDays
	}
	if len(req.Groupings) == 0 {
		u.record(ports.OutcomeInvalid, 0)
		return Response{}, objective.ErrNoGroupings
	}

	tuning := u.tuning()
	// Map the same grouping set the signature hashes, so repeated keys merge
	// instead of enumerating their planets twice.
	in, err := objective.Mapper{Locations: u.Locations, Tuning: tuning}.Map(req.Materials, objective.Canonical(req.Groupings))
	if err != nil {
		u.record(ports.OutcomeInvalid, 0)
		return Response{}, err
	}
	out.Values = in.Values

	if u.Cache != nil {
		if hit, ok := u.Cache.Get(ctx, out.Signature); ok {
			u.cacheHit()
			logger.Debug("solve served from cache", zap.String("outcome", string(hit.Outcome)))
			if hit.Err != "" {
				return Response{}, cachedError(hit)
			}
			out.Allocations = hit.Allocations
			out.Objective = hit.Objective
			out.Cached = true
			return out, nil
		}
		u.cacheMiss()
	}

	problem := harvest.NewProblem(in.Capacity, in.Demand, in.Values, req.Days)
	for _, r := range in.Candidates {
		if _, err := problem.AddResource(r); err != nil {
			u.record(ports.OutcomeError, nowFn().Sub(start))
			return Response{}, err
		}
	}
	problem.AddConfiguredFuel(tuning.Fuel, in.Consumers)

	sol, err := problem.Solve(u.solver(tuning))
	elapsed := nowFn().Sub(start)
	if err != nil {
		outcome := ports.OutcomeError
		if errors.Is(err, harvest.ErrInfeasible) {
			outcome = ports.OutcomeInfeasible
			u.store(ctx, out.Signature, ports.CachedResult{Err: err.Error(), Outcome: outcome, SolvedAt: nowFn()})
		}
		u.record(outcome, elapsed)
		u.appendHistory(ctx, logger, req, out, outcome, 0, elapsed, nowFn())
		logger.Info("solve failed", zap.String("outcome", string(outcome)), zap.Error(err))
		return Response{}, err
	}

	out.Allocations = problem.Allocations(sol)
	out.Objective = sol.Objective()
	u.store(ctx, out.Signature, ports.CachedResult{
		Allocations: out.Allocations,
		Objective:   out.Objective,
		Outcome:     ports.OutcomeOK,
		SolvedAt:    nowFn(),
	})
	u.record(ports.OutcomeOK, elapsed)
	u.appendHistory(ctx, logger, req, out, ports.OutcomeOK, totalArrays(out.Allocations), elapsed, nowFn())
	logger.Info("solve finished",
		zap.Int("candidates", problem.Len()),
		zap.Int("arrays", problem.AvailableArrays()),
		zap.Float64("objective", out.Objective),
		zap.Duration("elapsed", elapsed),
	)
	return out, nil
}

func (u UseCase) tuning() harvest.Tuning {
	if u.Tuning.UnitsPerArray == 0 {
		return harvest.DefaultTuning()
	}
	return u.Tuning
}

func (u UseCase) solver(t harvest.Tuning) lp.Solver {
	if u.Solver != nil {
		return u.Solver
	}
	return lp.Simplex{Tol: t.SolverTolerance}
}

func (u UseCase) store(ctx context.Context, key string, res ports.CachedResult) {
	if u.Cache != nil {
		u.Cache.Set(ctx, key, res)
	}
}

func (u UseCase) record(outcome ports.SolveOutcome, elapsed time.Duration) {
	if u.Metrics != nil {
		u.Metrics.RecordSolve(outcome, elapsed)
	}
}

func (u UseCase) cacheHit() {
	if u.Metrics != nil {
		u.Metrics.RecordCacheHit()
	}
}

func (u UseCase) cacheMiss() {
	if u.Metrics != nil {
		u.Metrics.RecordCacheMiss()
	}
}

func (u UseCase) appendHistory(ctx context.Context, logger *zap.Logger, req Request, out Response, outcome ports.SolveOutcome, arrays float64, elapsed time.Duration, at time.Time) {
	if u.History == nil {
		return
	}
	groupings := make([]string, 0, len(req.Groupings))
	for _, g := range objective.Canonical(req.Groupings) {
		groupings = append(groupings, g.String())
	}
	err := u.History.Append(ctx, ports.SolveRecord{
		ID:        out.RequestID,
		Signature: out.Signature,
		Days:      req.Days,
		Groupings: strings.Join(groupings, " "),
		Materials: len(req.Materials),
		Outcome:   outcome,
		Objective: out.Objective,
		Arrays:    arrays,
		Elapsed:   elapsed,
		CreatedAt: at,
	})
	if err != nil {
		logger.Warn("solve history append failed", zap.Error(err))
	}
}

func cachedError(hit ports.CachedResult) error {
	if hit.Outcome == ports.OutcomeInfeasible {
		return fmt.Errorf("%w (cached): %s", harvest.ErrInfeasible, hit.Err)
	}
	return errors.New(hit.Err)
}

func totalArrays(allocs []harvest.Allocation) float64 {
	var sum float64
	for _, a := range allocs {
		sum += a.Arrays
	}
	return sum
}
