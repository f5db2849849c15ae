package solve

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/ports"
	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/lp"
	"eveanchor/internal/refdata"
)

type mapCache struct {
	mu    sync.Mutex
	items map[string]ports.CachedResult
	sets  int
}

func (c *mapCache) Get(_ context.Context, key string) (ports.CachedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.items[key]
	return r, ok
}

func (c *mapCache) Set(_ context.Context, key string, r ports.CachedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[string]ports.CachedResult{}
	}
	c.items[key] = r
	c.sets++
}

type countingMetrics struct {
	outcomes []ports.SolveOutcome
	hits     int
	misses   int
}

func (m *countingMetrics) RecordSolve(o ports.SolveOutcome, _ time.Duration) {
	m.outcomes = append(m.outcomes, o)
}
func (m *countingMetrics) RecordCacheHit()  { m.hits++ }
func (m *countingMetrics) RecordCacheMiss() { m.misses++ }

type memHistory struct {
	records []ports.SolveRecord
}

func (h *memHistory) Append(_ context.Context, r ports.SolveRecord) error {
	h.records = append(h.records, r)
	return nil
}

func (h *memHistory) Recent(_ context.Context, limit int) ([]ports.SolveRecord, error) {
	return h.records, nil
}

type countingSolver struct {
	calls int
}

func (s *countingSolver) Solve(m *lp.Model) (lp.Solution, error) {
	s.calls++
	return lp.Simplex{}.Solve(m)
}

func loadStore(t *testing.T) *refdata.Store {
	t.Helper()
	store, err := refdata.Load("../../refdata/testdata")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return store
}

func tanooRequest() Request {
	return Request{
		Days:      7,
		Groupings: []objective.Grouping{{Key: "Tanoo", Count: 1}},
		Materials: []harvest.Material{
			{ResourceID: int64(harvest.SilicateGlass), Name: "Silicate Glass", Quantity: 2000, Valuation: 2_022_680},
			{ResourceID: int64(harvest.LiquidOzone), Name: "Liquid Ozone", Quantity: 1000, Valuation: 166_130},
			{ResourceID: int64(harvest.BaseMetals), Name: "Base Metals", Quantity: 500, Valuation: 40_000},
		},
	}
}

func TestExecute_TanooScenario(t *testing.T) {
	store := loadStore(t)
	cache := &mapCache{}
	metrics := &countingMetrics{}
	history := &memHistory{}
	uc := UseCase{Locations: store, Cache: cache, Metrics: metrics, History: history}

	out, err := uc.Execute(context.Background(), tanooRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(out.Allocations) == 0 {
		t.Fatalf("expected a non-empty allocation")
	}

	var tanoo float64
	produced := map[int64]float64{}
	for _, a := range out.Allocations {
		if a.Arrays < -1e-6 || a.Arrays > harvest.DefaultPlanetLimit+1e-6 {
			t.Fatalf("arrays %v out of bounds on %d", a.Arrays, a.Record.LocationID)
		}
		if a.Record.Key == "Tanoo" {
			tanoo += a.Arrays
		}
		produced[a.Record.ResourceID] += a.Arrays * a.Record.OutputRate * 7 * harvest.HoursPerDay
	}
	if tanoo > 264+1e-6 {
		t.Fatalf("Tanoo arrays=%v want <= 264", tanoo)
	}
	if produced[int64(harvest.SilicateGlass)] < 2000-1e-3 {
		t.Fatalf("silicate glass produced %v want >= 2000", produced[int64(harvest.SilicateGlass)])
	}
	fuel := harvest.FuelEnergyPerOutpost / harvest.FuelEnergyPerUnit * harvest.HoursPerDay * 7
	if produced[int64(harvest.LiquidOzone)] < 1000+fuel-1e-3 {
		t.Fatalf("liquid ozone produced %v want >= %v", produced[int64(harvest.LiquidOzone)], 1000+fuel)
	}
	if out.Cached || out.RequestID == "" || out.Signature == "" {
		t.Fatalf("unexpected response metadata %+v", out)
	}
	if cache.sets != 1 || metrics.misses != 1 || len(history.records) != 1 {
		t.Fatalf("cache sets=%d misses=%d history=%d", cache.sets, metrics.misses, len(history.records))
	}
	if history.records[0].Outcome != ports.OutcomeOK || history.records[0].Groupings != "Tanoo=1" {
		t.Fatalf("history record=%+v", history.records[0])
	}
}

func TestExecute_SecondCallIsServedFromCache(t *testing.T) {
	store := loadStore(t)
	solver := &countingSolver{}
	metrics := &countingMetrics{}
	uc := UseCase{Locations: store, Solver: solver, Cache: &mapCache{}, Metrics: metrics}

	first, err := uc.Execute(context.Background(), tanooRequest())
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	req := tanooRequest()
	req.Materials[0], req.Materials[2] = req.Materials[2], req.Materials[0]
	second, err := uc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if solver.calls != 1 {
		t.Fatalf("solver calls=%d want 1", solver.calls)
	}
	if !second.Cached || second.Objective != first.Objective || len(second.Allocations) != len(first.Allocations) {
		t.Fatalf("cached response differs: first=%v second=%v", first.Objective, second.Objective)
	}
	if metrics.hits != 1 {
		t.Fatalf("cache hits=%d want 1", metrics.hits)
	}
}

func TestExecute_InfeasibleIsCached(t *testing.T) {
	store := loadStore(t)
	cache := &mapCache{}
	metrics := &countingMetrics{}
	uc := UseCase{Locations: store, Cache: cache, Metrics: metrics}
	req := Request{
		Days:      7,
		Groupings: []objective.Grouping{{Key: "Tanoo", Count: 1}},
		Materials: []harvest.Material{{ResourceID: int64(harvest.Nanites), Name: "Nanites", Quantity: 10, Valuation: 100}},
	}

	_, err := uc.Execute(context.Background(), req)
	var noSource *harvest.NoSourceError
	if !errors.As(err, &noSource) {
		t.Fatalf("Execute() error = %v want NoSourceError", err)
	}

	_, err = uc.Execute(context.Background(), req)
	if !errors.Is(err, harvest.ErrInfeasible) {
		t.Fatalf("cached Execute() error = %v want ErrInfeasible", err)
	}
	if metrics.hits != 1 || len(metrics.outcomes) != 1 || metrics.outcomes[0] != ports.OutcomeInfeasible {
		t.Fatalf("metrics=%+v", metrics)
	}
}

func TestExecute_RejectsInvalidRequests(t *testing.T) {
	store := loadStore(t)
	uc := UseCase{Locations: store}

	if _, err := uc.Execute(context.Background(), Request{Days: 0, Groupings: []objective.Grouping{{Key: "Tanoo", Count: 1}}}); !errors.Is(err, harvest.ErrInvalidDays) {
		t.Fatalf("zero days error = %v", err)
	}
	if _, err := uc.Execute(context.Background(), Request{Days: 7}); !errors.Is(err, objective.ErrNoGroupings) {
		t.Fatalf("no groupings error = %v", err)
	}
	var unknown *objective.UnknownNameError
	if _, err := uc.Execute(context.Background(), Request{Days: 7, Groupings: []objective.Grouping{{Key: "Tanao", Count: 1}}}); !errors.As(err, &unknown) {
		t.Fatalf("unknown key error = %v", err)
	}
}

func TestSignature_IgnoresOrder(t *testing.T) {
	a := tanooRequest()
	b := tanooRequest()
	b.Materials[0], b.Materials[1] = b.Materials[1], b.Materials[0]
	b.Groupings = []objective.Grouping{{Key: "Tanoo", Count: 1}}
	if Signature(a) != Signature(b) {
		t.Fatalf("signature depends on material order")
	}
	c := tanooRequest()
	c.Days = 6
	if Signature(a) == Signature(c) {
		t.Fatalf("signature ignores days")
	}
	d := tanooRequest()
	d.Groupings = []objective.Grouping{{Key: "Tanoo", Count: 2}}
	if Signature(a) == Signature(d) {
		t.Fatalf("signature ignores grouping counts")
	}
}

func TestFromText(t *testing.T) {
	store := loadStore(t)
	text := objective.RequirementHeader + "\n" +
		"1\tSilicate Glass\t2000\t2022680\n" +
		"2\tLiquid Ozone\t1000\t166130\n"
	req, err := FromText(store, 7, "Tanoo=1", text)
	if err != nil {
		t.Fatalf("FromText() error = %v", err)
	}
	if len(req.Materials) != 2 || len(req.Groupings) != 1 || req.Days != 7 {
		t.Fatalf("FromText()=%+v", req)
	}
	if _, err := FromText(store, 7, "Tanoo", text); err == nil {
		t.Fatalf("expected grouping parse error")
	}
	blank, err := FromText(store, 7, "Tanoo=1", "  \n")
	if err != nil || len(blank.Materials) != 0 {
		t.Fatalf("FromText(blank)=%+v, %v want no materials", blank, err)
	}
}

type modelSizeSolver struct {
	vars []int
}

func (s *modelSizeSolver) Solve(m *lp.Model) (lp.Solution, error) {
	s.vars = append(s.vars, m.NumVars())
	return lp.Simplex{}.Solve(m)
}

func TestExecute_RepeatedKeysMergeBeforeMapping(t *testing.T) {
	store := loadStore(t)
	solver := &modelSizeSolver{}
	uc := UseCase{Locations: store, Solver: solver}

	split := tanooRequest()
	split.Groupings = []objective.Grouping{{Key: "Tanoo", Count: 1}, {Key: "Tanoo", Count: 1}}
	merged := tanooRequest()
	merged.Groupings = []objective.Grouping{{Key: "Tanoo", Count: 2}}

	a, err := uc.Execute(context.Background(), split)
	if err != nil {
		t.Fatalf("Execute(split) error = %v", err)
	}
	b, err := uc.Execute(context.Background(), merged)
	if err != nil {
		t.Fatalf("Execute(merged) error = %v", err)
	}
	if len(solver.vars) != 2 || solver.vars[0] != solver.vars[1] {
		t.Fatalf("model sizes=%v want two equal sizes", solver.vars)
	}
	if len(a.Allocations) != len(b.Allocations) {
		t.Fatalf("allocations split=%d merged=%d", len(a.Allocations), len(b.Allocations))
	}
	if a.Signature != b.Signature || math.Abs(a.Objective-b.Objective) > 1e-6*math.Abs(b.Objective) {
		t.Fatalf("split=%v/%s merged=%v/%s", a.Objective, a.Signature, b.Objective, b.Signature)
	}
}
