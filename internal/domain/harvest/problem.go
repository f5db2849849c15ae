package harvest

import (
	"errors"
	"fmt"
	"sort"

	"eveanchor/internal/lp"
)

// Handle refers to the decision variable created for one yield record.
type Handle int

// Problem accumulates one LP variable per candidate yield record and solves
// for the allocation of arrays that maximises ISK value.
//
// The model always deploys exactly AvailableArrays arrays. Capacity per key
// and per location are upper bounds and every demanded resource must be
// produced in at least the demanded quantity over the harvest window.
type Problem struct {
	capacity Capacity
	demand   Demand
	values   ValueTable
	days     float64

	records []YieldRecord
	upper   []float64

	totalValue         lp.Expr
	totalAllocated     lp.Expr
	consumedByKey      map[string]lp.Expr
	consumedByLocation map[int64]lp.Expr
	producedByResource map[int64]lp.Expr
}

func NewProblem(capacity Capacity, demand Demand, values ValueTable, days float64) *Problem {
	if capacity.ByKey == nil {
		capacity.ByKey = map[string]int{}
	}
	if capacity.ByLocation == nil {
		capacity.ByLocation = map[int64]int{}
	}
	return &Problem{
		capacity:           capacity,
		demand:             demand.Clone(),
		values:             values,
		days:               days,
		consumedByKey:      map[string]lp.Expr{},
		consumedByLocation: map[int64]lp.Expr{},
		producedByResource: map[int64]lp.Expr{},
	}
}

func (p *Problem) AvailableArrays() int { return p.capacity.Total() }

func (p *Problem) Days() float64 { return p.days }

// Demand returns a copy of the minimum output map, fuel included.
func (p *Problem) Demand() Demand { return p.demand.Clone() }

func (p *Problem) Len() int { return len(p.records) }

// UpperBound is the planet limit applied to the variable behind h.
func (p *Problem) UpperBound(h Handle) float64 { return p.upper[h] }

func (p *Problem) hours() float64 { return p.days * HoursPerDay }

func (p *Problem) AddResource(r YieldRecord) (Handle, error) {
	unitValue, err := p.values.ValueOf(r.ResourceID)
	if err != nil {
		return 0, err
	}
	h := Handle(len(p.records))
	v := lp.Var(h)
	p.records = append(p.records, r)
	p.upper = append(p.upper, float64(p.capacity.PlanetLimit(r.LocationID)))

	output := r.OutputRate * p.hours()
	p.totalValue.Add(v, unitValue*output)
	p.totalAllocated.Add(v, 1)

	key := p.consumedByKey[r.Key]
	key.Add(v, 1)
	p.consumedByKey[r.Key] = key

	loc := p.consumedByLocation[r.LocationID]
	loc.Add(v, 1)
	p.consumedByLocation[r.LocationID] = loc

	produced := p.producedByResource[r.ResourceID]
	produced.Add(v, output)
	p.producedByResource[r.ResourceID] = produced
	return h, nil
}

// AddFuel adds the fuel burnt by consumers over the harvest window to the
// demand for resourceID. Call it before Solve.
func (p *Problem) AddFuel(resourceID int64, energyPerUnit, energyRequired float64, consumers int) {
	if energyPerUnit <= 0 || consumers <= 0 {
		return
	}
	p.demand[resourceID] += energyRequired / energyPerUnit * p.hours() * float64(consumers)
}

func (p *Problem) AddConfiguredFuel(f Fuel, consumers int) {
	if !f.Enabled {
		return
	}
	p.AddFuel(f.ResourceID, f.EnergyPerUnit, f.EnergyRequired, consumers)
}

// Solution reads variable values back by handle.
type Solution struct {
	raw lp.Solution
}

func (s Solution) Value(h Handle) float64 { return s.raw.Value(lp.Var(h)) }

// Objective is the total ISK value of the allocation.
func (s Solution) Objective() float64 { return s.raw.Objective }

func (p *Problem) Solve(solver lp.Solver) (Solution, error) {
	if p.days <= 0 {
		return Solution{}, ErrInvalidDays
	}
	if len(p.records) == 0 {
		return Solution{}, ErrNoCandidates
	}
	if missing := p.unsourcedDemand(); len(missing) > 0 {
		return Solution{}, &NoSourceError{ResourceIDs: missing}
	}

	m := lp.NewModel()
	for _, upper := range p.upper {
		m.AddVar(0, upper)
	}
	m.Maximize(p.totalValue)
	m.AddConstraint("total_allocated", p.totalAllocated, lp.Equal, float64(p.AvailableArrays()))

	keys := make([]string, 0, len(p.consumedByKey))
	for k := range p.consumedByKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.AddConstraint("key:"+k, p.consumedByKey[k], lp.LessEq, float64(p.capacity.ByKey[k]))
	}

	for _, loc := range sortedIDs(p.consumedByLocation) {
		m.AddConstraint(fmt.Sprintf("location:%d", loc), p.consumedByLocation[loc], lp.LessEq, float64(p.capacity.ByLocation[loc]))
	}

	for _, id := range sortedIDs(p.demand) {
		if p.demand[id] <= 0 {
			continue
		}
		m.AddConstraint(fmt.Sprintf("resource:%d", id), p.producedByResource[id], lp.GreaterEq, p.demand[id])
	}

	raw, err := solver.Solve(m)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return Solution{}, fmt.Errorf("%w: %w", ErrInfeasible, err)
		}
		return Solution{}, fmt.Errorf("%w: %w", ErrSolverFailed, err)
	}
	return Solution{raw: raw}, nil
}

// Allocations pairs every record with its solved array count, in the order
// the records were added.
func (p *Problem) Allocations(sol Solution) []Allocation {
	out := make([]Allocation, len(p.records))
	for i, r := range p.records {
		out[i] = Allocation{Record: r, Arrays: sol.Value(Handle(i))}
	}
	return out
}

func (p *Problem) unsourcedDemand() []int64 {
	var missing []int64
	for _, id := range sortedIDs(p.demand) {
		if p.demand[id] <= 0 {
			continue
		}
		if len(p.producedByResource[id]) == 0 {
			missing = append(missing, id)
		}
	}
	return missing
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
