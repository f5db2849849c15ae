package lp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const DefaultTolerance = 1e-9

const (
	feasibilityTol = 1e-7
	// blandAfter is the number of consecutive degenerate pivots after which
	// pricing switches to Bland's rule until the objective moves again.
	blandAfter = 50
)

// Simplex is a dense bounded-variable primal simplex.
//
// Variables are shifted to y = x - lower so every column lives in
// [0, upper-lower]. Bounds are kept on the columns instead of being added as
// rows. Each constraint row gets a slack column (≤, ≥) and, when the slack
// cannot start basic, an artificial column. The starting basis is therefore
// the identity and feasible by construction. Phase one drives the artificials
// to zero, phase two optimises the real objective from the basis phase one
// ends on.
type Simplex struct {
	Tol float64
	// MaxIter caps the pivots of both phases together. Zero picks a limit
	// from the model size.
	MaxIter int
}

func (s Simplex) tol() float64 {
	if s.Tol > 0 {
		return s.Tol
	}
	return DefaultTolerance
}

func (s Simplex) Solve(m *Model) (Solution, error) {
	if err := m.validate(); err != nil {
		return Solution{}, err
	}
	tb, cost, err := s.build(m)
	if err != nil {
		return Solution{}, err
	}

	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = 50*(tb.m+tb.n) + 1000
	}

	if tb.artificials > 0 {
		phase1 := make([]float64, tb.n)
		for j := tb.firstArtificial; j < tb.n; j++ {
			phase1[j] = 1
		}
		tb.price(phase1)
		used, err := tb.iterate(maxIter)
		if err != nil {
			return Solution{}, err
		}
		maxIter -= used
		if infeasibility := tb.artificialSum(); infeasibility > feasibilityTol*(1+tb.rhsNorm) {
			return Solution{}, fmt.Errorf("%w: phase one ended %.3g away from a feasible point", ErrInfeasible, infeasibility)
		}
		tb.retireArtificials()
	}

	tb.price(cost)
	if _, err := tb.iterate(maxIter); err != nil {
		return Solution{}, err
	}

	x := make([]float64, len(m.vars))
	for v, b := range m.vars {
		x[v] = clamp(b.lower+tb.value(v), b.lower, b.upper)
	}
	if err := checkFeasible(m, x); err != nil {
		return Solution{}, err
	}
	return Solution{Objective: Eval(m.objective, x), values: x}, nil
}

// tableau holds B⁻¹A for the current basis together with the basic values
// and the reduced costs of the phase being solved.
type tableau struct {
	m, n int
	rows [][]float64
	x    []float64 // value of the basic column of each row
	d    []float64 // reduced costs

	basis   []int // basic column of each row
	pos     []int // row of a basic column, -1 when nonbasic
	upper   []float64
	atUpper []bool // nonbasic column held at its upper bound
	blocked []bool // column may not enter the basis

	firstArtificial int
	artificials     int
	rhsNorm         float64
	tol             float64
}

// build converts m into a tableau with an identity starting basis and
// returns the scaled phase-two cost vector.
func (s Simplex) build(m *Model) (*tableau, []float64, error) {
	tol := s.tol()
	nv := len(m.vars)

	type row struct {
		coefs map[int]float64
		slack float64
		rhs   float64
	}
	var rows []row
	for _, c := range m.constraints {
		coefs := map[int]float64{}
		for _, t := range c.Expr {
			coefs[int(t.Var)] += t.Coef
		}
		rhs := c.RHS
		scale := 0.0
		for v, coef := range coefs {
			if coef == 0 {
				delete(coefs, v)
				continue
			}
			rhs -= coef * m.vars[v].lower
			scale = math.Max(scale, math.Abs(coef))
		}
		if len(coefs) == 0 {
			if !trivialHolds(c.Sense, rhs, tol) {
				return nil, nil, fmt.Errorf("constraint %q: 0 %s %v: %w", c.Name, c.Sense, rhs, ErrInfeasible)
			}
			continue
		}
		r := row{coefs: coefs, rhs: rhs / scale}
		for v := range coefs {
			coefs[v] /= scale
		}
		switch c.Sense {
		case LessEq:
			r.slack = 1
		case GreaterEq:
			r.slack = -1
		}
		if r.rhs < 0 || (r.rhs == 0 && r.slack < 0) {
			r.rhs = -r.rhs
			r.slack = -r.slack
			for v := range coefs {
				coefs[v] = -coefs[v]
			}
		}
		rows = append(rows, r)
	}

	slacks, artificials := 0, 0
	for _, r := range rows {
		if r.slack != 0 {
			slacks++
		}
		if r.slack != 1 {
			artificials++
		}
	}

	tb := &tableau{
		m:               len(rows),
		n:               nv + slacks + artificials,
		firstArtificial: nv + slacks,
		artificials:     artificials,
		tol:             tol,
	}
	tb.upper = make([]float64, tb.n)
	for v, b := range m.vars {
		tb.upper[v] = b.upper - b.lower
	}
	for j := nv; j < tb.n; j++ {
		tb.upper[j] = math.Inf(1)
	}
	tb.atUpper = make([]bool, tb.n)
	tb.blocked = make([]bool, tb.n)
	tb.pos = make([]int, tb.n)
	for j := range tb.pos {
		tb.pos[j] = -1
	}
	tb.basis = make([]int, tb.m)
	tb.x = make([]float64, tb.m)
	tb.rows = make([][]float64, tb.m)
	backing := make([]float64, tb.m*tb.n)

	slackCol, artCol := nv, tb.firstArtificial
	for i, r := range rows {
		tr := backing[i*tb.n : (i+1)*tb.n : (i+1)*tb.n]
		for v, coef := range r.coefs {
			tr[v] = coef
		}
		basic := -1
		if r.slack != 0 {
			tr[slackCol] = r.slack
			if r.slack == 1 {
				basic = slackCol
			}
			slackCol++
		}
		if basic < 0 {
			tr[artCol] = 1
			basic = artCol
			artCol++
		}
		tb.rows[i] = tr
		tb.basis[i] = basic
		tb.pos[basic] = i
		tb.x[i] = r.rhs
		tb.rhsNorm = math.Max(tb.rhsNorm, r.rhs)
	}

	cost := make([]float64, tb.n)
	for _, t := range m.objective {
		cost[t.Var] += t.Coef
	}
	scale := 0.0
	for v := 0; v < nv; v++ {
		if m.maximize {
			cost[v] = -cost[v]
		}
		scale = math.Max(scale, math.Abs(cost[v]))
	}
	if scale > 0 {
		floats.Scale(1/scale, cost[:nv])
	}
	return tb, cost, nil
}

// price sets the reduced costs for cost under the current basis.
func (tb *tableau) price(cost []float64) {
	tb.d = append(tb.d[:0], cost...)
	for i, row := range tb.rows {
		if cb := cost[tb.basis[i]]; cb != 0 {
			floats.AddScaled(tb.d, -cb, row)
		}
	}
	for _, j := range tb.basis {
		tb.d[j] = 0
	}
}

// iterate pivots until no column prices out and returns the number of
// iterations spent.
func (tb *tableau) iterate(maxIter int) (int, error) {
	degenerate := 0
	for it := 0; ; it++ {
		bland := degenerate > blandAfter
		j, dir := tb.entering(bland)
		if j < 0 {
			return it, nil
		}
		if it >= maxIter {
			return it, fmt.Errorf("%w after %d pivots", ErrIterationLimit, it)
		}
		r, step, toUpper := tb.leaving(j, dir, bland)
		if math.IsInf(step, 1) {
			return it, ErrUnbounded
		}
		if step <= tb.tol {
			degenerate++
		} else {
			degenerate = 0
		}

		entering := dir * step
		if tb.atUpper[j] {
			entering += tb.upper[j]
		}
		for i, row := range tb.rows {
			if a := row[j]; a != 0 {
				tb.x[i] = tb.snap(tb.x[i]-dir*step*a, tb.upper[tb.basis[i]])
			}
		}
		if r < 0 {
			tb.atUpper[j] = !tb.atUpper[j]
			continue
		}
		tb.pivot(r, j, entering, toUpper)
	}
}

// entering picks the nonbasic column to move and its direction: +1 to rise
// from the lower bound, -1 to fall from the upper bound.
func (tb *tableau) entering(bland bool) (int, float64) {
	best, bestScore, dir := -1, 0.0, 0.0
	for j := 0; j < tb.n; j++ {
		if tb.pos[j] >= 0 || tb.blocked[j] || tb.upper[j] <= tb.tol {
			continue
		}
		score, dj := 0.0, 1.0
		if tb.atUpper[j] {
			score, dj = tb.d[j], -1
		} else {
			score = -tb.d[j]
		}
		if score <= tb.tol {
			continue
		}
		if bland {
			return j, dj
		}
		if score > bestScore {
			best, bestScore, dir = j, score, dj
		}
	}
	return best, dir
}

// leaving runs the ratio test for column j moving in direction dir. Row -1
// means j reaches its own opposite bound first.
func (tb *tableau) leaving(j int, dir float64, bland bool) (int, float64, bool) {
	r, step, toUpper := -1, tb.upper[j], false
	bestPivot := 0.0
	for i, row := range tb.rows {
		a := dir * row[j]
		var limit float64
		hitsUpper := false
		switch {
		case a > tb.tol:
			limit = tb.x[i] / a
		case a < -tb.tol:
			u := tb.upper[tb.basis[i]]
			if math.IsInf(u, 1) {
				continue
			}
			limit = (u - tb.x[i]) / -a
			hitsUpper = true
		default:
			continue
		}
		if limit < 0 {
			limit = 0
		}
		switch {
		case limit < step-1e-12:
		case r >= 0 && math.Abs(limit-step) <= 1e-12:
			if bland && tb.basis[i] > tb.basis[r] {
				continue
			}
			if !bland && math.Abs(a) <= bestPivot {
				continue
			}
		default:
			continue
		}
		r, step, toUpper, bestPivot = i, limit, hitsUpper, math.Abs(a)
	}
	return r, step, toUpper
}

func (tb *tableau) pivot(r, j int, enteringValue float64, leavingToUpper bool) {
	leaving := tb.basis[r]
	tb.pos[leaving] = -1
	tb.atUpper[leaving] = leavingToUpper
	tb.basis[r] = j
	tb.pos[j] = r
	tb.atUpper[j] = false
	tb.x[r] = enteringValue

	pr := tb.rows[r]
	floats.Scale(1/pr[j], pr)
	pr[j] = 1
	for i, row := range tb.rows {
		if i == r {
			continue
		}
		if f := row[j]; f != 0 {
			floats.AddScaled(row, -f, pr)
			row[j] = 0
		}
	}
	if f := tb.d[j]; f != 0 {
		floats.AddScaled(tb.d, -f, pr)
	}
	tb.d[j] = 0
}

// snap removes round-off that pushes a basic value just outside its bounds.
func (tb *tableau) snap(v, upper float64) float64 {
	if v < 0 && v > -feasibilityTol {
		return 0
	}
	if v > upper && v < upper+feasibilityTol {
		return upper
	}
	return v
}

func (tb *tableau) artificialSum() float64 {
	var sum float64
	for i, j := range tb.basis {
		if j >= tb.firstArtificial {
			sum += math.Abs(tb.x[i])
		}
	}
	return sum
}

// retireArtificials pins every artificial column to zero. Basic ones leave
// at the first pivot that would move them.
func (tb *tableau) retireArtificials() {
	for j := tb.firstArtificial; j < tb.n; j++ {
		tb.blocked[j] = true
		tb.upper[j] = 0
		if r := tb.pos[j]; r >= 0 {
			tb.x[r] = 0
		}
	}
}

func (tb *tableau) value(col int) float64 {
	if r := tb.pos[col]; r >= 0 {
		return tb.x[r]
	}
	if tb.atUpper[col] {
		return tb.upper[col]
	}
	return 0
}

// checkFeasible rejects a result that drifted away from the constraints.
func checkFeasible(m *Model, x []float64) error {
	for _, c := range m.constraints {
		lhs := Eval(c.Expr, x)
		slack := 1e-6 * (1 + math.Abs(c.RHS))
		ok := true
		switch c.Sense {
		case LessEq:
			ok = lhs <= c.RHS+slack
		case GreaterEq:
			ok = lhs >= c.RHS-slack
		default:
			ok = math.Abs(lhs-c.RHS) <= slack
		}
		if !ok {
			return fmt.Errorf("%w: constraint %q: %v %s %v", ErrNumerical, c.Name, lhs, c.Sense, c.RHS)
		}
	}
	return nil
}

func trivialHolds(sense Sense, rhs, tol float64) bool {
	switch sense {
	case LessEq:
		return 0 <= rhs+tol
	case GreaterEq:
		return 0 >= rhs-tol
	default:
		return math.Abs(rhs) <= tol
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
