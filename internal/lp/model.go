// Package lp holds a small linear-program model and a bounded-variable
// simplex that solves it, with row operations done by gonum/floats.
//
// A Model is built incrementally: variables with bounds, linear expressions
// over those variables, constraints and a single objective. Solvers consume a
// finished Model and return a Solution indexed by Var.
package lp

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInfeasible = errors.New("lp: problem is infeasible")
	ErrUnbounded  = errors.New("lp: problem is unbounded")
	ErrEmptyModel = errors.New("lp: model has no variables")
	// ErrIterationLimit and ErrNumerical report a solver that gave up, not
	// a property of the model.
	ErrIterationLimit = errors.New("lp: iteration limit reached")
	ErrNumerical      = errors.New("lp: numerical failure")
)

// Var identifies a decision variable inside the Model that created it.
type Var int

// Term is coef*v.
type Term struct {
	Var  Var
	Coef float64
}

// Expr is a linear expression. Repeated variables are summed.
type Expr []Term

func (e *Expr) Add(v Var, coef float64) {
	*e = append(*e, Term{Var: v, Coef: coef})
}

// Sense is the relation of a constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "=="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

type Constraint struct {
	Name  string
	Expr  Expr
	Sense Sense
	RHS   float64
}

type bounds struct {
	lower float64
	upper float64
}

type Model struct {
	vars        []bounds
	objective   Expr
	maximize    bool
	constraints []Constraint
}

func NewModel() *Model {
	return &Model{}
}

// AddVar creates a variable in [lower, upper]. Upper may be +Inf; lower must
// be finite.
func (m *Model) AddVar(lower, upper float64) Var {
	m.vars = append(m.vars, bounds{lower: lower, upper: upper})
	return Var(len(m.vars) - 1)
}

func (m *Model) NumVars() int { return len(m.vars) }

func (m *Model) Bounds(v Var) (float64, float64) {
	b := m.vars[v]
	return b.lower, b.upper
}

func (m *Model) Maximize(e Expr) {
	m.objective = e
	m.maximize = true
}

func (m *Model) Minimize(e Expr) {
	m.objective = e
	m.maximize = false
}

func (m *Model) AddConstraint(name string, e Expr, sense Sense, rhs float64) {
	m.constraints = append(m.constraints, Constraint{Name: name, Expr: e, Sense: sense, RHS: rhs})
}

func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// Eval returns the value of e at x.
func Eval(e Expr, x []float64) float64 {
	var sum float64
	for _, t := range e {
		sum += t.Coef * x[t.Var]
	}
	return sum
}

func (m *Model) validate() error {
	if len(m.vars) == 0 {
		return ErrEmptyModel
	}
	for i, b := range m.vars {
		if math.IsInf(b.lower, 0) || math.IsNaN(b.lower) {
			return fmt.Errorf("lp: variable %d has non-finite lower bound", i)
		}
		if b.upper < b.lower {
			return fmt.Errorf("lp: variable %d has upper bound %v below lower bound %v: %w", i, b.upper, b.lower, ErrInfeasible)
		}
	}
	check := func(e Expr) error {
		for _, t := range e {
			if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
				return fmt.Errorf("lp: expression references unknown variable %d", t.Var)
			}
		}
		return nil
	}
	if err := check(m.objective); err != nil {
		return err
	}
	for _, c := range m.constraints {
		if err := check(c.Expr); err != nil {
			return fmt.Errorf("constraint %q: %w", c.Name, err)
		}
	}
	return nil
}

// Solution carries variable values and the objective value.
type Solution struct {
	Objective float64
	values    []float64
}

func (s Solution) Value(v Var) float64 {
	if int(v) < 0 || int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

func (s Solution) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Solver solves a finished model.
type Solver interface {
	Solve(m *Model) (Solution, error)
}
