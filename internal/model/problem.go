package model

import (
	"fmt"
	"strings"
)

// Problem owns all variables, constraints, and the objective of a MINLP
// instance (spec.md §3). Every other entity in this package holds only an
// integer index back into Problem's slices — never a pointer to Problem —
// so ownership stays acyclic (spec.md §9 "Cyclic references").
type Problem struct {
	Name string

	variables   []*Variable
	constraints []*Constraint
	objective   *Objective

	// Views: sorted projections of the master lists, recomputed by
	// RebuildViews whenever variables/constraints are added.
	realVars     []int
	binaryVars   []int
	integerVars  []int
	auxVars      []int
	linearCons   []int
	quadCons     []int
	nonlinCons   []int
}

// NewProblem returns an empty problem ready for Builder-style population.
func NewProblem(name string) *Problem {
	return &Problem{Name: name, objective: NewObjective(Minimize)}
}

// AddVariable appends a new variable and returns it; its Index is
// len(variables) before the append, preserving the dense 0..N-1 invariant.
func (p *Problem) AddVariable(name string, typ VariableType, lower, upper float64) *Variable {
	idx := len(p.variables)
	v := NewVariable(idx, name, typ, lower, upper)
	p.variables = append(p.variables, v)
	return v
}

// AddConstraint appends a new constraint and returns it.
func (p *Problem) AddConstraint(name string, lhs, rhs float64) *Constraint {
	idx := len(p.constraints)
	c := NewConstraint(idx, name, lhs, rhs)
	p.constraints = append(p.constraints, c)
	return c
}

// SetObjective replaces the problem's objective.
func (p *Problem) SetObjective(obj *Objective) { p.objective = obj }

func (p *Problem) Objective() *Objective { return p.objective }

func (p *Problem) NumVariables() int   { return len(p.variables) }
func (p *Problem) NumConstraints() int { return len(p.constraints) }

func (p *Problem) Variable(i int) *Variable     { return p.variables[i] }
func (p *Problem) Constraint(i int) *Constraint { return p.constraints[i] }

func (p *Problem) Variables() []*Variable     { return p.variables }
func (p *Problem) Constraints() []*Constraint { return p.constraints }

// Bounds returns the current interval for every variable, in index order —
// the vector FBBT and interval evaluation operate on.
func (p *Problem) Bounds() []Interval {
	bounds := make([]Interval, len(p.variables))
	for i, v := range p.variables {
		bounds[i] = v.Interval()
	}
	return bounds
}

// ApplyBounds writes tightened bounds back onto the owning variables.
func (p *Problem) ApplyBounds(bounds []Interval) {
	for i, v := range p.variables {
		v.Lower, v.Upper = bounds[i].Lo, bounds[i].Hi
	}
}

// RebuildViews recomputes the by-type and by-classification projections
// (spec.md §3: "each view is a sorted projection of the master list").
// Classify is invoked on every constraint and the objective as part of the
// rebuild so the views reflect current bounds.
func (p *Problem) RebuildViews() {
	p.realVars, p.binaryVars, p.integerVars, p.auxVars = nil, nil, nil, nil
	for _, v := range p.variables {
		switch v.Type {
		case Binary:
			p.binaryVars = append(p.binaryVars, v.Index)
		case Integer:
			p.integerVars = append(p.integerVars, v.Index)
		case Auxiliary:
			p.auxVars = append(p.auxVars, v.Index)
		default:
			p.realVars = append(p.realVars, v.Index)
		}
	}

	bounds := p.Bounds()
	p.linearCons, p.quadCons, p.nonlinCons = nil, nil, nil
	for _, c := range p.constraints {
		c.Classify(bounds)
		switch {
		case c.isNonlinear:
			p.nonlinCons = append(p.nonlinCons, c.Index)
		case c.isQuadratic:
			p.quadCons = append(p.quadCons, c.Index)
		default:
			p.linearCons = append(p.linearCons, c.Index)
		}
	}
	p.objective.Classify(bounds)
}

func (p *Problem) RealVariableIndices() []int    { return p.realVars }
func (p *Problem) BinaryVariableIndices() []int  { return p.binaryVars }
func (p *Problem) IntegerVariableIndices() []int { return p.integerVars }
func (p *Problem) AuxiliaryVariableIndices() []int { return p.auxVars }
func (p *Problem) LinearConstraintIndices() []int    { return p.linearCons }
func (p *Problem) QuadraticConstraintIndices() []int { return p.quadCons }
func (p *Problem) NonlinearConstraintIndices() []int { return p.nonlinCons }

// IsConvex reports the whole-problem convexity of spec.md §4.1: the
// objective must be acceptable for its sense and every nonlinear/quadratic
// constraint must be Linear|Convex. assumeConvex, when true, short-circuits
// to true (the "AssumeConvex" option override).
func (p *Problem) IsConvex(assumeConvex bool) bool {
	if assumeConvex {
		return true
	}
	bounds := p.Bounds()
	if !p.objective.IsAcceptableForSense(p.objective.Classify(bounds)) {
		return false
	}
	for _, idx := range append(append([]int{}, p.quadCons...), p.nonlinCons...) {
		if !IsConvexForMinimization(p.constraints[idx].Classify(bounds)) {
			return false
		}
	}
	return true
}

// Validate checks the §3 model-error conditions the finalize step must
// catch: inverted bounds, and constraints/objective referencing a variable
// index outside the dense 0..N-1 range.
func (p *Problem) Validate() error {
	n := len(p.variables)
	for _, v := range p.variables {
		if v.Lower > v.Upper {
			return fmt.Errorf("variable %q: lower bound %g exceeds upper bound %g", v.Name, v.Lower, v.Upper)
		}
	}
	checkIdx := func(idx int, where string) error {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%s references undeclared variable index %d", where, idx)
		}
		return nil
	}
	for _, c := range p.constraints {
		if c.LHS > c.RHS {
			return fmt.Errorf("constraint %q: LHS %g exceeds RHS %g", c.Name, c.LHS, c.RHS)
		}
		for _, idx := range c.Variables() {
			if err := checkIdx(idx, fmt.Sprintf("constraint %q", c.Name)); err != nil {
				return err
			}
		}
	}
	for _, idx := range p.objective.Body.Variables() {
		if err := checkIdx(idx, "objective"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Problem) String() string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "Problem %q: %d variables, %d constraints, sense=%s\n",
		p.Name, len(p.variables), len(p.constraints), p.objective.Sense)
	for _, v := range p.variables {
		fmt.Fprintf(s, "  %d: %s %s [%g, %g]\n", v.Index, v.Name, v.Type, v.Lower, v.Upper)
	}
	for _, c := range p.constraints {
		fmt.Fprintf(s, "  %s: %g <= body <= %g (%s)\n", c.Name, c.LHS, c.RHS, c.convexity)
	}
	return s.String()
}
