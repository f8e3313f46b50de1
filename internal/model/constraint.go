package model

import "math"

// Constraint carries a name, left/right bounds, a constant term, and term
// bags for each additive group (spec.md §3). Linear terms are always
// present (possibly empty); the others are optional.
type Constraint struct {
	Index int
	Name  string

	LHS, RHS float64
	Constant float64

	Linear     []LinearTerm
	Quadratic  []QuadraticTerm
	Monomial   []MonomialTerm
	Signomial  []SignomialTerm
	Nonlinear  *Expr // nil if absent

	// Derived-property cache, recomputed by Classify.
	classified  bool
	convexity   Convexity
	isQuadratic bool
	isNonlinear bool
}

// NewConstraint builds a two-sided constraint LHS <= body <= RHS.
func NewConstraint(index int, name string, lhs, rhs float64) *Constraint {
	return &Constraint{Index: index, Name: name, LHS: lhs, RHS: rhs}
}

// Normalize enforces the §3 invariant valueLHS<=valueRHS (swap on read if
// violated).
func (c *Constraint) Normalize() {
	if c.LHS > c.RHS {
		c.LHS, c.RHS = c.RHS, c.LHS
	}
}

// HasQuadratic, HasNonlinear, HasMonomialOrSignomial report which additive
// groups are present.
func (c *Constraint) HasQuadratic() bool         { return len(c.Quadratic) > 0 }
func (c *Constraint) HasNonlinear() bool         { return c.Nonlinear != nil }
func (c *Constraint) HasMonomialOrSignomial() bool {
	return len(c.Monomial) > 0 || len(c.Signomial) > 0
}

// Value computes the constraint body at x (sum of all additive groups plus
// the constant).
func (c *Constraint) Value(x []float64) float64 {
	v := c.Constant
	for _, t := range c.Linear {
		v += t.Value(x)
	}
	for _, t := range c.Quadratic {
		v += t.Value(x)
	}
	for _, t := range c.Monomial {
		v += t.Value(x)
	}
	for _, t := range c.Signomial {
		v += t.Value(x)
	}
	if c.Nonlinear != nil {
		v += c.Nonlinear.Evaluate(x)
	}
	return v
}

// NormalizedDeviation returns (body - RHS) scaled by max(1, |RHS|), the
// normalization used throughout the dual engine for constraint selection
// and termination checks (spec.md §4.1).
func (c *Constraint) NormalizedDeviation(x []float64) float64 {
	body := c.Value(x)
	scale := math.Max(1, math.Abs(c.RHS))
	return (body - c.RHS) / scale
}

// IntervalValue computes the body's interval given variable bounds.
func (c *Constraint) IntervalValue(bounds []Interval) Interval {
	iv := Point(c.Constant)
	for _, t := range c.Linear {
		iv = iv.Add(t.IntervalValue(bounds))
	}
	for _, t := range c.Quadratic {
		iv = iv.Add(t.IntervalValue(bounds))
	}
	for _, t := range c.Monomial {
		iv = iv.Add(t.IntervalValue(bounds))
	}
	for _, t := range c.Signomial {
		iv = iv.Add(t.IntervalValue(bounds))
	}
	if c.Nonlinear != nil {
		iv = iv.Add(c.Nonlinear.IntervalEvaluate(bounds))
	}
	return iv
}

// Classify computes and caches the constraint's convexity under the given
// bounds (spec.md §4.1: term-sum combination of each additive group).
func (c *Constraint) Classify(bounds []Interval) Convexity {
	cv := Linear
	for _, t := range c.Quadratic {
		cv = Combine(cv, t.Convexity(bounds))
	}
	for _, t := range c.Monomial {
		cv = Combine(cv, t.Convexity(bounds))
	}
	for _, t := range c.Signomial {
		cv = Combine(cv, t.Convexity(bounds))
	}
	if c.Nonlinear != nil {
		cv = Combine(cv, c.Nonlinear.Convexity(bounds))
	}
	c.classified = true
	c.convexity = cv
	c.isQuadratic = len(c.Quadratic) > 0
	c.isNonlinear = len(c.Monomial) > 0 || len(c.Signomial) > 0 || c.Nonlinear != nil
	return cv
}

// Gradient returns the sparse gradient of the constraint body at x.
func (c *Constraint) Gradient(x []float64) map[int]float64 {
	grad := make(map[int]float64)
	for _, t := range c.Linear {
		t.AddGradient(x, grad)
	}
	for _, t := range c.Quadratic {
		t.AddGradient(x, grad)
	}
	for _, t := range c.Monomial {
		t.AddGradient(x, grad)
	}
	for _, t := range c.Signomial {
		t.AddGradient(x, grad)
	}
	if c.Nonlinear != nil {
		c.Nonlinear.AddGradient(x, grad)
	}
	return grad
}

// Hessian returns the sparse, upper-triangular, deduplicated Hessian of the
// constraint body at x (spec.md §4.1). Contributions of the Nonlinear
// expression tree are not included.
func (c *Constraint) Hessian(x []float64) map[[2]int]float64 {
	hess := make(map[[2]int]float64)
	for _, t := range c.Quadratic {
		t.AddHessian(x, hess)
	}
	for _, t := range c.Monomial {
		t.AddHessian(x, hess)
	}
	for _, t := range c.Signomial {
		t.AddHessian(x, hess)
	}
	return hess
}

// Variables returns the distinct variable indices referenced by the
// constraint.
func (c *Constraint) Variables() []int {
	seen := make(map[int]bool)
	var out []int
	add := func(idx int) {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	for _, t := range c.Linear {
		add(t.Var)
	}
	for _, t := range c.Quadratic {
		for _, idx := range t.Variables() {
			add(idx)
		}
	}
	for _, t := range c.Monomial {
		for _, idx := range t.Variables() {
			add(idx)
		}
	}
	for _, t := range c.Signomial {
		for _, idx := range t.Variables() {
			add(idx)
		}
	}
	if c.Nonlinear != nil {
		for _, idx := range c.Nonlinear.Variables() {
			add(idx)
		}
	}
	return out
}

// IsCanonical reports whether the constraint has already been rewritten to
// the reformulation pass's canonical shape: LHS=-inf, body<=RHS.
func (c *Constraint) IsCanonical() bool {
	return math.IsInf(c.LHS, -1)
}
