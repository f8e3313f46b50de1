package model

import "math"

// FBBTResult summarizes one convergence run of feasibility-based bound
// tightening: the rounds run and the number of distinct variables whose
// bound improved. task.Run does not copy it into the report.
type FBBTResult struct {
	Rounds          int
	VariablesTouched int
}

// TightenBounds runs feasibility-based bound tightening to fixpoint or
// maxIterations, whichever comes first (spec.md §4.1). useNonlinear gates
// whether the nonlinear-expression pushdown rule participates; when false,
// only linear/quadratic/monomial/signomial groups tighten bounds.
func (p *Problem) TightenBounds(maxIterations int, useNonlinear bool) FBBTResult {
	bounds := p.Bounds()
	touched := make(map[int]bool)

	for round := 0; round < maxIterations; round++ {
		changed := false
		for _, c := range p.constraints {
			if tightenConstraint(c, bounds, useNonlinear, touched) {
				changed = true
			}
		}
		if !changed {
			return finishFBBT(p, bounds, round, touched)
		}
	}
	return finishFBBT(p, bounds, maxIterations, touched)
}

func finishFBBT(p *Problem, bounds []Interval, rounds int, touched map[int]bool) FBBTResult {
	for i := range bounds {
		if !p.Variable(i).Type.IsDiscrete() {
			continue
		}
		lo, hi := math.Ceil(bounds[i].Lo-1e-9), math.Floor(bounds[i].Hi+1e-9)
		if lo <= hi {
			bounds[i] = Interval{lo, hi}
		}
	}
	p.ApplyBounds(bounds)
	return FBBTResult{Rounds: rounds, VariablesTouched: len(touched)}
}

// tightenConstraint computes, for each additive group present, the interval
// of every *other* group plus the constant, derives a target interval for
// the group under consideration, and inverts that group's structure to
// propose new variable bounds (spec.md §4.1).
func tightenConstraint(c *Constraint, bounds []Interval, useNonlinear bool, touched map[int]bool) bool {
	changed := false
	groups := collectGroups(c)

	for i := range groups {
		other := Point(c.Constant)
		for j := range groups {
			if j == i {
				continue
			}
			other = other.Add(groups[j].interval(bounds))
		}
		target := Interval{c.LHS, c.RHS}.Sub(other)
		if target.IsEmpty() {
			continue
		}
		groups[i].tighten(target, bounds, useNonlinear, func(varIdx int, iv Interval) {
			if applyTighten(bounds, varIdx, iv) {
				changed = true
				touched[varIdx] = true
			}
		})
	}
	return changed
}

// applyTighten intersects bounds[varIdx] with iv, reporting whether the
// bound strictly improved by more than the FBBT acceptance tolerance
// (spec.md §4.1). Integer and binary bounds are rounded inward afterwards,
// when finishFBBT writes the bounds back.
func applyTighten(bounds []Interval, varIdx int, iv Interval) bool {
	cur := bounds[varIdx]
	newLo := math.Max(cur.Lo, iv.Lo)
	newHi := math.Min(cur.Hi, iv.Hi)
	if newLo > newHi {
		return false
	}
	improved := false
	if newLo > cur.Lo+1e-10 {
		cur.Lo = newLo
		improved = true
	}
	if newHi < cur.Hi-1e-10 {
		cur.Hi = newHi
		improved = true
	}
	if improved {
		bounds[varIdx] = cur
	}
	return improved
}

// additiveGroup is the FBBT unit of work: one of the constraint's term
// bags, abstracted so tightenConstraint can iterate "this group vs. the
// rest" uniformly.
type additiveGroup struct {
	linear     []LinearTerm
	quadratic  []QuadraticTerm
	monomial   []MonomialTerm
	signomial  []SignomialTerm
	nonlinear  *Expr
}

func collectGroups(c *Constraint) []additiveGroup {
	var groups []additiveGroup
	if len(c.Linear) > 0 {
		groups = append(groups, additiveGroup{linear: c.Linear})
	}
	for _, t := range c.Quadratic {
		groups = append(groups, additiveGroup{quadratic: []QuadraticTerm{t}})
	}
	for _, t := range c.Monomial {
		groups = append(groups, additiveGroup{monomial: []MonomialTerm{t}})
	}
	for _, t := range c.Signomial {
		groups = append(groups, additiveGroup{signomial: []SignomialTerm{t}})
	}
	if c.Nonlinear != nil {
		groups = append(groups, additiveGroup{nonlinear: c.Nonlinear})
	}
	return groups
}

func (g additiveGroup) interval(bounds []Interval) Interval {
	switch {
	case g.linear != nil:
		iv := Point(0)
		for _, t := range g.linear {
			iv = iv.Add(t.IntervalValue(bounds))
		}
		return iv
	case g.quadratic != nil:
		return g.quadratic[0].IntervalValue(bounds)
	case g.monomial != nil:
		return g.monomial[0].IntervalValue(bounds)
	case g.signomial != nil:
		return g.signomial[0].IntervalValue(bounds)
	case g.nonlinear != nil:
		return g.nonlinear.IntervalEvaluate(bounds)
	}
	return Point(0)
}

// tighten inverts the group's structure against a target interval,
// reporting each candidate bound to accept. Returns whether it attempted a
// nontrivial inversion (not whether accept actually improved anything).
func (g additiveGroup) tighten(target Interval, bounds []Interval, useNonlinear bool, accept func(int, Interval)) bool {
	switch {
	case g.linear != nil:
		return tightenLinearGroup(g.linear, target, bounds, accept)
	case g.quadratic != nil:
		return tightenQuadratic(g.quadratic[0], target, bounds, accept)
	case g.monomial != nil:
		return tightenMonomial(g.monomial[0], target, bounds, accept)
	case g.signomial != nil:
		return tightenSignomial(g.signomial[0], target, bounds, accept)
	case g.nonlinear != nil:
		if !useNonlinear {
			return false
		}
		g.nonlinear.TightenBounds(target, bounds, accept)
		return true
	}
	return false
}

// tightenLinearGroup handles a multi-term linear sum by isolating one term
// at a time against the combined interval of the rest (spec.md §4.1:
// "Linear: tightenVar((target/coeff))").
func tightenLinearGroup(terms []LinearTerm, target Interval, bounds []Interval, accept func(int, Interval)) bool {
	if len(terms) == 1 {
		t := terms[0]
		if t.Coefficient == 0 {
			return false
		}
		accept(t.Var, target.Scale(1/t.Coefficient))
		return true
	}
	for i, t := range terms {
		if t.Coefficient == 0 {
			continue
		}
		rest := Point(0)
		for j, o := range terms {
			if j == i {
				continue
			}
			rest = rest.Add(o.IntervalValue(bounds))
		}
		accept(t.Var, target.Sub(rest).Scale(1/t.Coefficient))
	}
	return true
}

func tightenQuadratic(t QuadraticTerm, target Interval, bounds []Interval, accept func(int, Interval)) bool {
	scaled := target.Scale(1 / t.Coefficient)
	if t.IsSquare() {
		accept(t.VarA, scaled.Sqrt().Union(scaled.Sqrt().Neg()))
		return true
	}
	partnerA, partnerB := bounds[t.VarB], bounds[t.VarA]
	if partnerA.ExcludesZero() {
		accept(t.VarA, scaled.Div(partnerA))
	}
	if partnerB.ExcludesZero() {
		accept(t.VarB, scaled.Div(partnerB))
	}
	return true
}

func tightenMonomial(t MonomialTerm, target Interval, bounds []Interval, accept func(int, Interval)) bool {
	if t.Coefficient == 0 || len(t.Vars) == 0 {
		return false
	}
	scaled := target.Scale(1 / t.Coefficient)
	for i, idx := range t.Vars {
		rest := Point(1)
		for j, other := range t.Vars {
			if j == i {
				continue
			}
			rest = rest.Mul(bounds[other])
		}
		if rest.StraddlesZero() {
			continue // skip: remaining product-interval straddles 0
		}
		accept(idx, scaled.Div(rest))
	}
	return true
}

func tightenSignomial(t SignomialTerm, target Interval, bounds []Interval, accept func(int, Interval)) bool {
	if t.Coefficient == 0 {
		return false
	}
	scaled := target.Scale(1 / t.Coefficient)
	for i, e := range t.Elements {
		rest := Point(1)
		for j, other := range t.Elements {
			if j == i {
				continue
			}
			rest = rest.Mul(bounds[other.Var].Pow(other.Exponent))
		}
		if rest.StraddlesZero() {
			continue
		}
		accept(e.Var, scaled.Div(rest).Pow(1/e.Exponent))
	}
	return true
}
