// Package dual implements the outer-approximation dual / cut-generation
// engine (spec.md §4.4): interior-point computation, ESH/ECP hyperplane
// generation, integer cuts, objective cut-off management, relaxed-LP
// passes, and infeasibility repair. It drives a mip.Master but never
// depends on which backend is behind it, mirroring the teacher's own
// Instance methods that are agnostic to which LP/MIP package they call.
package dual

import (
	"math"
	"sort"

	"shotgo/internal/env"
	"shotgo/internal/mip"
	"shotgo/internal/model"
	"shotgo/internal/options"
)

// Hyperplane is one supporting/cutting-plane record (spec.md §3
// "Hyperplane record").
type Hyperplane struct {
	ConstraintIndex int
	Point           []float64
	Iteration       int
	Lazy            bool
}

// Engine is the dual/cut-generation engine. It owns the interior-point list
// and the hyperplane waiting list (spec.md §5 "Shared-resource policy").
type Engine struct {
	Problem *model.Problem
	Master  mip.Master
	Env     *env.Environment

	InteriorPoints []InteriorPoint
	waitingList    []Hyperplane
	seen           map[hpKey]bool

	primalBound float64
	havePrimal  bool
	sense       model.Sense

	repairFailures  int
	iteration       int
	relaxedLazyUsed int

	// stagnation bookkeeping (spec.md §4.7 dual stagnation).
	lastDualBound     float64
	stagnationCounter int
}

// InteriorPoint is a strictly-feasible point used as the ESH root-search
// anchor (spec.md §3).
type InteriorPoint struct {
	Point []float64
}

type hpKey struct {
	constraintIndex int
	pointHash       string
}

// New builds an Engine for p, driving master through the given adapter.
func New(p *model.Problem, master mip.Master, environment *env.Environment) *Engine {
	return &Engine{
		Problem:       p,
		Master:        master,
		Env:           environment,
		seen:          make(map[hpKey]bool),
		sense:         p.Objective().Sense,
		lastDualBound: negInf(),
	}
}

// nonlinearConstraints returns the constraints whose body is not purely
// linear — the ones the dual engine may need to support with hyperplanes.
func (e *Engine) nonlinearConstraints() []*model.Constraint {
	var out []*model.Constraint
	for i := 0; i < e.Problem.NumConstraints(); i++ {
		c := e.Problem.Constraint(i)
		if c.HasQuadratic() || c.HasNonlinear() || c.HasMonomialOrSignomial() {
			out = append(out, c)
		}
	}
	return out
}

// mostDeviating returns, among the nonlinear constraints, the index (into
// the Problem's constraint list) and normalized deviation of the worst
// violated constraint at point, or (-1, 0) if none are violated.
func (e *Engine) mostDeviating(point []float64) (int, float64) {
	best := -1
	bestDev := 0.0
	for _, c := range e.nonlinearConstraints() {
		dev := c.NormalizedDeviation(point)
		if dev > bestDev || best == -1 && dev > 0 {
			best = c.Index
			bestDev = dev
		}
	}
	return best, bestDev
}

// selectViolatedConstraints implements the constraint-selection policy
// common to ECP and ESH (spec.md §4.4): sort violated nonlinear constraints
// by normalized deviation, keep at most ceil(selectionFactor*N), and prune
// those below maxConstraintFactor*maxDeviation.
func (e *Engine) selectViolatedConstraints(point []float64, opts *options.Set) []*model.Constraint {
	type scored struct {
		c   *model.Constraint
		dev float64
	}
	var violated []scored
	for _, c := range e.nonlinearConstraints() {
		dev := c.NormalizedDeviation(point)
		if dev > 0 {
			violated = append(violated, scored{c, dev})
		}
	}
	if len(violated) == 0 {
		return nil
	}
	sort.Slice(violated, func(i, j int) bool { return violated[i].dev > violated[j].dev })

	factor := opts.GetFloat("Dual.HyperplaneCuts.ConstraintSelectionFactor", 1.0)
	keep := int(ceil(factor * float64(len(violated))))
	if keep < 1 {
		keep = 1
	}
	if keep > len(violated) {
		keep = len(violated)
	}
	violated = violated[:keep]

	maxConstraintFactor := opts.GetFloat("Dual.HyperplaneCuts.MaxConstraintFactor", 0)
	maxDev := violated[0].dev
	out := make([]*model.Constraint, 0, len(violated))
	for _, v := range violated {
		if v.dev >= maxConstraintFactor*maxDev {
			out = append(out, v.c)
		}
	}

	ceiling := opts.GetInt("Dual.HyperplaneCuts.MaxPerIteration", 200)
	if ceiling > 0 && len(out) > ceiling {
		out = out[:ceiling]
	}
	return out
}

func ceil(v float64) float64 {
	i := int(v)
	if float64(i) < v {
		i++
	}
	return float64(i)
}

func negInf() float64 { return math.Inf(-1) }
