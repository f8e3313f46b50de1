// Package reform implements the problem reformulation pass (spec.md §4.2):
// epigraph reformulation of a nonlinear objective, LHS/RHS canonicalization,
// separable partitioning, McCormick-envelope bilinear handling, and the
// quadratic policy switch. It never mutates the input Problem — like the
// teacher's cloneLp (src/scpcs/branch_and_bound.go), every reformulation
// step derives a new value from the old one.
package reform

import (
	"math"

	"shotgo/internal/model"
)

// QuadraticPolicy selects how quadratic terms reach the master (spec.md
// §4.2 point 5).
type QuadraticPolicy int

const (
	// QuadraticKept lets the master MIP handle QP/QCQP terms directly.
	QuadraticKept QuadraticPolicy = iota
	// QuadraticAsNonlinear folds quadratic terms into the nonlinear
	// expression so hyperplanes linearize them like any other nonlinearity.
	QuadraticAsNonlinear
)

// Options configures one reformulation run.
type Options struct {
	QuadraticPolicy    QuadraticPolicy
	PartitionQuadratic bool
	PartitionSignomial bool
}

// AuxiliaryVariable documents one variable introduced by reformulation and
// the relation it defines, so a primal solution can be back-projected to
// the original variable space (spec.md §4.2 "Output").
type AuxiliaryVariable struct {
	Index   int
	Kind    string // "epigraph", "bilinear", "partition"
	Defines string
}

// Result is the reformulation pass's output (spec.md §4.2 "Output").
type Result struct {
	Problem *model.Problem

	// OriginalToReformulated maps an original-problem variable index to its
	// index in Problem; reformulation never renumbers an original variable,
	// so this is the identity for indices < len(original variables).
	OriginalToReformulated []int

	Auxiliaries []AuxiliaryVariable
}

// reformulator carries the mutable state threaded through one reform pass.
type reformulator struct {
	opts    Options
	src     *model.Problem
	b       *model.Builder
	aux     []AuxiliaryVariable
	origDim int

	// bilinearAux memoizes the auxiliary variable created for an unordered
	// variable pair (spec.md §4.2 point 4: "created once, memoized").
	bilinearAux map[[2]int]int
}

// Reformulate runs the full pass over src and returns the dual-friendly
// problem plus the bookkeeping tables described in spec.md §4.2.
func Reformulate(src *model.Problem, opts Options) (*Result, error) {
	r := &reformulator{
		opts:        opts,
		src:         src,
		b:           model.NewBuilder(src.Name + "-reformulated"),
		origDim:     src.NumVariables(),
		bilinearAux: make(map[[2]int]int),
	}

	for i := 0; i < src.NumVariables(); i++ {
		v := src.Variable(i)
		r.b.AddVariable(v.Name, v.Type, v.Lower, v.Upper)
	}

	for i := 0; i < src.NumConstraints(); i++ {
		r.copyConstraint(src.Constraint(i))
	}

	r.reformulateObjective(src.Objective())

	p, err := r.b.Finalize()
	if err != nil {
		return nil, err
	}

	mapping := make([]int, r.origDim)
	for i := range mapping {
		mapping[i] = i
	}

	return &Result{Problem: p, OriginalToReformulated: mapping, Auxiliaries: r.aux}, nil
}

// copyConstraint canonicalizes one constraint (LHS/RHS split), applies
// bilinear substitution and the quadratic policy, then emits it (and, for
// two-sided constraints, its mirror row) into the builder.
func (r *reformulator) copyConstraint(c *model.Constraint) {
	linear := cloneLinear(c.Linear)
	quadratic := r.substituteBilinear(c.Quadratic, &linear)
	nonlinear := c.Nonlinear

	if r.opts.QuadraticPolicy == QuadraticAsNonlinear && len(quadratic) > 0 {
		nonlinear = foldQuadraticIntoExpr(quadratic, nonlinear)
		quadratic = nil
	}

	if r.opts.PartitionQuadratic && len(quadratic) > 1 {
		linear, quadratic = r.partitionQuadratic(c.Name, quadratic, linear)
	}

	r.emitOneSided(c.Name, c.LHS, c.RHS, c.Constant, linear, quadratic, c.Monomial, c.Signomial, nonlinear)
}

// emitOneSided applies LHS/RHS canonicalization (spec.md §4.2 point 2): a
// two-sided row becomes two one-sided rows, "body <= RHS" and
// "-body <= -LHS"; an equality (LHS==RHS) is treated as a degenerate
// two-sided row for the same reason (neither bound is -inf).
func (r *reformulator) emitOneSided(
	name string, lhs, rhs, constant float64,
	linear []model.LinearTerm, quadratic []model.QuadraticTerm,
	monomial []model.MonomialTerm, signomial []model.SignomialTerm,
	nonlinear *model.Expr,
) {
	hasUpper := !isInf(rhs, 1)
	hasLower := !isInf(lhs, -1)

	if hasUpper {
		c := r.b.AddConstraint(name, negInf(), rhs)
		c.Constant = constant
		c.Linear = linear
		c.Quadratic = quadratic
		c.Monomial = monomial
		c.Signomial = signomial
		c.Nonlinear = nonlinear
	}
	if hasLower {
		rowName := name
		if hasUpper {
			rowName = name + "_lo"
		}
		c := r.b.AddConstraint(rowName, negInf(), -lhs)
		c.Constant = -constant
		c.Linear = negateLinear(linear)
		c.Quadratic = negateQuadratic(quadratic)
		c.Monomial = negateMonomial(monomial)
		c.Signomial = negateSignomial(signomial)
		c.Nonlinear = negateExpr(nonlinear)
	}
}

// reformulateObjective applies epigraph reformulation (spec.md §4.2 point 1)
// when the objective has nonlinear, monomial or signomial content; a linear
// or kept-quadratic objective is copied over as it is.
func (r *reformulator) reformulateObjective(obj *model.Objective) {
	linear := cloneLinear(obj.Body.Linear)
	quadratic := r.substituteBilinear(obj.Body.Quadratic, &linear)
	nonlinear := obj.Body.Nonlinear

	if r.opts.QuadraticPolicy == QuadraticAsNonlinear && len(quadratic) > 0 {
		nonlinear = foldQuadraticIntoExpr(quadratic, nonlinear)
		quadratic = nil
	}

	isNonlinear := nonlinear != nil || len(obj.Body.Monomial) > 0 || len(obj.Body.Signomial) > 0

	if !isNonlinear {
		newObj := model.NewObjective(obj.Sense)
		newObj.Body.Linear = linear
		newObj.Body.Quadratic = quadratic
		newObj.Body.Constant = obj.Body.Constant
		r.b.SetObjective(newObj)
		return
	}

	t := r.b.AddVariable("t_epigraph", model.Auxiliary, negInf(), posInf())
	r.aux = append(r.aux, AuxiliaryVariable{
		Index: t.Index, Kind: "epigraph", Defines: "t bounds the nonlinear objective body",
	})

	newObj := model.NewObjective(obj.Sense)
	newObj.Body.Linear = []model.LinearTerm{{Coefficient: 1, Var: t.Index}}
	r.b.SetObjective(newObj)

	// Minimize: f(x) - t <= 0. Maximize: t - f(x) <= 0 (i.e. t <= f(x)).
	epi := r.b.AddConstraint("epigraph", negInf(), 0)
	if obj.Sense == model.Minimize {
		epi.Linear = append(cloneLinear(linear), model.LinearTerm{Coefficient: -1, Var: t.Index})
	} else {
		epi.Linear = append(negateLinear(linear), model.LinearTerm{Coefficient: 1, Var: t.Index})
	}
	epi.Quadratic = quadratic
	epi.Monomial = obj.Body.Monomial
	epi.Signomial = obj.Body.Signomial
	epi.Nonlinear = nonlinear
	epi.Constant = obj.Body.Constant
	if obj.Sense == model.Maximize {
		epi.Constant = -obj.Body.Constant
		epi.Quadratic = negateQuadratic(quadratic)
		epi.Monomial = negateMonomial(obj.Body.Monomial)
		epi.Signomial = negateSignomial(obj.Body.Signomial)
		epi.Nonlinear = negateExpr(nonlinear)
	}
}

func isInf(v float64, sign int) bool {
	return math.IsInf(v, sign)
}

func negInf() float64 { return math.Inf(-1) }
func posInf() float64 { return math.Inf(1) }
