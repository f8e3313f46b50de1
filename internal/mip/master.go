// Package mip defines the abstract MIP/MIQP master contract (spec.md §4.3)
// and three concrete backends. The dual engine programs against Master only;
// adapter_highs.go, adapter_golp.go and adapter_glpk.go are interchangeable
// implementations selected by options.MIPSolver, mirroring the teacher's own
// habit of keeping one Instance able to drive either a HiGHS or a GLPK model
// (src/scpcs/highs.go vs. src/scpcs/solvers.go) behind the same Solve() shape.
package mip

import "shotgo/internal/model"

// Status is the outcome of a master solve (spec.md §4.3).
type Status int

const (
	Optimal Status = iota
	Feasible
	Infeasible
	Unbounded
	TimeLimit
	IterationLimit
	SolutionLimit
	Error
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "Optimal"
	case Feasible:
		return "Feasible"
	case Infeasible:
		return "Infeasible"
	case Unbounded:
		return "Unbounded"
	case TimeLimit:
		return "TimeLimit"
	case IterationLimit:
		return "IterationLimit"
	case SolutionLimit:
		return "SolutionLimit"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether the master will not be asked to continue this
// same solve: Optimal, Feasible, Unbounded and Error are terminal; Infeasible
// and the time, iteration and solution limits are not.
func (s Status) IsTerminal() bool {
	return s == Optimal || s == Feasible || s == Unbounded || s == Error
}

// SolutionPoint is one element of a master's solution pool.
type SolutionPoint struct {
	Point     []float64
	Objective float64
	IsRelaxed bool // came from an LP relaxation, not the full MIP
}

// Master is the abstract contract the dual engine drives (spec.md §4.3). Row
// and column indices are dense and 0-based in the master's own numbering,
// which need not match model.Problem's variable/constraint indices 1:1 once
// reformulation has added auxiliaries.
type Master interface {
	AddVariable(name string, typ model.VariableType, lb, ub float64) int

	InitializeObjective()
	AddObjectiveLinearTerm(col int, coeff float64)
	AddObjectiveQuadraticTerm(colA, colB int, coeff float64)
	FinalizeObjective(sense model.Sense)

	InitializeConstraint()
	AddConstraintLinearTerm(col int, coeff float64)
	FinalizeConstraint(name string, lhs, rhs float64) int

	FinalizeProblem() error

	ActivateDiscreteVariables(active bool)
	FixVariables(indices []int, values []float64)
	UnfixVariables(indices []int)
	UpdateVariableBound(col int, lb, ub float64)

	// AddLinearConstraint returns the new row index, or -1 if the row is a
	// duplicate of one already present (the adapter fingerprints each row
	// by its coefficients and RHS).
	AddLinearConstraint(coeffs map[int]float64, rhs float64, name string) int
	AddLazyCut(coeffs map[int]float64, rhs float64)
	CreateIntegerCut(onesIdx, zeroesIdx []int)

	SetCutOff(value float64)
	SetSolutionLimit(n int)
	SetTimeLimit(seconds float64)

	Solve() (Status, error)

	GetObjectiveValue() float64
	GetSolutionPool() []SolutionPoint
	GetDualBound() float64

	// RepairInfeasibility relaxes constraint bounds by the smallest available
	// step and reports whether anything was relaxed (spec.md §4.3/§4.7). Not
	// every adapter can do this; GLPKMaster is the one that does (see
	// DESIGN.md).
	RepairInfeasibility() bool
}

// New constructs the adapter named by solver (spec.md §6, options.MIP.Solver).
func New(solver string) (Master, error) {
	switch solver {
	case "A":
		return NewHiGHSMaster(), nil
	case "B":
		return NewGoLPMaster(), nil
	case "C":
		return NewGLPKMaster(), nil
	default:
		return nil, unknownSolverError(solver)
	}
}

func unknownSolverError(solver string) error {
	return &unknownSolver{solver: solver}
}

type unknownSolver struct{ solver string }

func (e *unknownSolver) Error() string {
	return "mip: unknown MIP.Solver option " + e.solver
}
