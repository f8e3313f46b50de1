package mip

import (
	"math"

	"github.com/draffensperger/golp"

	"shotgo/internal/model"
)

// GoLPMaster is master adapter "B" (spec.md §6, MIP.Solver="B"), built on
// the teacher's declared-but-never-imported github.com/draffensperger/golp
// dependency. golp wraps lp_solve column-by-column: columns are declared up
// front with SetInt/SetBounds, rows are appended with AddConstraint, and
// Solve returns an lp_solve status code.
type GoLPMaster struct {
	lp    *golp.LP
	rows  rowFingerprints
	sense model.Sense

	numCols     int
	objLinear   map[int]float64
	pendingRow  map[int]float64
	cutoffRow   int
	solved      bool
}

func NewGoLPMaster() *GoLPMaster {
	return &GoLPMaster{
		lp:        golp.NewLP(0, 0),
		rows:      newRowFingerprints(),
		objLinear: make(map[int]float64),
		cutoffRow: -1,
	}
}

func (m *GoLPMaster) AddVariable(name string, typ model.VariableType, lb, ub float64) int {
	col := m.numCols
	m.numCols++
	m.lp.AddColumns(1)
	m.lp.SetBounds(col, lb, ub)
	if typ.IsDiscrete() {
		m.lp.SetInt(col, true)
	}
	return col
}

func (m *GoLPMaster) InitializeObjective() {
	m.objLinear = make(map[int]float64)
}

func (m *GoLPMaster) AddObjectiveLinearTerm(col int, coeff float64) {
	m.objLinear[col] += coeff
}

// AddObjectiveQuadraticTerm has no lp_solve equivalent: golp is LP/MILP
// only. Quadratic objective terms must be linearized upstream (reform
// package, McCormick envelope) before reaching this adapter.
func (m *GoLPMaster) AddObjectiveQuadraticTerm(colA, colB int, coeff float64) {}

func (m *GoLPMaster) FinalizeObjective(sense model.Sense) {
	m.sense = sense
	row := make([]float64, m.numCols)
	for col, coeff := range m.objLinear {
		row[col] = coeff
	}
	m.lp.SetObjFn(row)
	if sense == model.Maximize {
		m.lp.SetMaximize()
	} else {
		m.lp.SetMinimize()
	}
}

func (m *GoLPMaster) InitializeConstraint() {
	m.pendingRow = make(map[int]float64)
}

func (m *GoLPMaster) AddConstraintLinearTerm(col int, coeff float64) {
	m.pendingRow[col] += coeff
}

func (m *GoLPMaster) FinalizeConstraint(name string, lhs, rhs float64) int {
	row := m.denseRow(m.pendingRow)
	if math.IsInf(lhs, -1) {
		return m.addRow(row, golp.LE, rhs)
	}
	if lhs == rhs {
		return m.addRow(row, golp.EQ, rhs)
	}
	// Two-sided: add each side as its own row and return the RHS row's
	// index; reform.Reformulate already splits
	// two-sided constraints into two one-sided rows (spec.md §4.2 point 2),
	// so in practice this branch only fires for ranges not yet split.
	m.addRow(row, golp.GE, lhs)
	return m.addRow(row, golp.LE, rhs)
}

func (m *GoLPMaster) addRow(row []float64, op golp.ConstrType, rhs float64) int {
	idx := m.lp.AddConstraint(row, op, rhs)
	return idx
}

func (m *GoLPMaster) denseRow(coeffs map[int]float64) []float64 {
	row := make([]float64, m.numCols)
	for col, coeff := range coeffs {
		row[col] = coeff
	}
	return row
}

func (m *GoLPMaster) FinalizeProblem() error { return nil }

func (m *GoLPMaster) ActivateDiscreteVariables(active bool) {
	if active {
		return
	}
	for col := 0; col < m.numCols; col++ {
		m.lp.SetInt(col, false)
	}
}

func (m *GoLPMaster) FixVariables(indices []int, values []float64) {
	for k, col := range indices {
		m.lp.SetBounds(col, values[k], values[k])
	}
}

func (m *GoLPMaster) UnfixVariables(indices []int) {}

func (m *GoLPMaster) UpdateVariableBound(col int, lb, ub float64) {
	m.lp.SetBounds(col, lb, ub)
}

func (m *GoLPMaster) AddLinearConstraint(coeffs map[int]float64, rhs float64, name string) int {
	row := m.denseRow(coeffs)
	idx := m.addRow(row, golp.LE, rhs)
	existing, dup := m.rows.register(coeffs, rhs, idx)
	if dup {
		return -1
	}
	return existing
}

func (m *GoLPMaster) AddLazyCut(coeffs map[int]float64, rhs float64) {
	m.AddLinearConstraint(coeffs, rhs, "")
}

func (m *GoLPMaster) CreateIntegerCut(onesIdx, zeroesIdx []int) {
	coeffs, rhs := integerCutRow(onesIdx, zeroesIdx)
	m.AddLinearConstraint(coeffs, rhs, "integer-cut")
}

func (m *GoLPMaster) SetCutOff(value float64) {
	row := m.denseRow(m.objLinear)
	if m.cutoffRow == -1 {
		if m.sense == model.Maximize {
			m.cutoffRow = m.addRow(row, golp.GE, value)
		} else {
			m.cutoffRow = m.addRow(row, golp.LE, value)
		}
		return
	}
	m.lp.SetRHS(m.cutoffRow, value)
}

func (m *GoLPMaster) SetSolutionLimit(n int) {}

func (m *GoLPMaster) SetTimeLimit(seconds float64) {
	m.lp.SetMaxSeconds(seconds)
}

func (m *GoLPMaster) Solve() (Status, error) {
	status := m.lp.Solve()
	m.solved = status == golp.OPTIMAL || status == golp.SUBOPTIMAL
	switch status {
	case golp.OPTIMAL:
		return Optimal, nil
	case golp.SUBOPTIMAL:
		return Feasible, nil
	case golp.INFEASIBLE:
		return Infeasible, nil
	case golp.UNBOUNDED:
		return Unbounded, nil
	default:
		return Error, errLPSolveStatus(status)
	}
}

func errLPSolveStatus(status golp.SolutionType) error {
	return &lpSolveError{status: status}
}

type lpSolveError struct{ status golp.SolutionType }

func (e *lpSolveError) Error() string { return "golp: non-optimal solve status" }

func (m *GoLPMaster) GetObjectiveValue() float64 {
	if !m.solved {
		return 0
	}
	return m.lp.Objective()
}

func (m *GoLPMaster) GetSolutionPool() []SolutionPoint {
	if !m.solved {
		return nil
	}
	point := m.lp.Variables()
	return []SolutionPoint{{Point: point, Objective: m.lp.Objective()}}
}

func (m *GoLPMaster) GetDualBound() float64 {
	return m.GetObjectiveValue()
}

// RepairInfeasibility is unsupported here: golp's LP type has no row-bound
// getter, so a row's original bound can't be recovered to widen it. GLPKMaster
// supports repair; this adapter does not.
func (m *GoLPMaster) RepairInfeasibility() bool { return false }
