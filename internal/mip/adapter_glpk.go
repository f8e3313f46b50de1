package mip

import (
	"math"

	"github.com/lukpank/go-glpk/glpk"

	"shotgo/internal/model"
)

// GLPKMaster is master adapter "C" (spec.md §6, MIP.Solver="C"), grounded in
// the teacher's old GLPK usage (src/scpcs/solvers.go / src/instance.go):
// AddCols/AddRows up front, SetMatRow per constraint, Intopt to solve, and
// MipColVal/MipObjVal to read the incumbent back out.
type GLPKMaster struct {
	prob  *glpk.Prob
	rows  rowFingerprints
	sense model.Sense

	numCols    int
	numRows    int
	colTypes   []model.VariableType
	objLinear  map[int]float64
	pendingRow map[int]float64
	cutoffRow  int
	solved     bool

	// rowBounds mirrors every tracked row's current (lhs, rhs), so
	// RepairInfeasibility can widen them without a GLPK row-bound getter.
	rowBounds []rowBound
}

type rowBound struct{ lhs, rhs float64 }

func (m *GLPKMaster) recordRowBounds(row int, lhs, rhs float64) {
	for len(m.rowBounds) <= row {
		m.rowBounds = append(m.rowBounds, rowBound{})
	}
	m.rowBounds[row] = rowBound{lhs, rhs}
}

func NewGLPKMaster() *GLPKMaster {
	prob := glpk.New()
	return &GLPKMaster{
		prob:      prob,
		rows:      newRowFingerprints(),
		objLinear: make(map[int]float64),
		cutoffRow: -1,
	}
}

func (m *GLPKMaster) AddVariable(name string, typ model.VariableType, lb, ub float64) int {
	m.prob.AddCols(1)
	col := m.numCols
	m.numCols++
	m.colTypes = append(m.colTypes, typ)

	glpkCol := col + 1
	m.prob.SetColName(glpkCol, name)
	switch {
	case typ.IsDiscrete():
		m.prob.SetColKind(glpkCol, glpk.IV)
	default:
		m.prob.SetColKind(glpkCol, glpk.CV)
	}
	setColBounds(m.prob, glpkCol, lb, ub)
	return col
}

func setColBounds(prob *glpk.Prob, glpkCol int, lb, ub float64) {
	switch {
	case math.IsInf(lb, -1) && math.IsInf(ub, 1):
		prob.SetColBnds(glpkCol, glpk.FR, 0, 0)
	case math.IsInf(ub, 1):
		prob.SetColBnds(glpkCol, glpk.LO, lb, 0)
	case math.IsInf(lb, -1):
		prob.SetColBnds(glpkCol, glpk.UP, 0, ub)
	case lb == ub:
		prob.SetColBnds(glpkCol, glpk.FX, lb, ub)
	default:
		prob.SetColBnds(glpkCol, glpk.DB, lb, ub)
	}
}

func (m *GLPKMaster) InitializeObjective() {
	m.objLinear = make(map[int]float64)
}

func (m *GLPKMaster) AddObjectiveLinearTerm(col int, coeff float64) {
	m.objLinear[col] += coeff
}

// AddObjectiveQuadraticTerm has no GLPK equivalent: GLPK solves MILPs only.
// Quadratic objective terms must be linearized upstream before reaching this
// adapter, same restriction as GoLPMaster.
func (m *GLPKMaster) AddObjectiveQuadraticTerm(colA, colB int, coeff float64) {}

func (m *GLPKMaster) FinalizeObjective(sense model.Sense) {
	m.sense = sense
	if sense == model.Maximize {
		m.prob.SetObjDir(glpk.MAX)
	} else {
		m.prob.SetObjDir(glpk.MIN)
	}
	for col, coeff := range m.objLinear {
		m.prob.SetObjCoef(col+1, coeff)
	}
}

func (m *GLPKMaster) InitializeConstraint() {
	m.pendingRow = make(map[int]float64)
}

func (m *GLPKMaster) AddConstraintLinearTerm(col int, coeff float64) {
	m.pendingRow[col] += coeff
}

func (m *GLPKMaster) FinalizeConstraint(name string, lhs, rhs float64) int {
	row := m.addRawRow(name, m.pendingRow)
	applyRowBounds(m.prob, row+1, lhs, rhs)
	m.recordRowBounds(row, lhs, rhs)
	return row
}

func applyRowBounds(prob *glpk.Prob, glpkRow int, lhs, rhs float64) {
	switch {
	case math.IsInf(lhs, -1) && math.IsInf(rhs, 1):
		prob.SetRowBnds(glpkRow, glpk.FR, 0, 0)
	case math.IsInf(lhs, -1):
		prob.SetRowBnds(glpkRow, glpk.UP, 0, rhs)
	case math.IsInf(rhs, 1):
		prob.SetRowBnds(glpkRow, glpk.LO, lhs, 0)
	case lhs == rhs:
		prob.SetRowBnds(glpkRow, glpk.FX, lhs, lhs)
	default:
		prob.SetRowBnds(glpkRow, glpk.DB, lhs, rhs)
	}
}

// addRawRow appends one row with the given sparse coefficients and returns
// its 0-based index; the caller sets the row bounds afterward.
func (m *GLPKMaster) addRawRow(name string, coeffs map[int]float64) int {
	m.prob.AddRows(1)
	row := m.numRows
	m.numRows++
	glpkRow := row + 1
	if name != "" {
		m.prob.SetRowName(glpkRow, name)
	}

	indices := make([]int32, 0, len(coeffs)+1)
	values := make([]float64, 0, len(coeffs)+1)
	indices = append(indices, 0)
	values = append(values, 0)
	for col, coeff := range coeffs {
		indices = append(indices, int32(col+1))
		values = append(values, coeff)
	}
	m.prob.SetMatRow(glpkRow, indices, values)
	return row
}

func (m *GLPKMaster) FinalizeProblem() error { return nil }

func (m *GLPKMaster) ActivateDiscreteVariables(active bool) {
	for col, typ := range m.colTypes {
		glpkCol := col + 1
		if typ.IsDiscrete() {
			if active {
				m.prob.SetColKind(glpkCol, glpk.IV)
			} else {
				m.prob.SetColKind(glpkCol, glpk.CV)
			}
		}
	}
}

func (m *GLPKMaster) FixVariables(indices []int, values []float64) {
	for k, col := range indices {
		m.prob.SetColBnds(col+1, glpk.FX, values[k], values[k])
	}
}

func (m *GLPKMaster) UnfixVariables(indices []int) {}

func (m *GLPKMaster) UpdateVariableBound(col int, lb, ub float64) {
	setColBounds(m.prob, col+1, lb, ub)
}

func (m *GLPKMaster) AddLinearConstraint(coeffs map[int]float64, rhs float64, name string) int {
	row := m.addRawRow(name, coeffs)
	existing, dup := m.rows.register(coeffs, rhs, row)
	if dup {
		return -1
	}
	applyRowBounds(m.prob, row+1, math.Inf(-1), rhs)
	m.recordRowBounds(row, math.Inf(-1), rhs)
	return existing
}

func (m *GLPKMaster) AddLazyCut(coeffs map[int]float64, rhs float64) {
	m.AddLinearConstraint(coeffs, rhs, "lazy")
}

func (m *GLPKMaster) CreateIntegerCut(onesIdx, zeroesIdx []int) {
	coeffs, rhs := integerCutRow(onesIdx, zeroesIdx)
	m.AddLinearConstraint(coeffs, rhs, "integer-cut")
}

func (m *GLPKMaster) SetCutOff(value float64) {
	if m.cutoffRow == -1 {
		m.cutoffRow = m.addRawRow("cutoff", m.objLinear)
	}
	if m.sense == model.Maximize {
		applyRowBounds(m.prob, m.cutoffRow+1, value, math.Inf(1))
		m.recordRowBounds(m.cutoffRow, value, math.Inf(1))
	} else {
		applyRowBounds(m.prob, m.cutoffRow+1, math.Inf(-1), value)
		m.recordRowBounds(m.cutoffRow, math.Inf(-1), value)
	}
}

func (m *GLPKMaster) SetSolutionLimit(n int) {}

func (m *GLPKMaster) SetTimeLimit(seconds float64) {}

func (m *GLPKMaster) Solve() (Status, error) {
	iocp := glpk.NewIocp()
	iocp.SetPresolve(true)
	iocp.SetMsgLev(glpk.MSG_OFF)

	if err := m.prob.Intopt(iocp); err != nil {
		m.solved = false
		return Error, err
	}
	m.solved = true

	switch m.prob.MipStatus() {
	case glpk.OPT:
		return Optimal, nil
	case glpk.FEAS:
		return Feasible, nil
	case glpk.NOFEAS, glpk.UNDEF:
		return Infeasible, nil
	default:
		return Error, nil
	}
}

func (m *GLPKMaster) GetObjectiveValue() float64 {
	if !m.solved {
		return 0
	}
	return m.prob.MipObjVal()
}

func (m *GLPKMaster) GetSolutionPool() []SolutionPoint {
	if !m.solved {
		return nil
	}
	point := make([]float64, m.numCols)
	for col := range point {
		point[col] = m.prob.MipColVal(col + 1)
	}
	return []SolutionPoint{{Point: point, Objective: m.GetObjectiveValue()}}
}

func (m *GLPKMaster) GetDualBound() float64 {
	return m.GetObjectiveValue()
}

// RepairInfeasibility implements the ℓ1-penalty repair contract (spec.md
// §4.3/§4.7): widen every tracked row's RHS (or LHS, for a >=-style row) by
// one fixed step. Widening a row bound can only enlarge the feasible region,
// so this always succeeds as long as at least one row still has a finite
// bound left to relax.
func (m *GLPKMaster) RepairInfeasibility() bool {
	const step = 1e-3
	widened := false
	for row, rb := range m.rowBounds {
		lhs, rhs := rb.lhs, rb.rhs
		if !math.IsInf(rhs, 1) {
			rhs += step
		}
		if !math.IsInf(lhs, -1) {
			lhs -= step
		}
		if lhs != rb.lhs || rhs != rb.rhs {
			applyRowBounds(m.prob, row+1, lhs, rhs)
			m.rowBounds[row] = rowBound{lhs, rhs}
			widened = true
		}
	}
	return widened
}
