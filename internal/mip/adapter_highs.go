package mip

import (
	"math"

	"github.com/lanl/highs"

	"shotgo/internal/model"
)

// HiGHSMaster is master adapter "A" (spec.md §6, MIP.Solver="A"), built the
// same way the teacher assembles its highs.Model: accumulate ColLower/
// ColUpper/ColCosts/VarTypes as plain slices and rows as highs.Nonzero
// triples (src/scpcs/highs.go's defBaseSCP/defConflicts), then call Solve
// once per master iteration.
type HiGHSMaster struct {
	lp   highs.Model
	rows rowFingerprints
	sense model.Sense

	objLinear       map[int]float64
	objQuadratic    []highs.Nonzero
	pendingRowTerms map[int]float64
	cutoffRow       int // -1 until SetCutOff has run once
	lastSolution    *highs.Solution
}

func NewHiGHSMaster() *HiGHSMaster {
	return &HiGHSMaster{
		rows:      newRowFingerprints(),
		objLinear: make(map[int]float64),
		cutoffRow: -1,
	}
}

func (m *HiGHSMaster) AddVariable(name string, typ model.VariableType, lb, ub float64) int {
	col := len(m.lp.ColLower)
	m.lp.ColLower = append(m.lp.ColLower, lb)
	m.lp.ColUpper = append(m.lp.ColUpper, ub)
	vt := highs.ContinuousType
	if typ.IsDiscrete() {
		vt = highs.IntegerType
	}
	m.lp.VarTypes = append(m.lp.VarTypes, vt)
	m.lp.ColCosts = append(m.lp.ColCosts, 0)
	return col
}

func (m *HiGHSMaster) InitializeObjective() {
	m.objLinear = make(map[int]float64)
	m.objQuadratic = nil
}

func (m *HiGHSMaster) AddObjectiveLinearTerm(col int, coeff float64) {
	m.objLinear[col] += coeff
}

func (m *HiGHSMaster) AddObjectiveQuadraticTerm(colA, colB int, coeff float64) {
	m.objQuadratic = append(m.objQuadratic, highs.Nonzero{Row: colA, Col: colB, Val: coeff})
}

func (m *HiGHSMaster) FinalizeObjective(sense model.Sense) {
	for col, coeff := range m.objLinear {
		m.lp.ColCosts[col] = coeff
	}
	m.sense = sense
	m.lp.Maximize = sense == model.Maximize
	m.lp.HessianMatrix = append(m.lp.HessianMatrix, m.objQuadratic...)
}

func (m *HiGHSMaster) InitializeConstraint() {
	m.pendingRowTerms = make(map[int]float64)
}

func (m *HiGHSMaster) AddConstraintLinearTerm(col int, coeff float64) {
	m.pendingRowTerms[col] += coeff
}

func (m *HiGHSMaster) FinalizeConstraint(name string, lhs, rhs float64) int {
	row := len(m.lp.RowLower)
	m.lp.AddDenseRow(lhs, m.denseRow(m.pendingRowTerms), rhs)
	return row
}

func (m *HiGHSMaster) denseRow(coeffs map[int]float64) []float64 {
	dense := make([]float64, len(m.lp.ColLower))
	for col, coeff := range coeffs {
		dense[col] = coeff
	}
	return dense
}

func (m *HiGHSMaster) FinalizeProblem() error {
	return nil
}

func (m *HiGHSMaster) ActivateDiscreteVariables(active bool) {
	for i, typ := range m.lp.VarTypes {
		if typ == highs.IntegerType && !active {
			m.lp.VarTypes[i] = highs.ContinuousType
		}
	}
}

func (m *HiGHSMaster) FixVariables(indices []int, values []float64) {
	for k, col := range indices {
		m.lp.ColLower[col] = values[k]
		m.lp.ColUpper[col] = values[k]
	}
}

func (m *HiGHSMaster) UnfixVariables(indices []int) {
	// Bounds must be restored by the caller via UpdateVariableBound; this
	// adapter has no memory of the pre-fix bounds.
}

func (m *HiGHSMaster) UpdateVariableBound(col int, lb, ub float64) {
	m.lp.ColLower[col] = lb
	m.lp.ColUpper[col] = ub
}

func (m *HiGHSMaster) AddLinearConstraint(coeffs map[int]float64, rhs float64, name string) int {
	row := len(m.lp.RowLower)
	existing, dup := m.rows.register(coeffs, rhs, row)
	if dup {
		return -1
	}
	m.lp.AddDenseRow(math.Inf(-1), m.denseRow(coeffs), rhs)
	return existing
}

func (m *HiGHSMaster) AddLazyCut(coeffs map[int]float64, rhs float64) {
	m.AddLinearConstraint(coeffs, rhs, "")
}

func (m *HiGHSMaster) CreateIntegerCut(onesIdx, zeroesIdx []int) {
	coeffs, rhs := integerCutRow(onesIdx, zeroesIdx)
	m.AddLinearConstraint(coeffs, rhs, "integer-cut")
}

// SetCutOff maintains a single dedicated row "objective <= value" (or ">="
// for maximization), updating its bound in place on every call rather than
// adding a new row each time the primal bound improves.
func (m *HiGHSMaster) SetCutOff(value float64) {
	if m.cutoffRow == -1 {
		m.cutoffRow = len(m.lp.RowLower)
		if m.sense == model.Maximize {
			m.lp.AddDenseRow(value, m.denseRow(m.objLinear), math.Inf(1))
		} else {
			m.lp.AddDenseRow(math.Inf(-1), m.denseRow(m.objLinear), value)
		}
		return
	}
	if m.sense == model.Maximize {
		m.lp.RowLower[m.cutoffRow] = value
	} else {
		m.lp.RowUpper[m.cutoffRow] = value
	}
}

func (m *HiGHSMaster) SetSolutionLimit(n int) {}

func (m *HiGHSMaster) SetTimeLimit(seconds float64) {}

func (m *HiGHSMaster) Solve() (Status, error) {
	sol, err := m.lp.Solve()
	if err != nil {
		return Error, err
	}
	m.lastSolution = sol
	switch sol.Status {
	case highs.Optimal:
		return Optimal, nil
	default:
		return Infeasible, nil
	}
}

func (m *HiGHSMaster) GetObjectiveValue() float64 {
	if m.lastSolution == nil {
		return 0
	}
	return m.lastSolution.Objective
}

func (m *HiGHSMaster) GetSolutionPool() []SolutionPoint {
	if m.lastSolution == nil {
		return nil
	}
	point := make([]float64, len(m.lp.ColLower))
	copy(point, m.lastSolution.ColumnPrimal)
	return []SolutionPoint{{Point: point, Objective: m.lastSolution.Objective}}
}

func (m *HiGHSMaster) GetDualBound() float64 {
	return m.GetObjectiveValue()
}

// RepairInfeasibility is not implemented by this adapter: it changes no row
// bound and always reports false. GLPKMaster supports repair; this adapter
// does not.
func (m *HiGHSMaster) RepairInfeasibility() bool {
	return false
}
