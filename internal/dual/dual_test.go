package dual

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"shotgo/internal/env"
	"shotgo/internal/mip"
	"shotgo/internal/model"
	"shotgo/internal/options"
)

// fakeMaster is a minimal in-memory mip.Master stand-in used to exercise the
// Engine without depending on a real LP/MIP backend.
type fakeMaster struct {
	cols        []model.VariableType
	lbs, ubs    []float64
	rows        int
	cutOff      float64
	haveCutOff  bool
	integerCuts int
	lazyCuts    int
	solution    []float64
	objective   float64
	status      mip.Status
}

func (m *fakeMaster) AddVariable(name string, typ model.VariableType, lb, ub float64) int {
	m.cols = append(m.cols, typ)
	m.lbs = append(m.lbs, lb)
	m.ubs = append(m.ubs, ub)
	return len(m.cols) - 1
}
func (m *fakeMaster) InitializeObjective()                                 {}
func (m *fakeMaster) AddObjectiveLinearTerm(col int, coeff float64)        {}
func (m *fakeMaster) AddObjectiveQuadraticTerm(a, b int, coeff float64)    {}
func (m *fakeMaster) FinalizeObjective(sense model.Sense)                  {}
func (m *fakeMaster) InitializeConstraint()                                {}
func (m *fakeMaster) AddConstraintLinearTerm(col int, coeff float64)       {}
func (m *fakeMaster) FinalizeConstraint(name string, lhs, rhs float64) int { m.rows++; return m.rows - 1 }
func (m *fakeMaster) FinalizeProblem() error                               { return nil }
func (m *fakeMaster) ActivateDiscreteVariables(active bool)                {}
func (m *fakeMaster) FixVariables(indices []int, values []float64)         {}
func (m *fakeMaster) UnfixVariables(indices []int)                         {}
func (m *fakeMaster) UpdateVariableBound(col int, lb, ub float64)          {}
func (m *fakeMaster) AddLinearConstraint(coeffs map[int]float64, rhs float64, name string) int {
	m.rows++
	return m.rows - 1
}
func (m *fakeMaster) AddLazyCut(coeffs map[int]float64, rhs float64) { m.lazyCuts++ }
func (m *fakeMaster) CreateIntegerCut(onesIdx, zeroesIdx []int)      { m.integerCuts++ }
func (m *fakeMaster) SetCutOff(value float64)                        { m.cutOff = value; m.haveCutOff = true }
func (m *fakeMaster) SetSolutionLimit(n int)                         {}
func (m *fakeMaster) SetTimeLimit(seconds float64)                   {}
func (m *fakeMaster) Solve() (mip.Status, error)                     { return m.status, nil }
func (m *fakeMaster) GetObjectiveValue() float64                     { return m.objective }
func (m *fakeMaster) GetSolutionPool() []mip.SolutionPoint {
	if m.solution == nil {
		return nil
	}
	return []mip.SolutionPoint{{Point: m.solution, Objective: m.objective}}
}
func (m *fakeMaster) GetDualBound() float64     { return m.objective }
func (m *fakeMaster) RepairInfeasibility() bool { return false }

func buildQuadraticProblem(t *testing.T) *model.Problem {
	t.Helper()
	b := model.NewBuilder("quad")
	b.AddVariable("x", model.Real, -3, 3)
	c := b.AddConstraint("x_sq_le_1", math.Inf(-1), 1)
	c.Quadratic = []model.QuadraticTerm{{Coefficient: 1, VarA: 0, VarB: 0}}
	obj := model.NewObjective(model.Minimize)
	obj.Body.Linear = []model.LinearTerm{{Coefficient: 1, Var: 0}}
	b.SetObjective(obj)
	p, err := b.Finalize()
	require.NoError(t, err)
	return p
}

func newTestEngine(t *testing.T, p *model.Problem) (*Engine, *fakeMaster) {
	t.Helper()
	opts := options.New()
	e := env.New(opts)
	fm := &fakeMaster{}
	return New(p, fm, e), fm
}

func TestSelectViolatedConstraintsFindsDeviation(t *testing.T) {
	p := buildQuadraticProblem(t)
	eng, _ := newTestEngine(t, p)
	selected := eng.selectViolatedConstraints([]float64{2.0}, eng.Env.Options)
	require.Len(t, selected, 1)
	require.Equal(t, 0, selected[0].Index)
}

func TestSelectViolatedConstraintsEmptyWhenFeasible(t *testing.T) {
	p := buildQuadraticProblem(t)
	eng, _ := newTestEngine(t, p)
	selected := eng.selectViolatedConstraints([]float64{0.0}, eng.Env.Options)
	require.Empty(t, selected)
}

func TestRootSearchFindsBoundary(t *testing.T) {
	p := buildQuadraticProblem(t)
	eng, _ := newTestEngine(t, p)
	z := []float64{0.0}
	infeasible := []float64{2.0}
	boundary := eng.rootSearch(z, infeasible, 1e-9, 40)
	require.InDelta(t, 1.0, boundary[0], 1e-3)
}

func TestAddHyperplanesAddsRowForViolatedPoint(t *testing.T) {
	p := buildQuadraticProblem(t)
	eng, fm := newTestEngine(t, p)
	eng.InteriorPoints = append(eng.InteriorPoints, InteriorPoint{Point: []float64{0}})
	added := eng.AddHyperplanes([]float64{2.0}, false)
	require.Equal(t, 1, added)
	require.Equal(t, 1, fm.rows)

	// Re-adding at the same (rounded) point must be deduped.
	added = eng.AddHyperplanes([]float64{2.0}, false)
	require.Equal(t, 0, added)
	require.Equal(t, 1, fm.rows)
}

func TestUpdateCutOffTightensOnImprovement(t *testing.T) {
	p := buildQuadraticProblem(t)
	eng, fm := newTestEngine(t, p)
	eng.UpdateCutOff(5.0)
	require.True(t, fm.haveCutOff)
	first := fm.cutOff

	eng.UpdateCutOff(10.0) // worse for Minimize, must not update.
	require.Equal(t, first, fm.cutOff)

	eng.UpdateCutOff(2.0) // better, must tighten.
	require.Less(t, fm.cutOff, first)
}

func TestAddIntegerCutSkipsWhenNoBinaries(t *testing.T) {
	p := buildQuadraticProblem(t)
	eng, fm := newTestEngine(t, p)
	eng.AddIntegerCut([]float64{1.0})
	require.Equal(t, 0, fm.integerCuts)
}
