package reform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shotgo/internal/model"
)

func buildTwoSidedProblem(t *testing.T) *model.Problem {
	t.Helper()
	b := model.NewBuilder("two-sided")
	b.AddVariable("x", model.Real, 0, 10)
	c := b.AddConstraint("band", 1, 5)
	c.Linear = []model.LinearTerm{{Coefficient: 1, Var: 0}}
	obj := model.NewObjective(model.Minimize)
	obj.Body.Linear = []model.LinearTerm{{Coefficient: 1, Var: 0}}
	b.SetObjective(obj)
	p, err := b.Finalize()
	require.NoError(t, err)
	return p
}

func TestReformulateSplitsTwoSidedConstraint(t *testing.T) {
	p := buildTwoSidedProblem(t)
	res, err := Reformulate(p, Options{})
	require.NoError(t, err)

	count := 0
	for i := 0; i < res.Problem.NumConstraints(); i++ {
		c := res.Problem.Constraint(i)
		require.True(t, c.IsCanonical())
		count++
	}
	require.Equal(t, 2, count)
}

func buildBilinearProblem(t *testing.T) *model.Problem {
	t.Helper()
	b := model.NewBuilder("bilinear")
	b.AddVariable("x", model.Real, -1, 1)
	b.AddVariable("y", model.Real, -1, 1)
	c := b.AddConstraint("xy_le_0", negInf(), 0)
	c.Quadratic = []model.QuadraticTerm{{Coefficient: 1, VarA: 0, VarB: 1}}
	obj := model.NewObjective(model.Minimize)
	obj.Body.Linear = []model.LinearTerm{{Coefficient: 1, Var: 0}}
	b.SetObjective(obj)
	p, err := b.Finalize()
	require.NoError(t, err)
	return p
}

func TestReformulateIntroducesBilinearAuxiliaryOnce(t *testing.T) {
	p := buildBilinearProblem(t)
	res, err := Reformulate(p, Options{})
	require.NoError(t, err)

	auxCount := 0
	for _, a := range res.Auxiliaries {
		if a.Kind == "bilinear" {
			auxCount++
		}
	}
	require.Equal(t, 1, auxCount)
	// original constraint row plus 4 McCormick envelope rows.
	require.Equal(t, 5, res.Problem.NumConstraints())
}

func buildNonlinearObjectiveProblem(t *testing.T) *model.Problem {
	t.Helper()
	b := model.NewBuilder("nlobj")
	b.AddVariable("x", model.Real, 0, 10)
	obj := model.NewObjective(model.Minimize)
	obj.Body.Nonlinear = model.ExpExpr(model.VarExpr(0))
	b.SetObjective(obj)
	p, err := b.Finalize()
	require.NoError(t, err)
	return p
}

func TestReformulateEpigraphsNonlinearObjective(t *testing.T) {
	p := buildNonlinearObjectiveProblem(t)
	res, err := Reformulate(p, Options{})
	require.NoError(t, err)

	require.True(t, res.Problem.Objective().Body.Nonlinear == nil)
	require.Len(t, res.Problem.Objective().Body.Linear, 1)

	foundEpigraph := false
	for _, a := range res.Auxiliaries {
		if a.Kind == "epigraph" {
			foundEpigraph = true
		}
	}
	require.True(t, foundEpigraph)
}

func TestReformulateQuadraticAsNonlinearPolicyFoldsQuadratic(t *testing.T) {
	b := model.NewBuilder("quad")
	b.AddVariable("x", model.Real, -5, 5)
	c := b.AddConstraint("square", negInf(), 4)
	c.Quadratic = []model.QuadraticTerm{{Coefficient: 1, VarA: 0, VarB: 0}}
	obj := model.NewObjective(model.Minimize)
	obj.Body.Linear = []model.LinearTerm{{Coefficient: 1, Var: 0}}
	b.SetObjective(obj)
	p, err := b.Finalize()
	require.NoError(t, err)

	res, err := Reformulate(p, Options{QuadraticPolicy: QuadraticAsNonlinear})
	require.NoError(t, err)

	c0 := res.Problem.Constraint(0)
	require.Empty(t, c0.Quadratic)
	require.NotNil(t, c0.Nonlinear)
}
