package primal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"shotgo/internal/model"
)

func buildCircleProblem(t *testing.T) *model.Problem {
	t.Helper()
	b := model.NewBuilder("s3")
	b.AddVariable("x", model.Real, 0, 1)
	b.AddVariable("y", model.Real, 0, 1)
	c := b.AddConstraint("in_circle", math.Inf(-1), 1)
	c.Quadratic = []model.QuadraticTerm{
		{Coefficient: 1, VarA: 0, VarB: 0},
		{Coefficient: 1, VarA: 1, VarB: 1},
	}
	obj := model.NewObjective(model.Minimize)
	obj.Body.Linear = []model.LinearTerm{{Coefficient: 1, Var: 0}, {Coefficient: 1, Var: 1}}
	b.SetObjective(obj)
	p, err := b.Finalize()
	require.NoError(t, err)
	return p
}

func TestPoolTracksBestAndEvicts(t *testing.T) {
	pool := NewPool(model.Minimize, 2)
	pool.Add(Candidate{Point: []float64{1, 1}, Objective: 2, Iteration: 1})
	pool.Add(Candidate{Point: []float64{0.5, 0.5}, Objective: 1, Iteration: 2})
	require.Equal(t, 1.0, pool.Best().Objective)

	pool.Add(Candidate{Point: []float64{0.1, 0.1}, Objective: 0.2, Iteration: 3})
	require.Equal(t, 0.2, pool.Best().Objective)
	require.LessOrEqual(t, len(pool.items), 2)
}

func TestIsFeasibleRejectsOutOfBoundConstraint(t *testing.T) {
	p := buildCircleProblem(t)
	require.True(t, IsFeasible(p, []float64{0.5, 0.5}, 1e-6, false))
	require.False(t, IsFeasible(p, []float64{1, 1}, 1e-6, false))
}

func TestRootSearchCandidateFindsBoundary(t *testing.T) {
	p := buildCircleProblem(t)
	incumbent := []float64{0, 0}
	mipPoint := []float64{1, 1}
	point, ok := RootSearchCandidate(p, incumbent, mipPoint, 1e-6, 40)
	require.True(t, ok)
	require.LessOrEqual(t, point[0]*point[0]+point[1]*point[1], 1.0+1e-3)
}

func TestPatternMemoDedupesBinaryPatterns(t *testing.T) {
	b := model.NewBuilder("bits")
	b.AddVariable("a", model.Binary, 0, 1)
	b.AddVariable("b", model.Binary, 0, 1)
	obj := model.NewObjective(model.Minimize)
	obj.Body.Linear = []model.LinearTerm{{Coefficient: 1, Var: 0}}
	b.SetObjective(obj)
	p, err := b.Finalize()
	require.NoError(t, err)

	memo := NewPatternMemo()
	pattern := BinaryPattern(p, []float64{1, 0})
	require.False(t, memo.Seen(pattern))
	require.True(t, memo.Seen(pattern))

	ones, zeroes := OnesAndZeroes(p, []float64{1, 0})
	require.Equal(t, []int{0}, ones)
	require.Equal(t, []int{1}, zeroes)
}
