package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExprEvaluateExp(t *testing.T) {
	// exp(x) at x=1 -> e.
	e := ExpExpr(VarExpr(0))
	require.InDelta(t, math.E, e.Evaluate([]float64{1}), 1e-12)
}

func TestExprGradientExactTaylorForLinear(t *testing.T) {
	// Round-trip property (spec.md §8): for a linear expression,
	// grad(x).(y-x) + f(x) == f(y).
	e := AddExpr(MulExpr(ConstExpr(2), VarExpr(0)), MulExpr(ConstExpr(3), VarExpr(1)))
	x := []float64{1, 1}
	y := []float64{4, -2}

	grad := make(map[int]float64)
	e.AddGradient(x, grad)

	taylor := e.Evaluate(x)
	for idx, g := range grad {
		taylor += g * (y[idx] - x[idx])
	}
	require.InDelta(t, e.Evaluate(y), taylor, 1e-9)
}

func TestExprConvexityExpOfLinearIsConvex(t *testing.T) {
	e := ExpExpr(AddExpr(VarExpr(0), ConstExpr(1)))
	bounds := []Interval{{-5, 5}}
	require.Equal(t, Convex, e.Convexity(bounds))
}

func TestExprTightenBoundsAdd(t *testing.T) {
	// x + y, target [0,0], y in [1,1] => x should tighten to [-1,-1].
	e := AddExpr(VarExpr(0), VarExpr(1))
	bounds := []Interval{{-10, 10}, {1, 1}}
	got := map[int]Interval{}
	e.TightenBounds(Point(0), bounds, func(idx int, iv Interval) {
		got[idx] = iv
	})
	require.InDelta(t, -1, got[0].Lo, 1e-9)
	require.InDelta(t, -1, got[0].Hi, 1e-9)
}
