package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinearTermValueAndGradient(t *testing.T) {
	term := LinearTerm{Coefficient: 3, Var: 0}
	x := []float64{2}
	require.Equal(t, 6.0, term.Value(x))

	grad := make(map[int]float64)
	term.AddGradient(x, grad)
	require.Equal(t, 3.0, grad[0])
}

func TestQuadraticTermDiagonalConvexity(t *testing.T) {
	sq := QuadraticTerm{Coefficient: 2, VarA: 0, VarB: 0}
	require.Equal(t, Convex, sq.Convexity(nil))

	neg := QuadraticTerm{Coefficient: -2, VarA: 0, VarB: 0}
	require.Equal(t, Concave, neg.Convexity(nil))

	offDiag := QuadraticTerm{Coefficient: 1, VarA: 0, VarB: 1}
	require.Equal(t, Nonconvex, offDiag.Convexity(nil))
}

func TestQuadraticTermDiagonalGradientAndHessian(t *testing.T) {
	sq := QuadraticTerm{Coefficient: 2, VarA: 0, VarB: 0}
	x := []float64{3}
	grad := make(map[int]float64)
	sq.AddGradient(x, grad)
	require.Equal(t, 12.0, grad[0]) // d/dx(2x^2) = 4x = 12

	hess := make(map[[2]int]float64)
	sq.AddHessian(x, hess)
	require.Equal(t, 4.0, hess[[2]int{0, 0}])
}

func TestSignomialConvexityTabledRule(t *testing.T) {
	// x^2 * y (sum of exponents = 3 > 1, positive coeff) -> Convex.
	s := SignomialTerm{
		Coefficient: 1,
		Elements: []SignomialElement{
			{Var: 0, Exponent: 2},
			{Var: 1, Exponent: 1},
		},
	}
	require.Equal(t, Convex, s.Convexity(nil))
}

func TestMonomialVariablesDeduped(t *testing.T) {
	m := MonomialTerm{Coefficient: 1, Vars: []int{0, 1, 0}}
	require.ElementsMatch(t, []int{0, 1}, m.Variables())
}
