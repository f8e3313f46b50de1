package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntervalMul(t *testing.T) {
	iv := Interval{-2, 3}.Mul(Interval{-1, 4})
	require.Equal(t, -8.0, iv.Lo)
	require.Equal(t, 12.0, iv.Hi)
}

func TestIntervalDivStraddlingZeroIsFull(t *testing.T) {
	iv := Interval{1, 2}.Div(Interval{-1, 1})
	require.True(t, math.IsInf(iv.Lo, -1))
	require.True(t, math.IsInf(iv.Hi, 1))
}

func TestIntervalPowEvenExponentStraddlingZero(t *testing.T) {
	iv := Interval{-2, 3}.Pow(2)
	require.Equal(t, 0.0, iv.Lo)
	require.Equal(t, 9.0, iv.Hi)
}

func TestIntervalSqrtClampsNegativePortion(t *testing.T) {
	iv := Interval{-4, 9}.Sqrt()
	require.Equal(t, 0.0, iv.Lo)
	require.Equal(t, 3.0, iv.Hi)
}

func TestIntervalContainsWithTolerance(t *testing.T) {
	iv := Interval{0, 1}
	require.True(t, iv.Contains(1.0000000001, 1e-6))
	require.False(t, iv.Contains(2, 1e-6))
}
