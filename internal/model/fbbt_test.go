package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildBoxConstraint mirrors scenario S2 from spec.md §8: x^2 <= 4, x >= -3.
func buildBoxConstraint(t *testing.T) *Problem {
	t.Helper()
	b := NewBuilder("s2")
	b.AddVariable("x", Real, -3, 1000)
	c := b.AddConstraint("x_sq_le_4", math.Inf(-1), 4)
	c.Quadratic = []QuadraticTerm{{Coefficient: 1, VarA: 0, VarB: 0}}
	p, err := b.Finalize()
	require.NoError(t, err)
	return p
}

func TestFBBTTightensBoxFromQuadratic(t *testing.T) {
	p := buildBoxConstraint(t)
	result := p.TightenBounds(20, true)
	require.Greater(t, result.VariablesTouched, 0)

	v := p.Variable(0)
	require.LessOrEqual(t, v.Upper, 2.0+1e-9)
	require.GreaterOrEqual(t, v.Lower, -2.0-1e-9)
}

func TestFBBTNonLoosening(t *testing.T) {
	// Invariant (spec.md §8 #4): after any FBBT pass, [lb_new, ub_new]
	// subseteq [lb_old, ub_old].
	p := buildBoxConstraint(t)
	before := p.Bounds()
	p.TightenBounds(20, true)
	after := p.Bounds()
	for i := range before {
		require.GreaterOrEqual(t, after[i].Lo, before[i].Lo-1e-9)
		require.LessOrEqual(t, after[i].Hi, before[i].Hi+1e-9)
	}
}

func TestFBBTIdempotentAtFixpoint(t *testing.T) {
	// Round-trip property (spec.md §8): re-running FBBT at convergence
	// yields zero further changes.
	p := buildBoxConstraint(t)
	p.TightenBounds(20, true)
	before := p.Bounds()
	result := p.TightenBounds(20, true)
	after := p.Bounds()

	require.Equal(t, 0, result.VariablesTouched)
	require.Equal(t, before, after)
}
