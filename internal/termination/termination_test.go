package termination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAbsGapInfiniteWithoutPrimal(t *testing.T) {
	s := Status{HavePrimal: false, DualBound: 3}
	require.True(t, AbsGap(s) > 1e300)
}

func TestCheckAbsoluteGapFires(t *testing.T) {
	s := Status{HavePrimal: true, PrimalBound: 2.0000001, DualBound: 2}
	reason, done := CheckAbsoluteGap(s, 1e-3)
	require.True(t, done)
	require.Equal(t, AbsoluteGap, reason)
}

func TestCheckTimeLimitFires(t *testing.T) {
	s := Status{Elapsed: 10 * time.Second}
	reason, done := CheckTimeLimit(s, 5*time.Second)
	require.True(t, done)
	require.Equal(t, TimeLimit, reason)
}

func TestEvaluatePrefersInfeasibleFirst(t *testing.T) {
	s := Status{Infeasible: true, MasterFailed: true}
	reason, done := Evaluate(s, 1e-6, 1e-3, 1e-6, 10, time.Minute, 100)
	require.True(t, done)
	require.Equal(t, Infeasible, reason)
}

func TestEvaluateNotTerminatedWhenNothingFires(t *testing.T) {
	s := Status{HavePrimal: true, PrimalBound: 10, DualBound: 0, Elapsed: time.Second, Iteration: 1}
	reason, done := Evaluate(s, 1e-6, 1e-3, 1e-6, 10, time.Minute, 100)
	require.False(t, done)
	require.Equal(t, NotTerminated, reason)
}
