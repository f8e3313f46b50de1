// Package report defines the structured Results record emitted at the end
// of a solve (spec.md §6: "Emitted as structured records ... Serializers
// are external").
package report

import (
	"time"

	"shotgo/internal/termination"
)

// IterationStat is one row of the per-iteration bookkeeping table
// (spec.md §3 "Iteration record").
type IterationStat struct {
	Iteration        int
	Status           string
	PrimalBound      float64
	DualBound        float64
	CutsAdded        int
	MaxDeviation     float64
	OpenNodes        int
	WasMIP           bool
	RelaxedLazyCount int
	Elapsed          time.Duration
}

// TimingBreakdown holds wall-clock time per major phase. task.Run fills only
// Total; the per-phase fields are left zero.
type TimingBreakdown struct {
	Reformulation  time.Duration
	InteriorPoint  time.Duration
	DualIterations time.Duration
	PrimalSearch   time.Duration
	Total          time.Duration
}

// Results is the solve's final structured output (spec.md §6).
type Results struct {
	TerminationReason termination.Reason
	Status            string

	PrimalBound float64
	DualBound   float64
	HavePrimal  bool

	// PrimalSolution is in the original problem's variable space (spec.md
	// §6), already back-projected through reform.Result.OriginalToReformulated.
	PrimalSolution []float64

	Iterations []IterationStat
	Timing     TimingBreakdown
}

// AbsGap reports |primal-dual|, or +Inf if no primal was found.
func (r *Results) AbsGap() float64 {
	return termination.AbsGap(termination.Status{
		HavePrimal:  r.HavePrimal,
		PrimalBound: r.PrimalBound,
		DualBound:   r.DualBound,
	})
}

// RelGap reports the relative gap, or +Inf if no primal was found.
func (r *Results) RelGap() float64 {
	return termination.RelGap(termination.Status{
		HavePrimal:  r.HavePrimal,
		PrimalBound: r.PrimalBound,
		DualBound:   r.DualBound,
	})
}
