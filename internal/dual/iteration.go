package dual

import (
	"shotgo/internal/mip"
	"shotgo/internal/model"
)

// IterationResult summarizes one SolveIteration call for the task scheduler
// and for IterationStats bookkeeping (spec.md §4.6).
type IterationResult struct {
	Status           mip.Status
	Point            []float64
	Objective        float64
	DualBound        float64
	HyperplanesAdded int
}

// SolveIteration implements the SolveIteration task (spec.md §4.6): solve
// the master, and if the incumbent still violates a nonlinear constraint,
// add hyperplanes for the next round. lazy selects single-tree callback-style
// cut injection versus eager master rows.
func (e *Engine) SolveIteration(lazy bool) (IterationResult, error) {
	e.iteration++
	status, err := e.Master.Solve()
	if err != nil {
		return IterationResult{Status: mip.Error}, err
	}
	result := IterationResult{Status: status, DualBound: e.Master.GetDualBound()}
	if status.IsTerminal() && status != mip.Error {
		pool := e.Master.GetSolutionPool()
		if len(pool) > 0 {
			result.Point = pool[0].Point
			result.Objective = pool[0].Objective
			result.HyperplanesAdded = e.AddHyperplanes(pool[0].Point, lazy)
		}
	}
	e.updateStagnation(result.DualBound)
	return result, nil
}

// updateStagnation implements the dual-stagnation bookkeeping of spec.md
// §4.7: count consecutive iterations where the dual bound fails to improve
// by more than a negligible amount.
func (e *Engine) updateStagnation(dualBound float64) {
	const epsilon = 1e-12
	if e.sense == model.Minimize {
		if dualBound > e.lastDualBound+epsilon {
			e.lastDualBound = dualBound
			e.stagnationCounter = 0
			return
		}
	} else {
		if e.lastDualBound == negInf() || dualBound < e.lastDualBound-epsilon {
			e.lastDualBound = dualBound
			e.stagnationCounter = 0
			return
		}
	}
	e.stagnationCounter++
}

// DualStagnated reports whether the dual bound has failed to improve for
// more iterations than Dual.Stagnation.IterationLimit allows (spec.md §4.7
// CheckDualStagnation).
func (e *Engine) DualStagnated() bool {
	limit := e.Env.Options.GetInt("Dual.Stagnation.IterationLimit", 50)
	return e.stagnationCounter >= limit
}

// Iteration returns the number of SolveIteration calls made so far.
func (e *Engine) Iteration() int { return e.iteration }

// DualBound returns the best dual bound seen so far, i.e. the last one that
// improved on its predecessors in the stagnation bookkeeping.
func (e *Engine) DualBound() float64 { return e.lastDualBound }
