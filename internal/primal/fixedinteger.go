package primal

import (
	"shotgo/internal/mip"
	"shotgo/internal/model"
)

// FixedIntegerHeuristic implements the fixed-NLP primal heuristic (spec.md
// §4.5): fix every discrete variable at point's values, re-solve the master
// (now a continuous relaxation of the remaining variables under the
// already-accumulated hyperplanes), and report the resulting point as a
// primal candidate if it is feasible for the original problem.
//
// The master itself stands in for a dedicated NLP subsolver: with discrete
// variables fixed and enough accumulated hyperplanes the remaining LP
// relaxation already approximates the fixed-integer NLP's continuous part,
// the same trade-off the teacher's own branch_and_bound.go makes when it
// resolves cloneLp'd LPs at each node instead of calling a separate NLP tool.
func FixedIntegerHeuristic(p *model.Problem, master mip.Master, point []float64, iteration int, tol float64, trustLinear bool) (Candidate, bool) {
	var fixedIdx []int
	var fixedVal []float64
	for i := 0; i < p.NumVariables(); i++ {
		if p.Variable(i).Type.IsDiscrete() {
			fixedIdx = append(fixedIdx, i)
			fixedVal = append(fixedVal, roundToInt(point[i]))
		}
	}
	if len(fixedIdx) == 0 {
		return Candidate{}, false
	}

	master.FixVariables(fixedIdx, fixedVal)
	defer func() {
		master.UnfixVariables(fixedIdx)
		for _, i := range fixedIdx {
			v := p.Variable(i)
			master.UpdateVariableBound(i, v.Lower, v.Upper)
		}
	}()

	status, err := master.Solve()
	if err != nil || !status.IsTerminal() || status == mip.Infeasible || status == mip.Unbounded || status == mip.Error {
		return Candidate{}, false
	}
	pool := master.GetSolutionPool()
	if len(pool) == 0 {
		return Candidate{}, false
	}
	candidatePoint := pool[0].Point

	if !IsFeasible(p, candidatePoint, tol, trustLinear) {
		return Candidate{}, false
	}

	idx, dev := mostDeviating(p, candidatePoint)
	return Candidate{
		Point:            candidatePoint,
		Objective:        pool[0].Objective,
		Iteration:        iteration,
		MostDeviatingIdx: idx,
		MostDeviatingVal: dev,
	}, true
}

func roundToInt(v float64) float64 {
	return float64(int64(v + sign(v)*0.5))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func mostDeviating(p *model.Problem, point []float64) (int, float64) {
	best, bestDev := -1, 0.0
	for i := 0; i < p.NumConstraints(); i++ {
		c := p.Constraint(i)
		if dev := c.NormalizedDeviation(point); dev > bestDev || best == -1 {
			best, bestDev = i, dev
		}
	}
	return best, bestDev
}
