package dual

import (
	"shotgo/internal/mip"
	"shotgo/internal/model"
	"shotgo/internal/options"
)

// FindInteriorPoint implements the InteriorPoint task (spec.md §4.6 /
// §4.4): compute a strictly-feasible anchor point for the ESH root search,
// append it to e.InteriorPoints, and return it. solverName selects the same
// MIP backend as the main dual problem (spec.md §6, Subsolver.MIP.Solver).
func (e *Engine) FindInteriorPoint(solverName string) (InteriorPoint, error) {
	strategy := e.Env.Options.GetString("Dual.ESH.InteriorPoint.Solver", string(options.InteriorPointCuttingPlaneMiniMax))
	switch strategy {
	case string(options.InteriorPointExternalNLP):
		// No external NLP subsolver is wired (spec.md §4.4 names it as an
		// alternative, not a requirement); fall back to the cutting-plane
		// minimax strategy, which needs only the MIP master already in use.
		fallthrough
	default:
		return e.cuttingPlaneMiniMaxInteriorPoint(solverName)
	}
}

// cuttingPlaneMiniMaxInteriorPoint solves a growing sequence of LPs with an
// auxiliary variable mu minimizing the worst-case nonlinear-constraint
// value (spec.md §4.4 "Cutting-plane minimax"). Each LP solution point gets a
// hyperplane at its most-deviating constraint, with mu as slack, before the
// next LP is solved; no root search between successive candidates is done.
// The loop stops when mu<0 and mu has converged, when no most-deviating
// constraint is found, or on an infeasible/unbounded/error status, an empty
// solution pool or the 25-iteration cap.
func (e *Engine) cuttingPlaneMiniMaxInteriorPoint(solverName string) (InteriorPoint, error) {
	master, err := mip.New(solverName)
	if err != nil {
		return InteriorPoint{}, err
	}

	n := e.Problem.NumVariables()
	for i := 0; i < n; i++ {
		v := e.Problem.Variable(i)
		lb, ub := v.Lower, v.Upper
		if v.Type.IsDiscrete() {
			// Integrality is relaxed for the interior-point search: it only
			// needs a point strictly inside the continuous relaxation of
			// the nonlinear feasible region.
			master.AddVariable(v.Name, model.Real, lb, ub)
		} else {
			master.AddVariable(v.Name, v.Type, lb, ub)
		}
	}
	muCol := master.AddVariable("mu", model.Real, negInf(), posInf())

	master.InitializeObjective()
	master.AddObjectiveLinearTerm(muCol, 1)
	master.FinalizeObjective(model.Minimize)
	if err := master.FinalizeProblem(); err != nil {
		return InteriorPoint{}, err
	}

	tolAbs := e.Env.Options.GetFloat("Dual.ESH.Rootsearch.ConstraintTolerance", 1e-8)
	maxIter := 25

	prevPoint := e.Problem.Bounds()
	point := midpoint(prevPoint)
	prevMu := posInf()

	for iter := 0; iter < maxIter; iter++ {
		status, err := master.Solve()
		if err != nil {
			return InteriorPoint{}, err
		}
		if status == mip.Infeasible || status == mip.Unbounded || status == mip.Error {
			break
		}

		pool := master.GetSolutionPool()
		if len(pool) == 0 {
			break
		}
		candidate := pool[0].Point[:n]
		mu := pool[0].Point[muCol]

		if mu < 0 && absFloat(mu-prevMu) < tolAbs {
			point = candidate
			break
		}

		worstIdx, _ := e.mostDeviating(candidate)
		if worstIdx == -1 {
			point = candidate
			break
		}
		c := e.Problem.Constraint(worstIdx)
		coeffs, rhs := supportingHyperplaneTerms(c, candidate)
		coeffs[muCol] = -1
		master.AddLinearConstraint(coeffs, rhs, "interior_cut")

		point = candidate
		prevMu = mu
	}

	ip := InteriorPoint{Point: point}
	e.InteriorPoints = append(e.InteriorPoints, ip)
	return ip, nil
}

func midpoint(bounds []model.Interval) []float64 {
	out := make([]float64, len(bounds))
	for i, b := range bounds {
		lo, hi := b.Lo, b.Hi
		if isInf(lo, -1) && isInf(hi, 1) {
			out[i] = 0
			continue
		}
		if isInf(lo, -1) {
			out[i] = hi - 1
			continue
		}
		if isInf(hi, 1) {
			out[i] = lo + 1
			continue
		}
		out[i] = (lo + hi) / 2
	}
	return out
}

func isInf(v float64, sign int) bool {
	return (sign < 0 && v <= negInf()) || (sign > 0 && v >= posInf())
}

func posInf() float64 { return -negInf() }

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
