package dual

import "shotgo/internal/model"

// AddIntegerCut implements the AddIntegerCuts task (spec.md §4.6): excludes
// the exact binary assignment of point from the master's remaining search
// space with a no-good cut (spec.md §4.4), used to eliminate a relaxed or
// primal solution whose discrete part cannot be revisited.
func (e *Engine) AddIntegerCut(point []float64) {
	if !e.Env.Options.GetBool("Dual.HyperplaneCuts.UseIntegerCuts", true) {
		return
	}
	var ones, zeroes []int
	for i := 0; i < e.Problem.NumVariables(); i++ {
		v := e.Problem.Variable(i)
		if v.Type != model.Binary {
			continue
		}
		if point[i] > 0.5 {
			ones = append(ones, i)
		} else {
			zeroes = append(zeroes, i)
		}
	}
	if len(ones) == 0 && len(zeroes) == 0 {
		return
	}
	e.Master.CreateIntegerCut(ones, zeroes)
}

// UpdateCutOff implements objective cut-off management (spec.md §4.4): every
// time the primal bound improves, tighten the master's objective cut-off row
// by the configured tolerance so future master solutions strictly improve on
// the best known primal.
func (e *Engine) UpdateCutOff(primalObjective float64) {
	tol := e.Env.Options.GetFloat("Subsolver.MIP.CutOff.Tolerance", 1e-5)
	if !e.havePrimal || e.improves(primalObjective) {
		e.primalBound = primalObjective
		e.havePrimal = true
		if e.sense == model.Minimize {
			e.Master.SetCutOff(primalObjective - tol)
		} else {
			e.Master.SetCutOff(primalObjective + tol)
		}
	}
}

func (e *Engine) improves(candidate float64) bool {
	if !e.havePrimal {
		return true
	}
	if e.sense == model.Minimize {
		return candidate < e.primalBound
	}
	return candidate > e.primalBound
}

// RepairInfeasibleDualProblem implements the RepairInfeasibleDualProblem task
// (spec.md §4.6 / §4.7): ask the master to relax itself (e.g. drop/soften
// lazy cuts) up to the configured retry limit, after which repair gives up
// and the caller should terminate on repeated infeasibility.
func (e *Engine) RepairInfeasibleDualProblem() bool {
	limit := e.Env.Options.GetInt("Dual.InfeasibilityRepair.IterationLimit", 2)
	if e.repairFailures >= limit {
		return false
	}
	if e.Master.RepairInfeasibility() {
		return true
	}
	e.repairFailures++
	return e.repairFailures < limit
}
