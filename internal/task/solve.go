package task

import (
	"time"

	"shotgo/internal/dual"
	"shotgo/internal/env"
	"shotgo/internal/errs"
	"shotgo/internal/mip"
	"shotgo/internal/model"
	"shotgo/internal/options"
	"shotgo/internal/primal"
	"shotgo/internal/reform"
	"shotgo/internal/report"
	"shotgo/internal/termination"
)

// fixedIntFrequencyCap bounds how far Primal.FixedInteger.Frequency.Dynamic
// may relax the fixed-NLP cadence after repeated failures (spec.md §4.5): a
// failing pattern stops doubling the gap once it reaches one NLP attempt per
// fixedIntFrequencyCap iterations, rather than drifting towards "never again".
const fixedIntFrequencyCap = 64

// Run executes the solve as a three-task scheduler list ("iterate", "relax",
// "terminate") against problem, driven by environment's options, and returns
// the structured Results record (spec.md §6).
func Run(problem *model.Problem, environment *env.Environment) (*report.Results, error) {
	opts := environment.Options
	start := time.Now()

	if opts.GetString("Dual.TreeStrategy", string(options.TreeStrategyMultiTree)) == string(options.TreeStrategySingleTree) {
		return nil, errs.New(errs.ModelError, "task: Dual.TreeStrategy=SingleTree is not supported by any adapter; use MultiTree")
	}

	if opts.GetBool("Model.BoundTightening.FeasibilityBased.Use", true) {
		problem.TightenBounds(
			opts.GetInt("Model.BoundTightening.FeasibilityBased.MaxIterations", 20),
			opts.GetBool("Model.BoundTightening.FeasibilityBased.UseNonlinear", true),
		)
	}

	reformed, err := reform.Reformulate(problem, reform.Options{PartitionQuadratic: true})
	if err != nil {
		return nil, err
	}
	reformedProblem := reformed.Problem

	solverName := opts.GetString("Subsolver.MIP.Solver", "A")
	master, err := mip.New(solverName)
	if err != nil {
		return nil, err
	}

	engine := dual.New(reformedProblem, master, environment)
	if err := dual.BuildMaster(master, reformedProblem); err != nil {
		return nil, err
	}

	sense := reformedProblem.Objective().Sense
	tolAbs := opts.GetFloat("Termination.ObjectiveGap.Absolute", 1e-6)
	tolRel := opts.GetFloat("Termination.ObjectiveGap.Relative", 1e-3)
	timeLimit := time.Duration(opts.GetFloat("Termination.TimeLimit", 900.0) * float64(time.Second))
	iterLimit := opts.GetInt("Termination.IterationLimit", 1000)
	constraintTol := opts.GetFloat("Dual.ESH.Rootsearch.ConstraintTolerance", 1e-8)
	primalTol := 1e-6

	baseFixedIntFrequency := opts.GetInt("Primal.FixedInteger.Frequency.Iteration", 1)
	currentFixedIntFrequency := baseFixedIntFrequency
	dynamicFrequency := opts.GetBool("Primal.FixedInteger.Frequency.Dynamic", true)
	fixedIntFrequencyTime := opts.GetFloat("Primal.FixedInteger.Frequency.Time", 0.0)
	var lastFixedIntAttempt time.Duration

	results := &report.Results{PrimalSolution: nil}
	pool := primal.NewPool(sense, 50)
	memo := primal.NewPatternMemo()

	needsInteriorPoint := len(reformedProblem.NonlinearConstraintIndices()) > 0 || len(reformedProblem.QuadraticConstraintIndices()) > 0
	if needsInteriorPoint {
		if _, err := engine.FindInteriorPoint(solverName); err != nil {
			return nil, err
		}
	}

	var lastStatus termination.Status
	var masterInfeasible bool

	// tryFixedInteger runs the fixed-NLP heuristic (and, on failure, the
	// genetic fallback heuristic) at point, contracting/relaxing the cadence
	// per spec.md §4.5, and returns whether a candidate was produced.
	tryFixedInteger := func(point []float64) bool {
		pattern := primal.BinaryPattern(reformedProblem, point)
		if memo.Seen(pattern) {
			return false
		}

		cand, ok := primal.FixedIntegerHeuristic(reformedProblem, master, point, engine.Iteration(), primalTol, false)
		if !ok {
			feasible := func(p []float64) bool { return primal.IsFeasible(reformedProblem, p, primalTol, false) }
			objective := reformedProblem.Objective().Value
			if gaPoint, gaOK := primal.GeneticHeuristic(reformedProblem, point, objective, feasible); gaOK {
				idx, dev := bestDeviation(reformedProblem, gaPoint)
				cand = primal.Candidate{
					Point: gaPoint, Objective: objective(gaPoint), Iteration: engine.Iteration(),
					MostDeviatingIdx: idx, MostDeviatingVal: dev,
				}
				ok = true
			}
		}

		if ok {
			if pool.Add(cand) {
				engine.UpdateCutOff(cand.Objective)
			}
			if dynamicFrequency {
				currentFixedIntFrequency = contractFrequency(currentFixedIntFrequency)
			}
			return true
		}

		engine.AddHyperplanes(point, false)
		if isPurelyBinary(reformedProblem) {
			ones, zeroes := primal.OnesAndZeroes(reformedProblem, point)
			if len(ones) > 0 || len(zeroes) > 0 {
				engine.AddIntegerCut(point)
			}
		}
		if dynamicFrequency {
			currentFixedIntFrequency = relaxFrequency(currentFixedIntFrequency)
		}
		return false
	}

	runIteration := func() (Control, error) {
		result, err := engine.SolveIteration(false)
		if err != nil {
			results.TerminationReason = termination.MasterError
			return Next("terminate"), nil
		}
		if result.Status == mip.Infeasible {
			masterInfeasible = true
			return Next("terminate"), nil
		}
		if result.Status == mip.Error {
			results.TerminationReason = termination.MasterError
			return Next("terminate"), nil
		}

		if result.Point != nil {
			iterationDue := currentFixedIntFrequency > 0 && engine.Iteration()%currentFixedIntFrequency == 0
			timeDue := fixedIntFrequencyTime > 0 &&
				environment.Elapsed()-lastFixedIntAttempt >= time.Duration(fixedIntFrequencyTime*float64(time.Second))
			if iterationDue || timeDue {
				lastFixedIntAttempt = environment.Elapsed()
				tryFixedInteger(result.Point)
			}

			if primal.IsFeasible(reformedProblem, result.Point, primalTol, false) {
				idx, dev := bestDeviation(reformedProblem, result.Point)
				candidate := primal.Candidate{
					Point: result.Point, Objective: result.Objective, Iteration: engine.Iteration(),
					MostDeviatingIdx: idx, MostDeviatingVal: dev,
				}
				if pool.Add(candidate) {
					engine.UpdateCutOff(candidate.Objective)
				}
			} else if best := pool.Best(); best != nil {
				if rsPoint, ok := primal.RootSearchCandidate(reformedProblem, best.Point, result.Point, constraintTol, 40); ok {
					idx, dev := bestDeviation(reformedProblem, rsPoint)
					candidate := primal.Candidate{
						Point:            rsPoint,
						Objective:        reformedProblem.Objective().Value(rsPoint),
						Iteration:        engine.Iteration(),
						MostDeviatingIdx: idx,
						MostDeviatingVal: dev,
					}
					if pool.Add(candidate) {
						engine.UpdateCutOff(candidate.Objective)
					}
				}
			}
		}

		lastStatus = termination.Status{
			HavePrimal:    pool.Best() != nil,
			DualBound:     result.DualBound,
			Elapsed:       environment.Elapsed(),
			Iteration:     engine.Iteration(),
			StagnationHit: engine.DualStagnated(),
		}
		if pool.Best() != nil {
			lastStatus.PrimalBound = pool.Best().Objective
			lastStatus.MaxDeviation = pool.Best().MostDeviatingVal
		}

		stat := report.IterationStat{
			Iteration:        engine.Iteration(),
			Status:           result.Status.String(),
			DualBound:        result.DualBound,
			CutsAdded:        result.HyperplanesAdded,
			RelaxedLazyCount: engine.RelaxedLazyCount(),
			Elapsed:          environment.Elapsed(),
		}
		if pool.Best() != nil {
			stat.PrimalBound = pool.Best().Objective
		}
		if result.Point != nil {
			_, dev := bestDeviation(reformedProblem, result.Point)
			stat.MaxDeviation = dev
		}
		results.Iterations = append(results.Iterations, stat)

		reason, done := termination.Evaluate(lastStatus, tolAbs, tolRel, constraintTol, 10, timeLimit, iterLimit)
		if done {
			results.TerminationReason = reason
			return Next("terminate"), nil
		}
		return Next("relax"), nil
	}

	// runRelaxation implements the ExecuteRelaxationStrategy task (spec.md
	// §4.4 "Relaxed-LP solutions"): a relaxed-LP hyperplane pass kept separate
	// from the main iterate task, bounded by Dual.Relaxation.MaxLazyConstraints.
	runRelaxation := func() (Control, error) {
		_, err := engine.ExecuteRelaxationStrategy(func(point []float64, objective float64) {
			environment.Log.Debugf("relaxation node: objective=%.6g", objective)
		})
		if err != nil {
			results.TerminationReason = termination.MasterError
			return Next("terminate"), nil
		}
		return Next("iterate"), nil
	}

	tasks := []Task{
		{Name: "iterate", Run: runIteration},
		{Name: "relax", Run: runRelaxation},
		{Name: "terminate", Run: func() (Control, error) { return Done(), nil }},
	}
	sched, err := New(tasks)
	if err != nil {
		return nil, err
	}
	if err := sched.Run(); err != nil {
		return nil, err
	}

	if masterInfeasible {
		results.TerminationReason = termination.Infeasible
		results.Status = "Infeasible"
		results.Timing.Total = time.Since(start)
		return results, nil
	}

	if best := pool.Best(); best != nil {
		results.HavePrimal = true
		results.PrimalSolution = backProject(best.Point, reformed.OriginalToReformulated)
		results.PrimalBound = best.Objective
	}
	results.DualBound = lastStatus.DualBound
	results.Status = results.TerminationReason.String()
	results.Timing.Total = time.Since(start)
	return results, nil
}

// contractFrequency implements the "accepted fixed-NLP candidate" half of
// spec.md §4.5's dynamic frequency adjustment: denser calls.
func contractFrequency(f int) int {
	f /= 2
	if f < 1 {
		f = 1
	}
	return f
}

// relaxFrequency implements the "failed fixed-NLP candidate" half of spec.md
// §4.5's dynamic frequency adjustment: sparser calls, capped so the heuristic
// is never starved entirely.
func relaxFrequency(f int) int {
	f *= 2
	if f > fixedIntFrequencyCap {
		f = fixedIntFrequencyCap
	}
	return f
}

// isPurelyBinary reports whether p has no real or general-integer variables,
// i.e. every decision variable is binary (spec.md §4.5 "Infeasible": an
// integer cut is only meaningful for a purely-binary pattern).
func isPurelyBinary(p *model.Problem) bool {
	return len(p.RealVariableIndices()) == 0 && len(p.IntegerVariableIndices()) == 0
}

func backProject(point []float64, mapping []int) []float64 {
	out := make([]float64, len(mapping))
	for i, reformedIdx := range mapping {
		out[i] = point[reformedIdx]
	}
	return out
}

func bestDeviation(p *model.Problem, point []float64) (int, float64) {
	best, bestDev := -1, 0.0
	for i := 0; i < p.NumConstraints(); i++ {
		c := p.Constraint(i)
		if dev := c.NormalizedDeviation(point); dev > bestDev || best == -1 {
			best, bestDev = i, dev
		}
	}
	return best, bestDev
}
