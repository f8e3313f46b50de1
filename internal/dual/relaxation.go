package dual

import "shotgo/internal/mip"

// ExecuteRelaxationStrategy implements the Relaxed-LP solutions task (spec.md
// §4.4): with integrality relaxed, solve the master once and hyperplane its
// (possibly fractional) solution the same way a MIP iterate is hyperplaned,
// then restore integrality. onRelaxationNode, if non-nil, is spec.md §4.3's
// onRelaxationNode hook, called with the relaxed point and objective before
// cuts are generated. The total number of lazy cuts this strategy may add
// over the life of the Engine is bounded by Dual.Relaxation.MaxLazyConstraints:
// once the cumulative count has reached it, further calls are no-ops. The call
// that reaches it adds every cut it selects, so the total may end above it.
func (e *Engine) ExecuteRelaxationStrategy(onRelaxationNode func(point []float64, objective float64)) (added int, err error) {
	limit := e.Env.Options.GetInt("Dual.Relaxation.MaxLazyConstraints", 50)
	if limit <= 0 || e.relaxedLazyUsed >= limit {
		return 0, nil
	}

	e.Master.ActivateDiscreteVariables(false)
	defer e.Master.ActivateDiscreteVariables(true)

	status, err := e.Master.Solve()
	if err != nil {
		return 0, err
	}
	if !status.IsTerminal() || status == mip.Infeasible || status == mip.Unbounded || status == mip.Error {
		return 0, nil
	}
	pool := e.Master.GetSolutionPool()
	if len(pool) == 0 {
		return 0, nil
	}

	point, objective := pool[0].Point, pool[0].Objective
	if onRelaxationNode != nil {
		onRelaxationNode(point, objective)
	}

	added = e.AddHyperplanes(point, true)
	e.relaxedLazyUsed += added
	return added, nil
}

// RelaxedLazyCount returns the cumulative number of lazy cuts added by
// ExecuteRelaxationStrategy so far, for IterationStat bookkeeping.
func (e *Engine) RelaxedLazyCount() int { return e.relaxedLazyUsed }
