package dual

import (
	"gonum.org/v1/gonum/floats"

	"shotgo/internal/model"
)

// rootSearch performs the ESH boundary search of spec.md §4.4: on the
// segment point(lambda) = z + lambda*(p-z), lambda in [0,1], find the
// largest lambda with max_i g_i(point(lambda)) <= tol. gonum's
// optimize.Bisection targets Wolfe-condition line search for unconstrained
// descent (Init wants a negative directional derivative and iterates on
// (f,g) pairs); a feasibility boundary search has neither a descent
// direction nor a gradient protocol to hand it, so it is the wrong
// abstraction here and this is a direct bisection instead (see DESIGN.md).
func (e *Engine) rootSearch(z, p []float64, tol float64, maxIter int) []float64 {
	lo, hi := 0.0, 1.0 // lo: feasible (or at z), hi: infeasible (or at p)
	if e.maxViolation(z) > tol {
		// z itself is not strictly interior; nothing to search from.
		return z
	}
	if e.maxViolation(p) <= tol {
		return p
	}
	best := segmentPoint(z, p, lo)
	for i := 0; i < maxIter; i++ {
		mid := (lo + hi) / 2
		point := segmentPoint(z, p, mid)
		if e.maxViolation(point) <= tol {
			lo = mid
			best = point
		} else {
			hi = mid
		}
	}
	return best
}

func segmentPoint(z, p []float64, lambda float64) []float64 {
	diff := make([]float64, len(z))
	floats.SubTo(diff, p, z)
	out := make([]float64, len(z))
	return floats.AddScaledTo(out, z, lambda, diff)
}

// maxViolation returns the worst normalized deviation among nonlinear
// constraints at point (<=0 means strictly/weakly feasible).
func (e *Engine) maxViolation(point []float64) float64 {
	worst := negInf()
	for _, c := range e.nonlinearConstraints() {
		if dev := c.NormalizedDeviation(point); dev > worst {
			worst = dev
		}
	}
	if worst == negInf() {
		return 0
	}
	return worst
}

// supportingHyperplaneTerms builds the gradient-based supporting hyperplane
// terms for constraint c at point (spec.md §4.4): g(p) + grad(p).(x-p) <= 0,
// i.e. linear coefficients grad and an adjusted RHS.
func supportingHyperplaneTerms(c *model.Constraint, point []float64) (coeffs map[int]float64, rhs float64) {
	grad := c.Gradient(point)
	value := c.Value(point)
	constantOffset := value - c.RHS
	for idx, g := range grad {
		constantOffset -= g * point[idx]
	}
	// g(p) + grad.(x-p) <= RHS  <=>  grad.x <= RHS - g(p) + grad.p
	rhs = -constantOffset
	return grad, rhs
}
