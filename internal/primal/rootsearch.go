package primal

import (
	"gonum.org/v1/gonum/floats"

	"shotgo/internal/model"
)

// RootSearchCandidate implements the root-search primal search (spec.md
// §4.5): along the segment from the current incumbent to a new MIP
// solution point, perform a 1-D feasibility root search; any strictly
// feasible intermediate point becomes a primal candidate.
func RootSearchCandidate(p *model.Problem, incumbent, mipPoint []float64, tol float64, maxIter int) ([]float64, bool) {
	if maxViolation(p, incumbent) > tol {
		return nil, false
	}
	if maxViolation(p, mipPoint) <= tol {
		return mipPoint, true
	}

	lo, hi := 0.0, 1.0
	best := segmentPoint(incumbent, mipPoint, lo)
	for i := 0; i < maxIter; i++ {
		mid := (lo + hi) / 2
		point := segmentPoint(incumbent, mipPoint, mid)
		if maxViolation(p, point) <= tol {
			lo = mid
			best = point
		} else {
			hi = mid
		}
	}
	return best, true
}

func segmentPoint(z, p []float64, lambda float64) []float64 {
	diff := make([]float64, len(z))
	floats.SubTo(diff, p, z)
	out := make([]float64, len(z))
	return floats.AddScaledTo(out, z, lambda, diff)
}

func maxViolation(p *model.Problem, point []float64) float64 {
	worst := 0.0
	found := false
	for i := 0; i < p.NumConstraints(); i++ {
		c := p.Constraint(i)
		if !c.HasQuadratic() && !c.HasNonlinear() && !c.HasMonomialOrSignomial() {
			continue
		}
		if dev := c.NormalizedDeviation(point); !found || dev > worst {
			worst, found = dev, true
		}
	}
	return worst
}
