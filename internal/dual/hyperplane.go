package dual

import (
	"crypto/sha1"
	"encoding/binary"
	"math"

	"shotgo/internal/options"
)

// AddHyperplanes implements the AddHyperplanes task (spec.md §4.6): for the
// candidate point, select the violated nonlinear constraints per policy,
// build one supporting (ESH) or cutting (ECP) hyperplane per constraint,
// dedup against what has already been added, and push onto the master
// (as a lazy cut when lazy is set, otherwise as a linear constraint). Every
// hyperplane added is also recorded on the waiting list.
func (e *Engine) AddHyperplanes(point []float64, lazy bool) int {
	opts := e.Env.Options
	selected := e.selectViolatedConstraints(point, opts)
	if len(selected) == 0 {
		return 0
	}

	strategy := opts.GetString("Dual.CutStrategy", string(options.CutStrategyESH))
	added := 0
	for _, c := range selected {
		genPoint := point
		if strategy == string(options.CutStrategyESH) && len(e.InteriorPoints) > 0 {
			tol := opts.GetFloat("Dual.ESH.Rootsearch.ConstraintTolerance", 1e-8)
			z := e.InteriorPoints[len(e.InteriorPoints)-1].Point
			genPoint = e.rootSearch(z, point, tol, 32)
		}

		key := hpKey{constraintIndex: c.Index, pointHash: hashPoint(genPoint)}
		if e.seen[key] {
			continue
		}
		e.seen[key] = true

		coeffs, rhs := supportingHyperplaneTerms(c, genPoint)
		if lazy {
			e.Master.AddLazyCut(coeffs, rhs)
		} else {
			e.Master.AddLinearConstraint(coeffs, rhs, "hp")
		}
		e.waitingList = append(e.waitingList, Hyperplane{
			ConstraintIndex: c.Index,
			Point:           genPoint,
			Iteration:       e.iteration,
			Lazy:            lazy,
		})
		added++
	}
	return added
}

func hashPoint(p []float64) string {
	h := sha1.New()
	buf := make([]byte, 8)
	for _, v := range p {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(roundTo(v, 1e-6)))
		h.Write(buf)
	}
	return string(h.Sum(nil))
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}
