// Package primal implements the primal heuristic layer (spec.md §4.5):
// fixed-integer NLP subproblems, root-search primal extraction, a genetic
// heuristic for pure-binary patterns, and a bounded candidate pool.
package primal

import (
	"math"

	"gopkg.in/dnaeon/go-priorityqueue.v1"

	"shotgo/internal/model"
)

// Candidate is one accepted primal point (spec.md §3 "Solution point").
type Candidate struct {
	Point            []float64
	Objective        float64
	Iteration        int
	MostDeviatingIdx int
	MostDeviatingVal float64
	Relaxed          bool
}

// Pool is the bounded, objective-and-age-ordered primal candidate pool
// (spec.md §4.5 "Primal pool"). Eviction order mirrors the teacher's
// greedyRepair use of gopkg.in/dnaeon/go-priorityqueue.v1 as a min-heap keyed
// by a derived cost, here keyed by (worse primal)+(older iteration).
type Pool struct {
	sense    model.Sense
	capacity int
	best     *Candidate

	items map[int]Candidate // keyed by a monotonically increasing slot id
	pq    priorityqueue.PriorityQueue[int, float64]
	next  int
}

// NewPool builds an empty pool bounded to capacity entries.
func NewPool(sense model.Sense, capacity int) *Pool {
	return &Pool{
		sense:    sense,
		capacity: capacity,
		items:    make(map[int]Candidate),
		pq:       priorityqueue.New[int, float64](priorityqueue.MinHeap),
	}
}

// Best returns the best-known candidate, or nil if the pool is empty.
func (p *Pool) Best() *Candidate { return p.best }

// Add inserts c, evicting the worst entry if the pool is at capacity
// (spec.md §3: "older points evicted by (worse primal)+(older iteration)").
// It reports whether c is an improvement over the running best.
func (p *Pool) Add(c Candidate) bool {
	id := p.next
	p.next++
	p.items[id] = c
	p.pq.Put(id, p.evictionScore(c))

	if p.capacity > 0 {
		for len(p.items) > p.capacity {
			item := p.pq.Get()
			delete(p.items, item.Value)
		}
	}

	improved := p.best == nil || p.improves(c.Objective, p.best.Objective)
	if improved {
		cc := c
		p.best = &cc
	}
	return improved
}

// evictionScore ranks c for eviction: the pool's priority queue is a
// min-heap, so the candidate that should be evicted first (worse objective,
// older iteration) must get the lowest score.
func (p *Pool) evictionScore(c Candidate) float64 {
	objScore := c.Objective
	if p.sense == model.Minimize {
		objScore = -objScore
	}
	return objScore + float64(c.Iteration)*1e-6
}

func (p *Pool) improves(candidate, running float64) bool {
	if p.sense == model.Minimize {
		return candidate < running
	}
	return candidate > running
}

// IsFeasible checks a candidate against the original problem's constraints
// and bounds within tolerance (spec.md §4.5 "Primal pool" acceptance rule):
// bounds, linear constraints (unless trustLinear), integrality, and
// nonlinear constraints.
func IsFeasible(p *model.Problem, point []float64, tol float64, trustLinear bool) bool {
	for i := 0; i < p.NumVariables(); i++ {
		v := p.Variable(i)
		if point[i] < v.Lower-tol || point[i] > v.Upper+tol {
			return false
		}
		if v.Type.IsDiscrete() && math.Abs(point[i]-math.Round(point[i])) > tol {
			return false
		}
	}
	for i := 0; i < p.NumConstraints(); i++ {
		c := p.Constraint(i)
		if trustLinear && !c.HasQuadratic() && !c.HasNonlinear() && !c.HasMonomialOrSignomial() {
			continue
		}
		if c.NormalizedDeviation(point) > tol {
			return false
		}
	}
	return true
}
