package primal

import (
	"math"
	"math/rand"
	"runtime"

	"github.com/tomcraven/goga"

	"shotgo/internal/model"
)

// GeneticHeuristic runs a binary-pattern genetic search over the problem's
// binary variables, holding every non-binary variable fixed at fixedPoint
// (spec.md §4.5 names the fixed-NLP and root-search heuristics; this is an
// additional pool-seeding heuristic adapted from the teacher's own
// geneticHeuristic in src/scpcs/genetic.go, restricted to pure-binary
// patterns since goga's Bitset genome has no notion of a continuous gene).
// objective(point) and feasible(point) let the caller plug in the original
// problem's objective/constraint evaluation without this package depending
// on the master or dual engine.
type evalFuncs struct {
	objective func(point []float64) float64
	feasible  func(point []float64) bool
}

type geneticSimulator struct {
	funcs      evalFuncs
	fixedPoint []float64
	binaryIdx  []int
	sense      model.Sense
}

func (s *geneticSimulator) OnBeginSimulation() {}
func (s *geneticSimulator) OnEndSimulation()   {}

func (s *geneticSimulator) pointFromBits(g goga.Genome) []float64 {
	point := make([]float64, len(s.fixedPoint))
	copy(point, s.fixedPoint)
	bits := g.GetBits().GetAll()
	for k, idx := range s.binaryIdx {
		point[idx] = float64(bits[k])
	}
	return point
}

func (s *geneticSimulator) Simulate(g goga.Genome) {
	point := s.pointFromBits(g)
	if !s.funcs.feasible(point) {
		g.SetFitness(math.MinInt)
		return
	}
	obj := s.funcs.objective(point)
	if s.sense == model.Maximize {
		g.SetFitness(int(obj))
	} else {
		g.SetFitness(-int(obj))
	}
}

func (s *geneticSimulator) ExitFunc(g goga.Genome) bool { return true }

type geneticBitsetCreate struct {
	n int
}

func (bc *geneticBitsetCreate) Go() goga.Bitset {
	b := goga.Bitset{}
	b.Create(bc.n)
	for i := 0; i < bc.n; i++ {
		b.Set(i, rand.Intn(2))
	}
	return b
}

type geneticEliteConsumer struct {
	best     goga.Genome
	feasible func([]float64) bool
	toPoint  func(goga.Genome) []float64
}

func (ec *geneticEliteConsumer) OnElite(g goga.Genome) {
	if (ec.best == nil || ec.best.GetFitness() < g.GetFitness()) && ec.feasible(ec.toPoint(g)) {
		ec.best = g
	}
}

const geneticPopulationSize = 200
const geneticStagnationRounds = 200

// GeneticHeuristic searches the binary variables of p for a feasible,
// objective-improving assignment, holding all other coordinates fixed at
// fixedPoint. Returns (point, true) on success.
func GeneticHeuristic(p *model.Problem, fixedPoint []float64, objective func([]float64) float64, feasible func([]float64) bool) ([]float64, bool) {
	var binaryIdx []int
	for i := 0; i < p.NumVariables(); i++ {
		if p.Variable(i).Type == model.Binary {
			binaryIdx = append(binaryIdx, i)
		}
	}
	if len(binaryIdx) == 0 {
		return nil, false
	}

	sim := &geneticSimulator{
		funcs:      evalFuncs{objective: objective, feasible: feasible},
		fixedPoint: fixedPoint,
		binaryIdx:  binaryIdx,
		sense:      p.Objective().Sense,
	}

	elite := &geneticEliteConsumer{
		feasible: feasible,
		toPoint:  sim.pointFromBits,
	}

	genAlgo := goga.NewGeneticAlgorithm()
	genAlgo.Simulator = sim
	genAlgo.BitsetCreate = &geneticBitsetCreate{n: len(binaryIdx)}
	genAlgo.EliteConsumer = elite
	genAlgo.Mater = goga.NewMater(
		[]goga.MaterFunctionProbability{
			{P: 0.9, F: goga.TwoPointCrossover, UseElite: true},
			{P: 0.9, F: goga.TwoPointCrossover},
			{P: 0.9, F: goga.UniformCrossover},
		},
	)
	genAlgo.Selector = goga.NewSelector(
		[]goga.SelectorFunctionProbability{
			{P: 0.9, F: goga.Roulette},
		},
	)
	genAlgo.Init(geneticPopulationSize, runtime.NumCPU())

	noImprove := 0
	lastFitness := math.MinInt
	genAlgo.SimulateUntil(func(g goga.Genome) bool {
		if g.GetFitness() == math.MinInt {
			return false
		}
		if g.GetFitness() == lastFitness {
			noImprove++
		} else {
			noImprove = 0
			lastFitness = g.GetFitness()
		}
		return noImprove == geneticStagnationRounds
	})

	if elite.best == nil {
		return nil, false
	}
	return sim.pointFromBits(elite.best), true
}
