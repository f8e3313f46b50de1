package primal

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"shotgo/internal/model"
)

// PatternMemo records which fixed-integer binary patterns the fixed-NLP
// heuristic has already tried, so AddIntegerCuts and the heuristic dispatcher
// never repeat work on a pattern known to be infeasible or already solved.
// Grounded on the teacher's mapset.Set[int32] membership sets
// (src/scpcs/instance.go's Subset.Set) — reused here for pattern-string
// membership instead of element membership.
type PatternMemo struct {
	seen mapset.Set[string]
}

// NewPatternMemo builds an empty memo.
func NewPatternMemo() *PatternMemo {
	return &PatternMemo{seen: mapset.NewSet[string]()}
}

// BinaryPattern encodes the current binary-variable assignment of point as a
// stable key.
func BinaryPattern(p *model.Problem, point []float64) string {
	var b strings.Builder
	for i := 0; i < p.NumVariables(); i++ {
		if p.Variable(i).Type != model.Binary {
			continue
		}
		if point[i] > 0.5 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Seen reports whether pattern has already been tried, recording it as seen
// either way.
func (m *PatternMemo) Seen(pattern string) bool {
	if m.seen.Contains(pattern) {
		return true
	}
	m.seen.Add(pattern)
	return false
}

// Count returns the number of distinct patterns recorded.
func (m *PatternMemo) Count() int { return m.seen.Cardinality() }

// OnesAndZeroes splits the binary variables of point by value, returning
// index lists suitable for mip.Master.CreateIntegerCut.
func OnesAndZeroes(p *model.Problem, point []float64) (ones, zeroes []int) {
	for i := 0; i < p.NumVariables(); i++ {
		if p.Variable(i).Type != model.Binary {
			continue
		}
		if point[i] > 0.5 {
			ones = append(ones, i)
		} else {
			zeroes = append(zeroes, i)
		}
	}
	return ones, zeroes
}
