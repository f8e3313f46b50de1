package mip

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// rowFingerprints dedups AddLinearConstraint calls the way the dual engine's
// hyperplane fingerprinting does (spec.md §4.4): same coefficients and RHS,
// rounded, never produce two master rows.
type rowFingerprints struct {
	seen map[string]int
}

func newRowFingerprints() rowFingerprints {
	return rowFingerprints{seen: make(map[string]int)}
}

func (r *rowFingerprints) fingerprint(coeffs map[int]float64, rhs float64) string {
	cols := make([]int, 0, len(coeffs))
	for c := range coeffs {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	var b strings.Builder
	for _, c := range cols {
		fmt.Fprintf(&b, "%d:%.9g;", c, coeffs[c])
	}
	fmt.Fprintf(&b, "=%.9g", rhs)
	return b.String()
}

// register returns (existingRow, true) if this exact row was already added,
// otherwise records newRow under the fingerprint and returns (newRow, false).
func (r *rowFingerprints) register(coeffs map[int]float64, rhs float64, newRow int) (int, bool) {
	key := r.fingerprint(coeffs, rhs)
	if existing, ok := r.seen[key]; ok {
		return existing, true
	}
	r.seen[key] = newRow
	return newRow, false
}

// integerCutRow builds the no-good cut row for a fixed 0/1 pattern
// (spec.md §4.4): sum_{i in ones} x_i + sum_{i in zeroes} (1 - x_i) <= |ones|+|zeroes|-1.
func integerCutRow(onesIdx, zeroesIdx []int) (coeffs map[int]float64, rhs float64) {
	coeffs = make(map[int]float64, len(onesIdx)+len(zeroesIdx))
	for _, i := range onesIdx {
		coeffs[i] += 1
	}
	constant := 0.0
	for _, i := range zeroesIdx {
		coeffs[i] += -1
		constant += 1
	}
	rhs = float64(len(onesIdx)+len(zeroesIdx)-1) - constant
	return coeffs, rhs
}

func colName(col int) string {
	return "c" + strconv.Itoa(col)
}
