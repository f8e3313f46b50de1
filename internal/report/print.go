package report

import (
	"fmt"
	"io"
)

// PrintIterationReport implements the PrintIterationReport task (spec.md
// §4.6), mirroring the teacher's own bare fmt.Println progress lines
// (branch_and_bound.go's "Current UB: ..." prints) but through an injectable
// writer instead of bare stdout.
func PrintIterationReport(w io.Writer, s IterationStat) {
	fmt.Fprintf(w, "iter %d: status=%s primal=%g dual=%g cuts=%d maxdev=%g nodes=%d elapsed=%s\n",
		s.Iteration, s.Status, s.PrimalBound, s.DualBound, s.CutsAdded, s.MaxDeviation, s.OpenNodes, s.Elapsed)
}

// Print writes a final summary of r to w.
func Print(w io.Writer, r *Results) {
	fmt.Fprintf(w, "termination: %s\n", r.TerminationReason)
	if r.HavePrimal {
		fmt.Fprintf(w, "primal bound: %g\n", r.PrimalBound)
		fmt.Fprintf(w, "dual bound: %g\n", r.DualBound)
		fmt.Fprintf(w, "absolute gap: %g\n", r.AbsGap())
		fmt.Fprintf(w, "relative gap: %g\n", r.RelGap())
		fmt.Fprintf(w, "solution: %v\n", r.PrimalSolution)
	} else {
		fmt.Fprintf(w, "dual bound: %g\n", r.DualBound)
		fmt.Fprintln(w, "no feasible primal solution found")
	}
	fmt.Fprintf(w, "iterations: %d\n", len(r.Iterations))
	fmt.Fprintf(w, "total time: %s\n", r.Timing.Total)
}
