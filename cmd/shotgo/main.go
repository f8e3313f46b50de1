// Command shotgo is the reference CLI for the solver (spec.md §6): it reads
// a flat problem file, applies any -opt overrides, runs the task scheduler,
// and prints the structured Results. Mirrors the teacher's own
// scpcs_solve.go front door (flag.Func for repeatable options, one solve
// call per path, errors reported to stderr without aborting the batch).
package main

import (
	"fmt"
	"os"

	"shotgo/internal/env"
	"shotgo/internal/errs"
	"shotgo/internal/input"
	"shotgo/internal/options"
	"shotgo/internal/report"
	"shotgo/internal/task"
)

const (
	exitSolved         = 0
	exitModelError     = 1
	exitSubsolverError = 2
	exitOther          = 3
)

func main() {
	args := os.Args[1:]

	opts, paths, err := options.FromFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitModelError)
	}

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Must specify a problem file path")
		os.Exit(exitModelError)
	}

	exitCode := exitSolved
	for _, path := range paths {
		code := solveOne(path, opts)
		if code != exitSolved {
			exitCode = code
		}
	}
	os.Exit(exitCode)
}

func solveOne(path string, opts *options.Set) int {
	fmt.Printf("Solving %v...\n", path)

	problem, err := input.ReadFlatFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", path, err)
		return exitModelError
	}

	environment := env.New(opts)
	results, err := task.Run(problem, environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error solving %q: %v\n", path, err)
		if kind, ok := errs.KindOf(err); ok && kind == errs.ModelError {
			return exitModelError
		}
		return exitSubsolverError
	}

	report.Print(os.Stdout, results)
	fmt.Println()

	switch results.Status {
	case "AbsoluteGap", "RelativeGap", "AcceptableGap":
		return exitSolved
	case "MasterError":
		return exitSubsolverError
	default:
		return exitOther
	}
}
