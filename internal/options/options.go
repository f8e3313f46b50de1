// Package options implements the flat "Category.Name" key-value setting
// registry described in spec.md §6. Settings are stored untyped and read
// back through typed getters with defaults, the way a solver's option table
// is consulted throughout the engine rather than threaded as named
// parameters everywhere.
package options

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Recognized top-level categories (spec.md §6).
const (
	CategoryDual        = "Dual"
	CategoryPrimal      = "Primal"
	CategorySubsolver   = "Subsolver"
	CategoryModel       = "Model"
	CategoryTermination = "Termination"
	CategoryOutput      = "Output"
	CategoryInput       = "Input"
	CategoryConvexity   = "Convexity"
)

// CutStrategy selects how hyperplanes are generated (spec.md §4.4).
type CutStrategy string

const (
	CutStrategyESH  CutStrategy = "ESH"
	CutStrategyECP  CutStrategy = "ECP"
	CutStrategyPECP CutStrategy = "PECP"
)

// TreeStrategy selects multi-tree vs. single-tree master coordination
// (spec.md §4.3).
type TreeStrategy string

const (
	TreeStrategySingleTree TreeStrategy = "SingleTree"
	TreeStrategyMultiTree  TreeStrategy = "MultiTree"
)

// MIPSolver names one of the three master adapters (spec.md §6: MIP.Solver).
type MIPSolver string

const (
	MIPSolverHiGHS MIPSolver = "A" // github.com/lanl/highs
	MIPSolverGoLP  MIPSolver = "B" // github.com/draffensperger/golp
	MIPSolverGLPK  MIPSolver = "C" // github.com/lukpank/go-glpk/glpk
)

// InteriorPointSolver selects the interior-point strategy (spec.md §4.4).
type InteriorPointSolver string

const (
	InteriorPointCuttingPlaneMiniMax InteriorPointSolver = "CuttingPlaneMiniMax"
	InteriorPointExternalNLP         InteriorPointSolver = "ExternalNLP"
)

// Set is a flat, category-qualified key-value store. Values are stored as
// the concrete types callers put in; typed getters perform a best-effort
// conversion (e.g. an int stored where a float64 is requested) and fall back
// to the supplied default when the key is absent or of the wrong shape.
type Set struct {
	values map[string]any
}

// New returns an empty option set pre-populated with the defaults listed in
// spec.md §6.
func New() *Set {
	s := &Set{values: make(map[string]any)}
	s.applyDefaults()
	return s
}

func (s *Set) applyDefaults() {
	defaults := map[string]any{
		"Dual.CutStrategy":                                     string(CutStrategyESH),
		"Dual.TreeStrategy":                                    string(TreeStrategyMultiTree),
		"Subsolver.MIP.Solver":                                 string(MIPSolverHiGHS),
		"Dual.ESH.InteriorPoint.Solver":                         string(InteriorPointCuttingPlaneMiniMax),
		"Dual.ESH.Rootsearch.ConstraintTolerance":               1e-8,
		"Dual.HyperplaneCuts.MaxPerIteration":                   200,
		"Dual.HyperplaneCuts.ConstraintSelectionFactor":         1.0,
		"Dual.HyperplaneCuts.MaxConstraintFactor":                0.0,
		"Dual.HyperplaneCuts.UseIntegerCuts":                    true,
		"Primal.FixedInteger.Frequency.Iteration":               1,
		"Primal.FixedInteger.Frequency.Time":                    0.0,
		"Primal.FixedInteger.Frequency.Dynamic":                 true,
		"Dual.Relaxation.MaxLazyConstraints":                    50,
		"Subsolver.MIP.CutOff.Tolerance":                        1e-5,
		"Termination.ObjectiveGap.Absolute":                     1e-6,
		"Termination.ObjectiveGap.Relative":                     1e-3,
		"Termination.TimeLimit":                                 900.0,
		"Termination.IterationLimit":                            1000,
		"Model.AssumeConvex":                                    false,
		"Model.BoundTightening.FeasibilityBased.Use":            true,
		"Model.BoundTightening.FeasibilityBased.UseNonlinear":   true,
		"Model.BoundTightening.FeasibilityBased.MaxIterations":  20,
		"Dual.InfeasibilityRepair.IterationLimit":               2,
		"Dual.Stagnation.IterationLimit":                        50,
		"Output.Verbose":                                        false,
	}
	for k, v := range defaults {
		s.values[k] = v
	}
}

// Set assigns a value under "Category.Name". Panics if name does not contain
// a category separator — this is a programmer error, not a runtime one.
func (s *Set) Set(name string, value any) {
	if !strings.Contains(name, ".") {
		panic(fmt.Sprintf("options: key %q is not of the form Category.Name", name))
	}
	s.values[name] = value
}

func (s *Set) GetBool(name string, def bool) bool {
	if v, ok := s.values[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func (s *Set) GetInt(name string, def int) int {
	switch v := s.values[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func (s *Set) GetFloat(name string, def float64) float64 {
	switch v := s.values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func (s *Set) GetString(name string, def string) string {
	if v, ok := s.values[name]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

// FromFlags builds a default Set, overrides it from a repeated -opt
// "Category.Name=value" flag, and returns the non-flag arguments left over
// (e.g. problem file paths) — the teacher's scpcs_solve.go likewise defines
// one flag.Func per concern rather than reaching for a config-file library.
// args is the program's argument list excluding argv[0].
func FromFlags(args []string) (set *Set, remaining []string, err error) {
	set = New()

	fs := flag.NewFlagSet("shotgo", flag.ContinueOnError)
	var raw []string
	fs.Func("opt", `override an option, "Category.Name=value" (repeatable)`, func(v string) error {
		raw = append(raw, v)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, nil, fmt.Errorf("options: malformed -opt %q, want Category.Name=value", kv)
		}
		if err := set.ParseInto(name, value); err != nil {
			return nil, nil, err
		}
	}
	return set, fs.Args(), nil
}

// ParseInto sets name to value after converting value (as read from a CLI
// flag or config line) to the type already stored for name, if any. Unknown
// keys are stored as strings.
func (s *Set) ParseInto(name, value string) error {
	switch s.values[name].(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("options: parsing bool for %q: %w", name, err)
		}
		s.values[name] = b
	case int:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("options: parsing int for %q: %w", name, err)
		}
		s.values[name] = i
	case float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("options: parsing float for %q: %w", name, err)
		}
		s.values[name] = f
	default:
		s.values[name] = value
	}
	return nil
}
