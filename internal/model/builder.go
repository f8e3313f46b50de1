package model

// Builder is the abstract problem-input API of spec.md §6: concrete
// input formats are external parsers that drive this same surface
// (AddVariable, AddConstraint, SetObjective, Finalize). Problem itself
// already exposes these operations; Builder exists as the named seam a
// parser programs against, and to centralize the Finalize-time validation
// and view rebuild the parser should not have to know about.
type Builder struct {
	problem *Problem
}

// NewBuilder starts building a fresh, empty problem.
func NewBuilder(name string) *Builder {
	return &Builder{problem: NewProblem(name)}
}

func (b *Builder) AddVariable(name string, typ VariableType, lower, upper float64) *Variable {
	return b.problem.AddVariable(name, typ, lower, upper)
}

func (b *Builder) AddConstraint(name string, lhs, rhs float64) *Constraint {
	return b.problem.AddConstraint(name, lhs, rhs)
}

func (b *Builder) SetObjective(obj *Objective) {
	b.problem.SetObjective(obj)
}

// Finalize validates the accumulated model (spec.md §7 "Model error"),
// rebuilds the derived views, and returns the finished Problem. An error
// here is always an errs.ModelError at the caller.
func (b *Builder) Finalize() (*Problem, error) {
	if err := b.problem.Validate(); err != nil {
		return nil, err
	}
	b.problem.RebuildViews()
	return b.problem, nil
}
