package dual

import (
	"shotgo/internal/mip"
	"shotgo/internal/model"
)

// BuildMaster populates master with p's variables, the linear and quadratic
// terms of the objective, and every constraint whose body is already linear (spec.md
// §4.3 "Dual problem"). Nonlinear and quadratic constraint bodies are left
// out here: they are supported by hyperplanes added during the main loop,
// not by a static row.
func BuildMaster(master mip.Master, p *model.Problem) error {
	for i := 0; i < p.NumVariables(); i++ {
		v := p.Variable(i)
		if col := master.AddVariable(v.Name, v.Type, v.Lower, v.Upper); col != i {
			return modelIndexMismatchError(v.Name)
		}
	}

	obj := p.Objective()
	master.InitializeObjective()
	for _, t := range obj.Body.Linear {
		master.AddObjectiveLinearTerm(t.Var, t.Coefficient)
	}
	for _, t := range obj.Body.Quadratic {
		master.AddObjectiveQuadraticTerm(t.VarA, t.VarB, t.Coefficient)
	}
	master.FinalizeObjective(obj.Sense)

	for i := 0; i < p.NumConstraints(); i++ {
		c := p.Constraint(i)
		if c.HasQuadratic() || c.HasNonlinear() || c.HasMonomialOrSignomial() {
			continue
		}
		master.InitializeConstraint()
		for _, t := range c.Linear {
			master.AddConstraintLinearTerm(t.Var, t.Coefficient)
		}
		master.FinalizeConstraint(c.Name, c.LHS, c.RHS-c.Constant)
	}

	return master.FinalizeProblem()
}

type modelIndexMismatch struct{ name string }

func (e *modelIndexMismatch) Error() string {
	return "dual: master assigned a column index out of sync with model variable " + e.name
}

func modelIndexMismatchError(name string) error {
	return &modelIndexMismatch{name: name}
}
