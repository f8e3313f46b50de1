package reform

import (
	"strconv"

	"shotgo/internal/model"
)

// partitionQuadratic implements spec.md §4.2 point 3 for the quadratic
// additive group: each individually-convex diagonal term g_k(x)=c_k*x_k^2
// becomes an auxiliary w_k >= g_k(x), and the original constraint's
// quadratic group is replaced by a linear aggregator sum(w_k). Off-diagonal
// (Nonconvex) terms are left untouched — they aren't separable this way and
// are still routed through the quadratic policy or bilinear substitution.
func (r *reformulator) partitionQuadratic(name string, quads []model.QuadraticTerm, linear []model.LinearTerm) ([]model.LinearTerm, []model.QuadraticTerm) {
	var keep []model.QuadraticTerm
	for k, q := range quads {
		if !q.IsSquare() || q.Coefficient < 0 {
			keep = append(keep, q)
			continue
		}
		suffix := strconv.Itoa(k)
		w := r.b.AddVariable(name+"_part"+suffix, model.Auxiliary, negInf(), posInf())
		r.aux = append(r.aux, AuxiliaryVariable{
			Index: w.Index, Kind: "partition", Defines: w.Name + " >= quadratic term of " + name,
		})
		epi := r.b.AddConstraint(name+"_part"+suffix+"_epi", negInf(), 0)
		epi.Quadratic = []model.QuadraticTerm{q}
		epi.Linear = []model.LinearTerm{{Coefficient: -1, Var: w.Index}}
		linear = append(linear, model.LinearTerm{Coefficient: 1, Var: w.Index})
	}
	return linear, keep
}

// foldQuadraticIntoExpr converts the remaining quadratic terms into
// expression-tree nodes and adds them to nonlinear (spec.md §4.2 point 5,
// QuadraticAsNonlinear policy), so the dual engine's hyperplane generator
// handles them like any other nonlinearity instead of the master's QP path.
func foldQuadraticIntoExpr(quads []model.QuadraticTerm, nonlinear *model.Expr) *model.Expr {
	expr := nonlinear
	for _, q := range quads {
		term := model.MulExpr(
			model.ConstExpr(q.Coefficient),
			model.MulExpr(model.VarExpr(q.VarA), model.VarExpr(q.VarB)),
		)
		if expr == nil {
			expr = term
		} else {
			expr = model.AddExpr(expr, term)
		}
	}
	return expr
}
