package reform

import "shotgo/internal/model"

func cloneLinear(ts []model.LinearTerm) []model.LinearTerm {
	out := make([]model.LinearTerm, len(ts))
	copy(out, ts)
	return out
}

func negateLinear(ts []model.LinearTerm) []model.LinearTerm {
	out := make([]model.LinearTerm, len(ts))
	for i, t := range ts {
		out[i] = model.LinearTerm{Coefficient: -t.Coefficient, Var: t.Var}
	}
	return out
}

func negateQuadratic(ts []model.QuadraticTerm) []model.QuadraticTerm {
	if ts == nil {
		return nil
	}
	out := make([]model.QuadraticTerm, len(ts))
	for i, t := range ts {
		out[i] = model.QuadraticTerm{Coefficient: -t.Coefficient, VarA: t.VarA, VarB: t.VarB}
	}
	return out
}

func negateMonomial(ts []model.MonomialTerm) []model.MonomialTerm {
	if ts == nil {
		return nil
	}
	out := make([]model.MonomialTerm, len(ts))
	for i, t := range ts {
		out[i] = model.MonomialTerm{Coefficient: -t.Coefficient, Vars: t.Vars}
	}
	return out
}

func negateSignomial(ts []model.SignomialTerm) []model.SignomialTerm {
	if ts == nil {
		return nil
	}
	out := make([]model.SignomialTerm, len(ts))
	for i, t := range ts {
		out[i] = model.SignomialTerm{Coefficient: -t.Coefficient, Elements: t.Elements}
	}
	return out
}

func negateExpr(e *model.Expr) *model.Expr {
	if e == nil {
		return nil
	}
	return model.NegExpr(e)
}
