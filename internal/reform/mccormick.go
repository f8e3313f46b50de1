package reform

import "shotgo/internal/model"

// substituteBilinear replaces every off-diagonal quadratic term x_i*x_j in
// quads with a linear reference to a memoized auxiliary w_{ij} (spec.md §4.2
// point 4), appending w_{ij}'s coefficient*term to linear and, the first
// time the pair is seen, adding the McCormick envelope rows. Diagonal
// (square) terms pass through unchanged: a square is handled by the
// quadratic policy, not by bilinear substitution.
func (r *reformulator) substituteBilinear(quads []model.QuadraticTerm, linear *[]model.LinearTerm) []model.QuadraticTerm {
	var remaining []model.QuadraticTerm
	for _, q := range quads {
		if q.IsSquare() {
			remaining = append(remaining, q)
			continue
		}
		w := r.bilinearVariable(q.VarA, q.VarB)
		*linear = append(*linear, model.LinearTerm{Coefficient: q.Coefficient, Var: w})
	}
	return remaining
}

// bilinearVariable returns the auxiliary variable for the unordered pair
// {a,b}, creating it (and its envelope rows) on first use.
func (r *reformulator) bilinearVariable(a, b int) int {
	key := pairKey(a, b)
	if w, ok := r.bilinearAux[key]; ok {
		return w
	}

	va, vb := r.src.Variable(a), r.src.Variable(b)
	lo, hi := boundsForProduct(va, vb)
	w := r.b.AddVariable(va.Name+"_x_"+vb.Name, model.Auxiliary, lo, hi)
	r.bilinearAux[key] = w.Index
	r.aux = append(r.aux, AuxiliaryVariable{
		Index: w.Index, Kind: "bilinear", Defines: w.Name + " = " + va.Name + " * " + vb.Name,
	})

	switch {
	case va.Type == model.Binary && vb.Type == model.Binary:
		r.addBinaryBinaryEnvelope(w.Index, a, b)
	case va.Type == model.Binary:
		r.addBinaryContinuousEnvelope(w.Index, a, b)
	case vb.Type == model.Binary:
		r.addBinaryContinuousEnvelope(w.Index, b, a)
	default:
		r.addMcCormickEnvelope(w.Index, a, b, va, vb)
	}
	return w.Index
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func boundsForProduct(a, b *model.Variable) (lo, hi float64) {
	iv := a.Interval().Mul(b.Interval())
	return iv.Lo, iv.Hi
}

// addMcCormickEnvelope adds the four classic McCormick inequalities for
// w = x*y over box bounds (spec.md §4.2 point 4).
func (r *reformulator) addMcCormickEnvelope(w, xi, yi int, x, y *model.Variable) {
	xl, xu, yl, yu := x.Lower, x.Upper, y.Lower, y.Upper

	// w >= xL*y + xu... (underestimators)
	r.addRow("mccormick_under1", w, xi, yi, -1, yl, xl, -xl*yl, negInf(), 0)
	r.addRow("mccormick_under2", w, xi, yi, -1, yu, xu, -xu*yu, negInf(), 0)
	// w <= ... (overestimators), i.e. -w + ... >= 0  <=>  flip sign for <= form
	r.addRow("mccormick_over1", w, xi, yi, 1, -yl, -xu, xu*yl, negInf(), 0)
	r.addRow("mccormick_over2", w, xi, yi, 1, -yu, -xl, xl*yu, negInf(), 0)
}

// addRow emits coeffW*w + coeffX*x + coeffY*y + constant <= rhs (rhs is
// usually 0; lhs is always -inf, matching the canonical one-sided form).
func (r *reformulator) addRow(name string, w, xi, yi int, coeffW, coeffX, coeffY, constant, lhs, rhs float64) {
	c := r.b.AddConstraint(name, lhs, rhs)
	c.Constant = constant
	c.Linear = []model.LinearTerm{
		{Coefficient: coeffW, Var: w},
		{Coefficient: coeffX, Var: xi},
		{Coefficient: coeffY, Var: yi},
	}
}

// addBinaryContinuousEnvelope linearizes w = b*y for binary b, continuous y
// (spec.md §4.2 point 4): w<=yU*b, w>=yL*b, w<=y-yL*(1-b), w>=y-yU*(1-b).
func (r *reformulator) addBinaryContinuousEnvelope(w, bIdx, yIdx int) {
	y := r.src.Variable(yIdx)
	yl, yu := y.Lower, y.Upper

	// w - yU*b <= 0
	r.addRow("mccormick_bin_up", w, bIdx, yIdx, 1, -yu, 0, 0, negInf(), 0)
	// -w + yL*b <= 0
	r.addRow("mccormick_bin_lo", w, bIdx, yIdx, -1, yl, 0, 0, negInf(), 0)
	// w - y + yL - yL*b <= 0  =>  w - y - yL*b <= -yL
	r.addRow("mccormick_bin_up2", w, bIdx, yIdx, 1, -yl, -1, 0, negInf(), -yl)
	// -w + y - yU + yU*b <= 0  => -w + y + yU*b <= yU
	r.addRow("mccormick_bin_lo2", w, bIdx, yIdx, -1, yu, 1, 0, negInf(), yu)
}

// addBinaryBinaryEnvelope linearizes w = b1 AND b2 (spec.md §4.2 point 4):
// w<=b1, w<=b2, w>=b1+b2-1.
func (r *reformulator) addBinaryBinaryEnvelope(w, aIdx, bIdx int) {
	r.addRow("and_up1", w, aIdx, bIdx, 1, -1, 0, 0, negInf(), 0)
	r.addRow("and_up2", w, aIdx, bIdx, 1, 0, -1, 0, negInf(), 0)
	r.addRow("and_lo", w, aIdx, bIdx, -1, 1, 1, 0, negInf(), 1)
}
