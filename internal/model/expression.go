package model

import "math"

// Op enumerates the nonlinear expression tree's node operators (spec.md
// §3: "+, -, *, /, pow, exp, log, sqrt, abs, trig, negate, constant,
// variable-ref").
type Op int

const (
	OpConst Op = iota
	OpVar
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow // Children[0] ^ Exponent (constant real exponent)
	OpExp
	OpLog
	OpSqrt
	OpAbs
	OpSin
	OpCos
	OpNeg
)

// Expr is an immutable recursive expression tree, shared by reference once
// built (spec.md §3). Reformulation never mutates a node in place; it
// produces new nodes/copies instead.
type Expr struct {
	Op       Op
	Children []*Expr
	Const    float64 // valid for OpConst
	VarIndex int     // valid for OpVar
	Exponent float64 // valid for OpPow
}

func ConstExpr(v float64) *Expr { return &Expr{Op: OpConst, Const: v} }
func VarExpr(idx int) *Expr     { return &Expr{Op: OpVar, VarIndex: idx} }

func AddExpr(a, b *Expr) *Expr  { return &Expr{Op: OpAdd, Children: []*Expr{a, b}} }
func SubExpr(a, b *Expr) *Expr  { return &Expr{Op: OpSub, Children: []*Expr{a, b}} }
func MulExpr(a, b *Expr) *Expr  { return &Expr{Op: OpMul, Children: []*Expr{a, b}} }
func DivExpr(a, b *Expr) *Expr  { return &Expr{Op: OpDiv, Children: []*Expr{a, b}} }
func PowExpr(a *Expr, p float64) *Expr {
	return &Expr{Op: OpPow, Children: []*Expr{a}, Exponent: p}
}
func ExpExpr(a *Expr) *Expr  { return &Expr{Op: OpExp, Children: []*Expr{a}} }
func LogExpr(a *Expr) *Expr  { return &Expr{Op: OpLog, Children: []*Expr{a}} }
func SqrtExpr(a *Expr) *Expr { return &Expr{Op: OpSqrt, Children: []*Expr{a}} }
func AbsExpr(a *Expr) *Expr  { return &Expr{Op: OpAbs, Children: []*Expr{a}} }
func SinExpr(a *Expr) *Expr  { return &Expr{Op: OpSin, Children: []*Expr{a}} }
func CosExpr(a *Expr) *Expr  { return &Expr{Op: OpCos, Children: []*Expr{a}} }
func NegExpr(a *Expr) *Expr  { return &Expr{Op: OpNeg, Children: []*Expr{a}} }

// Evaluate computes the node's value at x.
func (e *Expr) Evaluate(x []float64) float64 {
	switch e.Op {
	case OpConst:
		return e.Const
	case OpVar:
		return x[e.VarIndex]
	case OpAdd:
		return e.Children[0].Evaluate(x) + e.Children[1].Evaluate(x)
	case OpSub:
		return e.Children[0].Evaluate(x) - e.Children[1].Evaluate(x)
	case OpMul:
		return e.Children[0].Evaluate(x) * e.Children[1].Evaluate(x)
	case OpDiv:
		return e.Children[0].Evaluate(x) / e.Children[1].Evaluate(x)
	case OpPow:
		return math.Pow(e.Children[0].Evaluate(x), e.Exponent)
	case OpExp:
		return math.Exp(e.Children[0].Evaluate(x))
	case OpLog:
		return math.Log(e.Children[0].Evaluate(x))
	case OpSqrt:
		return math.Sqrt(e.Children[0].Evaluate(x))
	case OpAbs:
		return math.Abs(e.Children[0].Evaluate(x))
	case OpSin:
		return math.Sin(e.Children[0].Evaluate(x))
	case OpCos:
		return math.Cos(e.Children[0].Evaluate(x))
	case OpNeg:
		return -e.Children[0].Evaluate(x)
	}
	panic("model: unknown Op")
}

// IntervalEvaluate pushes interval bounds through the tree.
func (e *Expr) IntervalEvaluate(bounds []Interval) Interval {
	switch e.Op {
	case OpConst:
		return Point(e.Const)
	case OpVar:
		return bounds[e.VarIndex]
	case OpAdd:
		return e.Children[0].IntervalEvaluate(bounds).Add(e.Children[1].IntervalEvaluate(bounds))
	case OpSub:
		return e.Children[0].IntervalEvaluate(bounds).Sub(e.Children[1].IntervalEvaluate(bounds))
	case OpMul:
		return e.Children[0].IntervalEvaluate(bounds).Mul(e.Children[1].IntervalEvaluate(bounds))
	case OpDiv:
		return e.Children[0].IntervalEvaluate(bounds).Div(e.Children[1].IntervalEvaluate(bounds))
	case OpPow:
		return e.Children[0].IntervalEvaluate(bounds).Pow(e.Exponent)
	case OpExp:
		c := e.Children[0].IntervalEvaluate(bounds)
		return Interval{math.Exp(c.Lo), math.Exp(c.Hi)}
	case OpLog:
		c := e.Children[0].IntervalEvaluate(bounds)
		if c.Lo <= 0 {
			return Interval{math.Inf(-1), logOrInf(c.Hi)}
		}
		return Interval{math.Log(c.Lo), logOrInf(c.Hi)}
	case OpSqrt:
		return e.Children[0].IntervalEvaluate(bounds).Sqrt()
	case OpAbs:
		c := e.Children[0].IntervalEvaluate(bounds)
		if c.Lo >= 0 {
			return c
		}
		if c.Hi <= 0 {
			return c.Neg()
		}
		return Interval{0, math.Max(-c.Lo, c.Hi)}
	case OpSin:
		return Interval{-1, 1} // conservative: exact range-reduction not worth it here
	case OpCos:
		return Interval{-1, 1}
	case OpNeg:
		return e.Children[0].IntervalEvaluate(bounds).Neg()
	}
	panic("model: unknown Op")
}

func logOrInf(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return math.Log(v)
}

// Convexity computes the node's convexity bottom-up under the given
// interval context (spec.md §4.1), combining children with operator-
// specific rules.
func (e *Expr) Convexity(bounds []Interval) Convexity {
	switch e.Op {
	case OpConst:
		return Linear
	case OpVar:
		return Linear
	case OpAdd:
		return Combine(e.Children[0].Convexity(bounds), e.Children[1].Convexity(bounds))
	case OpSub:
		return Combine(e.Children[0].Convexity(bounds), e.Children[1].Convexity(bounds).Negate())
	case OpNeg:
		return e.Children[0].Convexity(bounds).Negate()
	case OpMul:
		return e.mulConvexity(bounds)
	case OpDiv:
		// Only classifiable when the denominator is a positive constant.
		if e.Children[1].Op == OpConst && e.Children[1].Const > 0 {
			return e.Children[0].Convexity(bounds)
		}
		return Unknown
	case OpPow:
		return e.powConvexity(bounds)
	case OpExp:
		child := e.Children[0].Convexity(bounds)
		if child == Linear || child == Convex {
			return Convex
		}
		return Unknown
	case OpLog:
		child := e.Children[0].Convexity(bounds)
		if child == Linear || child == Concave {
			return Concave
		}
		return Unknown
	case OpSqrt:
		child := e.Children[0].Convexity(bounds)
		if child == Linear || child == Concave {
			return Concave
		}
		return Unknown
	case OpAbs:
		child := e.Children[0].Convexity(bounds)
		if child == Linear {
			return Convex
		}
		return Unknown
	default:
		return Unknown
	}
}

func (e *Expr) mulConvexity(bounds []Interval) Convexity {
	l, r := e.Children[0], e.Children[1]
	// constant * expr
	if l.Op == OpConst {
		c := r.Convexity(bounds)
		if l.Const >= 0 {
			return Combine(Linear, c) // scale preserves shape; fall through via child
		}
		return r.Convexity(bounds).Negate()
	}
	if r.Op == OpConst {
		if r.Const >= 0 {
			return l.Convexity(bounds)
		}
		return l.Convexity(bounds).Negate()
	}
	return Unknown
}

func (e *Expr) powConvexity(bounds []Interval) Convexity {
	child := e.Children[0]
	cv := child.Convexity(bounds)
	p := e.Exponent
	isEvenInt := p == math.Trunc(p) && math.Mod(p, 2) == 0
	childBounds := child.IntervalEvaluate(bounds)
	switch {
	case isEvenInt && p > 0 && (cv == Linear || cv == Convex) && childBounds.Lo >= 0:
		return Convex
	case isEvenInt && p > 0 && (cv == Linear || cv == Concave) && childBounds.Hi <= 0:
		return Convex
	case p >= 1 && cv == Linear:
		return Convex
	case p > 0 && p < 1 && (cv == Linear || cv == Concave) && childBounds.Lo >= 0:
		return Concave
	default:
		return Unknown
	}
}

// Monotonicity reports how the node changes with respect to varIndex.
func (e *Expr) Monotonicity(varIndex int) Monotonicity {
	switch e.Op {
	case OpConst:
		return Constant
	case OpVar:
		if e.VarIndex == varIndex {
			return Increasing
		}
		return Constant
	case OpNeg:
		return flipMonotone(e.Children[0].Monotonicity(varIndex))
	case OpAdd:
		return combineMonotone(e.Children[0].Monotonicity(varIndex), e.Children[1].Monotonicity(varIndex))
	case OpSub:
		return combineMonotone(e.Children[0].Monotonicity(varIndex), flipMonotone(e.Children[1].Monotonicity(varIndex)))
	case OpExp, OpSqrt:
		return e.Children[0].Monotonicity(varIndex)
	case OpLog:
		return e.Children[0].Monotonicity(varIndex)
	default:
		if containsVar(e, varIndex) {
			return NonMonotone
		}
		return Constant
	}
}

func flipMonotone(m Monotonicity) Monotonicity {
	switch m {
	case Increasing:
		return Decreasing
	case Decreasing:
		return Increasing
	default:
		return m
	}
}

func combineMonotone(a, b Monotonicity) Monotonicity {
	if a == Constant {
		return b
	}
	if b == Constant {
		return a
	}
	if a == b {
		return a
	}
	return NonMonotone
}

func containsVar(e *Expr, varIndex int) bool {
	if e.Op == OpVar {
		return e.VarIndex == varIndex
	}
	for _, c := range e.Children {
		if containsVar(c, varIndex) {
			return true
		}
	}
	return false
}

// TightenBounds pushes a target interval into the tree (spec.md §4.1:
// "expression.tightenBounds(interval) traversal that dispatches on node
// operator") and calls accept with the inferred interval for every variable
// leaf it reaches; accept decides whether that interval improves on the
// current bound. It is conservative:
// operators without a clean inverse (sin/cos, general mul/div) simply do
// not propagate further.
func (e *Expr) TightenBounds(target Interval, bounds []Interval, accept func(varIndex int, iv Interval)) {
	switch e.Op {
	case OpVar:
		accept(e.VarIndex, target)
	case OpNeg:
		e.Children[0].TightenBounds(target.Neg(), bounds, accept)
	case OpAdd:
		a, b := e.Children[0], e.Children[1]
		aBounds, bBounds := a.IntervalEvaluate(bounds), b.IntervalEvaluate(bounds)
		a.TightenBounds(target.Sub(bBounds), bounds, accept)
		b.TightenBounds(target.Sub(aBounds), bounds, accept)
	case OpSub:
		a, b := e.Children[0], e.Children[1]
		aBounds, bBounds := a.IntervalEvaluate(bounds), b.IntervalEvaluate(bounds)
		a.TightenBounds(target.Add(bBounds), bounds, accept)
		b.TightenBounds(aBounds.Sub(target), bounds, accept)
	case OpMul:
		a, b := e.Children[0], e.Children[1]
		if a.Op == OpConst && a.Const != 0 {
			b.TightenBounds(target.Scale(1/a.Const), bounds, accept)
		} else if b.Op == OpConst && b.Const != 0 {
			a.TightenBounds(target.Scale(1/b.Const), bounds, accept)
		}
	case OpDiv:
		a, b := e.Children[0], e.Children[1]
		bBounds := b.IntervalEvaluate(bounds)
		if bBounds.ExcludesZero() {
			a.TightenBounds(target.Mul(bBounds), bounds, accept)
		}
	case OpPow:
		child := e.Children[0]
		inv := target.Pow(1 / e.Exponent)
		child.TightenBounds(inv, bounds, accept)
	case OpSqrt:
		// target = sqrt(c) => c = target^2, restricted to target>=0.
		child := e.Children[0]
		if target.Hi >= 0 {
			child.TightenBounds(Interval{math.Max(0, target.Lo), target.Hi}.Pow(2), bounds, accept)
		}
	case OpExp:
		// target = exp(c) => c = log(target), requires target.Lo > 0.
		child := e.Children[0]
		if target.Lo > 0 {
			child.TightenBounds(Interval{math.Log(target.Lo), logOrInf(target.Hi)}, bounds, accept)
		}
	case OpLog:
		child := e.Children[0]
		child.TightenBounds(Interval{math.Exp(target.Lo), math.Exp(target.Hi)}, bounds, accept)
	default:
		// sin/cos/abs: no useful inverse pushdown attempted.
	}
}

// AddGradient accumulates this node's contribution via finite differencing
// of the closed-form rules below is avoided; instead each operator's exact
// partial derivative is applied by the chain rule, matching what a real
// factorable-function AD tape would compute (spec.md §4.1/"AD backend").
func (e *Expr) AddGradient(x []float64, grad map[int]float64) {
	e.addGradientScaled(x, grad, 1.0)
}

func (e *Expr) addGradientScaled(x []float64, grad map[int]float64, upstream float64) {
	switch e.Op {
	case OpConst:
	case OpVar:
		grad[e.VarIndex] += upstream
	case OpNeg:
		e.Children[0].addGradientScaled(x, grad, -upstream)
	case OpAdd:
		e.Children[0].addGradientScaled(x, grad, upstream)
		e.Children[1].addGradientScaled(x, grad, upstream)
	case OpSub:
		e.Children[0].addGradientScaled(x, grad, upstream)
		e.Children[1].addGradientScaled(x, grad, -upstream)
	case OpMul:
		a, b := e.Children[0], e.Children[1]
		av, bv := a.Evaluate(x), b.Evaluate(x)
		a.addGradientScaled(x, grad, upstream*bv)
		b.addGradientScaled(x, grad, upstream*av)
	case OpDiv:
		a, b := e.Children[0], e.Children[1]
		av, bv := a.Evaluate(x), b.Evaluate(x)
		a.addGradientScaled(x, grad, upstream/bv)
		b.addGradientScaled(x, grad, -upstream*av/(bv*bv))
	case OpPow:
		child := e.Children[0]
		cv := child.Evaluate(x)
		child.addGradientScaled(x, grad, upstream*e.Exponent*math.Pow(cv, e.Exponent-1))
	case OpExp:
		child := e.Children[0]
		child.addGradientScaled(x, grad, upstream*math.Exp(child.Evaluate(x)))
	case OpLog:
		child := e.Children[0]
		child.addGradientScaled(x, grad, upstream/child.Evaluate(x))
	case OpSqrt:
		child := e.Children[0]
		child.addGradientScaled(x, grad, upstream/(2*math.Sqrt(child.Evaluate(x))))
	case OpAbs:
		child := e.Children[0]
		sign := 1.0
		if child.Evaluate(x) < 0 {
			sign = -1.0
		}
		child.addGradientScaled(x, grad, upstream*sign)
	case OpSin:
		child := e.Children[0]
		child.addGradientScaled(x, grad, upstream*math.Cos(child.Evaluate(x)))
	case OpCos:
		child := e.Children[0]
		child.addGradientScaled(x, grad, -upstream*math.Sin(child.Evaluate(x)))
	}
}

// Variables returns the distinct variable indices referenced anywhere in
// the tree.
func (e *Expr) Variables() []int {
	seen := make(map[int]bool)
	var out []int
	var walk func(*Expr)
	walk = func(n *Expr) {
		if n.Op == OpVar {
			if !seen[n.VarIndex] {
				seen[n.VarIndex] = true
				out = append(out, n.VarIndex)
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(e)
	return out
}

// Clone deep-copies the tree; reformulation uses this instead of mutating
// shared nodes (spec.md §3: "copies are produced by reformulation").
func (e *Expr) Clone() *Expr {
	clone := &Expr{Op: e.Op, Const: e.Const, VarIndex: e.VarIndex, Exponent: e.Exponent}
	if len(e.Children) > 0 {
		clone.Children = make([]*Expr, len(e.Children))
		for i, c := range e.Children {
			clone.Children[i] = c.Clone()
		}
	}
	return clone
}
