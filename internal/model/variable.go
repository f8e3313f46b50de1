package model

import "math"

// VariableType enumerates the variable kinds of spec.md §3.
type VariableType int

const (
	Real VariableType = iota
	Binary
	Integer
	SemiContinuous
	Auxiliary
)

func (t VariableType) String() string {
	switch t {
	case Real:
		return "Real"
	case Binary:
		return "Binary"
	case Integer:
		return "Integer"
	case SemiContinuous:
		return "SemiContinuous"
	case Auxiliary:
		return "Auxiliary"
	default:
		return "Unknown"
	}
}

func (t VariableType) IsDiscrete() bool {
	return t == Binary || t == Integer
}

// Variable is owned exclusively by its Problem (spec.md §9 "Cyclic
// references"); it holds no back-reference to the problem at all, since
// nothing on Variable needs one. Its Index is the variable's position in the
// owning Problem's dense, stable 0..N-1 indexing.
type Variable struct {
	Index int
	Name  string
	Type  VariableType
	Lower float64
	Upper float64

	// Derived-property flags, set by the problem builder as terms and
	// expressions are registered against this variable.
	InLinear     bool
	InQuadratic  bool
	InNonlinear  bool
	InMonomial   bool
	InSignomial  bool
}

// NewVariable constructs a Variable with bounds normalized for its type.
func NewVariable(index int, name string, typ VariableType, lower, upper float64) *Variable {
	v := &Variable{Index: index, Name: name, Type: typ, Lower: lower, Upper: upper}
	v.normalizeBounds()
	return v
}

// normalizeBounds enforces the §3 invariants: lower<=upper, binary bounds
// clamped to [0,1], integer bounds rounded inward.
func (v *Variable) normalizeBounds() {
	switch v.Type {
	case Binary:
		v.Lower = math.Max(v.Lower, 0)
		v.Upper = math.Min(v.Upper, 1)
	case Integer:
		v.Lower = math.Ceil(v.Lower)
		v.Upper = math.Floor(v.Upper)
	}
	if v.Lower > v.Upper {
		// Collapses to the tighter bound rather than leaving an inverted
		// range in place; callers that need to detect genuine infeasibility
		// should compare against the pre-tightening bounds themselves.
		v.Upper = v.Lower
	}
}

// Interval returns the variable's current bound interval.
func (v *Variable) Interval() Interval { return Interval{v.Lower, v.Upper} }

// TightenLower raises the lower bound if doing so improves it by more than
// the FBBT acceptance tolerance (1e-10, spec.md §4.1), rounding up for
// integer/binary variables to preserve integrality. Returns whether the
// bound actually changed.
func (v *Variable) TightenLower(candidate float64) bool {
	if v.Type.IsDiscrete() {
		candidate = math.Ceil(candidate - 1e-9)
	}
	if candidate > v.Lower+1e-10 {
		v.Lower = candidate
		if v.Lower > v.Upper {
			v.Upper = v.Lower
		}
		return true
	}
	return false
}

// TightenUpper lowers the upper bound under the same rule as TightenLower.
func (v *Variable) TightenUpper(candidate float64) bool {
	if v.Type.IsDiscrete() {
		candidate = math.Floor(candidate + 1e-9)
	}
	if candidate < v.Upper-1e-10 {
		v.Upper = candidate
		if v.Upper < v.Lower {
			v.Lower = v.Upper
		}
		return true
	}
	return false
}
