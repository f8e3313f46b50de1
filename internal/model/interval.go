package model

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Interval is a closed real interval [Lo, Hi], possibly unbounded in either
// direction. It is the currency of FBBT (spec.md §4.1) and of convexity
// classification under an interval context.
type Interval struct {
	Lo, Hi float64
}

// Full is the interval (-inf, +inf).
func Full() Interval { return Interval{math.Inf(-1), math.Inf(1)} }

// Point is the degenerate interval [v, v].
func Point(v float64) Interval { return Interval{v, v} }

// IsEmpty reports an inverted (infeasible) interval.
func (iv Interval) IsEmpty() bool { return iv.Lo > iv.Hi }

// Contains reports whether v lies within the interval (within tol).
func (iv Interval) Contains(v, tol float64) bool {
	return v >= iv.Lo-tol && v <= iv.Hi+tol
}

// StraddlesZero reports whether 0 lies strictly inside the interval.
func (iv Interval) StraddlesZero() bool { return iv.Lo < 0 && iv.Hi > 0 }

// ExcludesZero reports whether 0 lies outside the interval.
func (iv Interval) ExcludesZero() bool { return iv.Lo > 0 || iv.Hi < 0 }

// Add returns iv + other.
func (iv Interval) Add(other Interval) Interval {
	return Interval{iv.Lo + other.Lo, iv.Hi + other.Hi}
}

// Sub returns iv - other.
func (iv Interval) Sub(other Interval) Interval {
	return Interval{iv.Lo - other.Hi, iv.Hi - other.Lo}
}

// Neg returns -iv.
func (iv Interval) Neg() Interval { return Interval{-iv.Hi, -iv.Lo} }

// Scale returns c*iv, flipping bounds for negative c.
func (iv Interval) Scale(c float64) Interval {
	a, b := c*iv.Lo, c*iv.Hi
	if a > b {
		a, b = b, a
	}
	return Interval{a, b}
}

// Mul returns iv * other via the standard four-corner rule.
func (iv Interval) Mul(other Interval) Interval {
	candidates := [4]float64{
		iv.Lo * other.Lo, iv.Lo * other.Hi,
		iv.Hi * other.Lo, iv.Hi * other.Hi,
	}
	lo, hi := candidates[0], candidates[0]
	for _, c := range candidates[1:] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	return Interval{lo, hi}
}

// Div returns iv / other. When other straddles zero the quotient is
// unbounded; callers needing the "skip when it excludes 0" FBBT rule should
// check other.ExcludesZero() first.
func (iv Interval) Div(other Interval) Interval {
	if other.StraddlesZero() || (other.Lo == 0 && other.Hi == 0) {
		return Full()
	}
	return iv.Mul(Interval{1 / other.Hi, 1 / other.Lo})
}

// Sqrt returns the interval of sqrt(x) for x in iv, clamped to the
// non-negative portion of iv (square roots of negative numbers are not
// real).
func (iv Interval) Sqrt() Interval {
	lo := math.Max(0, iv.Lo)
	hi := math.Max(0, iv.Hi)
	if hi < lo {
		return Interval{Lo: math.Inf(1), Hi: math.Inf(-1)} // empty
	}
	return Interval{math.Sqrt(lo), math.Sqrt(hi)}
}

// Pow returns the interval of x^p for x in iv and a fixed real exponent p,
// with the sign-and-integrality care the spec requires for signomial
// inversion (§4.1): even integer exponents produce a non-negative image,
// fractional exponents require a non-negative base, negative exponents
// exclude zero from the domain.
func (iv Interval) Pow(p float64) Interval {
	isInt := p == math.Trunc(p)
	if p < 0 {
		if iv.StraddlesZero() {
			return Full()
		}
		return iv.Pow(-p).reciprocal()
	}
	if !isInt && iv.Lo < 0 {
		iv = Interval{0, iv.Hi}
	}
	evenInt := isInt && math.Mod(p, 2) == 0
	a, b := math.Pow(iv.Lo, p), math.Pow(iv.Hi, p)
	if a > b {
		a, b = b, a
	}
	if evenInt && iv.StraddlesZero() {
		a = 0
	}
	return Interval{a, b}
}

func (iv Interval) reciprocal() Interval {
	if iv.ExcludesZero() {
		return Interval{1 / iv.Hi, 1 / iv.Lo}
	}
	return Full()
}

// Union returns the smallest interval containing both iv and other.
func (iv Interval) Union(other Interval) Interval {
	return Interval{math.Min(iv.Lo, other.Lo), math.Max(iv.Hi, other.Hi)}
}

// Intersect returns the overlap of iv and other; the result IsEmpty if they
// are disjoint.
func (iv Interval) Intersect(other Interval) Interval {
	return Interval{math.Max(iv.Lo, other.Lo), math.Min(iv.Hi, other.Hi)}
}

// Width reports the interval's width, possibly +Inf.
func (iv Interval) Width() float64 { return iv.Hi - iv.Lo }

// clampInt rounds bounds inward for integer-typed variables: floor the
// upper bound, ceil the lower bound.
func clampInt[T constraints.Float](lo, hi T) (T, T) {
	return T(math.Ceil(float64(lo))), T(math.Floor(float64(hi)))
}
