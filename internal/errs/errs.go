// Package errs defines the engine's error taxonomy. Tasks never let an error
// cross the scheduler boundary as a panic; every subsolve failure is converted
// to one of the kinds below and carried in Results instead.
package errs

import "fmt"

// Kind classifies an engine-level failure the way the task scheduler reasons
// about it (fatal vs. local vs. recoverable vs. graceful termination).
type Kind int

const (
	// ModelError: the input problem is ill-formed (inverted bounds, a
	// reference to an undeclared variable, ...). Fatal, reported at finalize.
	ModelError Kind = iota
	// NumericalError: NaN/Inf in a gradient, an interval-arithmetic
	// exception, division by zero inside FBBT. Local: the offending
	// term/constraint is skipped for this operation; not fatal.
	NumericalError
	// SubsolverError: the MIP or NLP oracle returned Error. Fatal for the
	// current iteration.
	SubsolverError
	// InfeasibleMaster: the master reported Infeasible. Recoverable by
	// repair; fatal after the repair-failure limit is reached.
	InfeasibleMaster
	// Stagnation: K consecutive iterations without dual-bound improvement
	// or new cuts. Not an error — triggers graceful termination.
	Stagnation
	// ResourceLimit: time, iteration, or solution-limit exhaustion.
	// Graceful termination.
	ResourceLimit
)

func (k Kind) String() string {
	switch k {
	case ModelError:
		return "ModelError"
	case NumericalError:
		return "NumericalError"
	case SubsolverError:
		return "SubsolverError"
	case InfeasibleMaster:
		return "InfeasibleMaster"
	case Stagnation:
		return "Stagnation"
	case ResourceLimit:
		return "ResourceLimit"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a Kind so callers can branch on it
// without string matching.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a Kind to an existing error.
func Wrap(kind Kind, msg string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// KindOf extracts the Kind of err, if it (or something it wraps) is an
// *Error. The second return is false for plain errors.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return 0, false
}

// Coalesce returns the first non-nil error, in the teacher's errorCoalesce
// style: run a batch of fallible steps and report the first failure.
func Coalesce(errors ...error) error {
	for _, e := range errors {
		if e != nil {
			return e
		}
	}
	return nil
}
