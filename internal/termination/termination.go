// Package termination implements the termination predicates of spec.md
// §4.7: each is an independent, stateless check over a Status snapshot, any
// one of which may route the task scheduler to Terminate.
package termination

import (
	"math"
	"time"
)

// Reason enumerates why the solve stopped (spec.md §6 "Results").
type Reason int

const (
	NotTerminated Reason = iota
	AbsoluteGap
	RelativeGap
	TimeLimit
	IterationLimit
	AcceptableGap
	DualStagnation
	InfeasibilityRepairFailed
	MasterError
	Infeasible
)

func (r Reason) String() string {
	switch r {
	case AbsoluteGap:
		return "AbsoluteGap"
	case RelativeGap:
		return "RelativeGap"
	case TimeLimit:
		return "TimeLimit"
	case IterationLimit:
		return "IterationLimit"
	case AcceptableGap:
		return "AcceptableGap"
	case DualStagnation:
		return "DualStagnation"
	case InfeasibilityRepairFailed:
		return "InfeasibilityRepairFailed"
	case MasterError:
		return "MasterError"
	case Infeasible:
		return "Infeasible"
	default:
		return "NotTerminated"
	}
}

// Status is the snapshot of engine state the termination checks read.
type Status struct {
	HavePrimal    bool
	PrimalBound   float64
	DualBound     float64
	Elapsed       time.Duration
	Iteration     int
	MaxDeviation  float64
	StagnationHit bool
	RepairFailed  bool
	MasterFailed  bool
	Infeasible    bool
}

// AbsGap returns |primal-dual| (spec.md §4.7), or +Inf if no primal exists.
func AbsGap(s Status) float64 {
	if !s.HavePrimal {
		return math.Inf(1)
	}
	return math.Abs(s.PrimalBound - s.DualBound)
}

// RelGap returns absGap/(|primal|+1e-10) (spec.md §4.7).
func RelGap(s Status) float64 {
	if !s.HavePrimal {
		return math.Inf(1)
	}
	return AbsGap(s) / (math.Abs(s.PrimalBound) + 1e-10)
}

// CheckAbsoluteGap implements the CheckAbsoluteGap task.
func CheckAbsoluteGap(s Status, tolAbs float64) (Reason, bool) {
	if AbsGap(s) <= tolAbs {
		return AbsoluteGap, true
	}
	return NotTerminated, false
}

// CheckRelativeGap implements the CheckRelativeGap task.
func CheckRelativeGap(s Status, tolRel float64) (Reason, bool) {
	if RelGap(s) <= tolRel {
		return RelativeGap, true
	}
	return NotTerminated, false
}

// CheckTimeLimit implements the CheckTimeLimit task.
func CheckTimeLimit(s Status, limit time.Duration) (Reason, bool) {
	if s.Elapsed >= limit {
		return TimeLimit, true
	}
	return NotTerminated, false
}

// CheckIterationLimit implements the iteration-count half of CheckIterationError.
func CheckIterationLimit(s Status, limit int) (Reason, bool) {
	if s.Iteration >= limit {
		return IterationLimit, true
	}
	return NotTerminated, false
}

// CheckIterationError implements the CheckIterationError task (spec.md
// §4.6): a master that reports unrecoverable error is terminal regardless
// of any bound state.
func CheckIterationError(s Status) (Reason, bool) {
	if s.MasterFailed {
		return MasterError, true
	}
	return NotTerminated, false
}

// CheckConstraintTolerance implements the CheckConstraintTolerance task
// (spec.md §4.7): a non-strict termination when the full gap has not been
// reached but the incumbent is within constraint tolerance and the gap is
// "acceptable" (looser than the strict relative tolerance by acceptableFactor).
func CheckConstraintTolerance(s Status, constraintTol, tolRel, acceptableFactor float64) (Reason, bool) {
	if s.MaxDeviation <= constraintTol && RelGap(s) <= tolRel*acceptableFactor {
		return AcceptableGap, true
	}
	return NotTerminated, false
}

// CheckDualStagnation implements the CheckDualStagnation task: the Engine
// (internal/dual) tracks the consecutive-no-improvement counter itself;
// this just converts that boolean into a termination decision.
func CheckDualStagnation(s Status) (Reason, bool) {
	if s.StagnationHit {
		return DualStagnation, true
	}
	return NotTerminated, false
}

// CheckInfeasibilityRepair implements the infeasibility-repair-limit check.
func CheckInfeasibilityRepair(s Status) (Reason, bool) {
	if s.RepairFailed {
		return InfeasibilityRepairFailed, true
	}
	return NotTerminated, false
}

// CheckInfeasible reports the master-confirmed-infeasible termination.
func CheckInfeasible(s Status) (Reason, bool) {
	if s.Infeasible {
		return Infeasible, true
	}
	return NotTerminated, false
}

// Evaluate runs every predicate in spec.md §4.7 order and returns the first
// one that fires, or (NotTerminated, false) if none do.
func Evaluate(s Status, tolAbs, tolRel, constraintTol, acceptableFactor float64, timeLimit time.Duration, iterLimit int) (Reason, bool) {
	checks := []func() (Reason, bool){
		func() (Reason, bool) { return CheckInfeasible(s) },
		func() (Reason, bool) { return CheckIterationError(s) },
		func() (Reason, bool) { return CheckInfeasibilityRepair(s) },
		func() (Reason, bool) { return CheckAbsoluteGap(s, tolAbs) },
		func() (Reason, bool) { return CheckRelativeGap(s, tolRel) },
		func() (Reason, bool) { return CheckConstraintTolerance(s, constraintTol, tolRel, acceptableFactor) },
		func() (Reason, bool) { return CheckDualStagnation(s) },
		func() (Reason, bool) { return CheckTimeLimit(s, timeLimit) },
		func() (Reason, bool) { return CheckIterationLimit(s, iterLimit) },
	}
	for _, check := range checks {
		if reason, done := check(); done {
			return reason, true
		}
	}
	return NotTerminated, false
}
