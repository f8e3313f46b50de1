// Package task implements the named task-list scheduler of spec.md §4.6: a
// linear list of named steps executed in order, with Goto (unconditional
// re-entry) and Conditional (branch set by a predicate task) as the only
// non-linear control. No pack library offers a generic task-scheduler
// abstraction (see DESIGN.md); this is a small data-driven state machine in
// the spirit of the teacher's own SolveWithLagrangeanRelaxation loop
// (solve -> evaluate bound -> branch/fathom -> repeat), generalized from an
// implicit for-loop into an explicit, named, restartable step list.
package task

import "shotgo/internal/errs"

// Control is what a Func returns to tell the Scheduler what runs next.
type Control struct {
	next string // empty means "fall through to the next task in list order"
	done bool
}

// Next resumes execution at the named task (Goto / Conditional).
func Next(name string) Control { return Control{next: name} }

// Continue falls through to the next task in list order.
func Continue() Control { return Control{} }

// Done stops the scheduler (the Terminate task returns this).
func Done() Control { return Control{done: true} }

// Func is one task body. It receives nothing but the shared state closed
// over by the caller that built the Task list (spec.md §4.6: "each task is
// stateless with respect to other tasks except through the shared
// Results/DualSolver/PrimalSolver objects").
type Func func() (Control, error)

// Task is one named step in the list.
type Task struct {
	Name string
	Run  Func
}

// Scheduler runs a named Task list in order, honoring Goto/Conditional jumps
// returned by each Func.
type Scheduler struct {
	tasks   []Task
	index   map[string]int
	visited []string
}

// New builds a Scheduler over tasks, indexed by name. Duplicate names are a
// programmer error.
func New(tasks []Task) (*Scheduler, error) {
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if _, ok := index[t.Name]; ok {
			return nil, errs.New(errs.ModelError, "task: duplicate task name "+t.Name)
		}
		index[t.Name] = i
	}
	return &Scheduler{tasks: tasks, index: index}, nil
}

// Run executes the task list starting at the first task, following
// Goto/Conditional jumps until a task returns Done or the list runs out
// (falling off the end is equivalent to an implicit Terminate).
func (s *Scheduler) Run() error {
	if len(s.tasks) == 0 {
		return nil
	}
	i := 0
	for {
		t := s.tasks[i]
		s.visited = append(s.visited, t.Name)
		ctrl, err := t.Run()
		if err != nil {
			return errs.Wrap(errs.SubsolverError, "task: "+t.Name+" failed", err)
		}
		if ctrl.done {
			return nil
		}
		if ctrl.next != "" {
			next, ok := s.index[ctrl.next]
			if !ok {
				return errs.New(errs.ModelError, "task: unknown task name "+ctrl.next)
			}
			i = next
			continue
		}
		i++
		if i >= len(s.tasks) {
			return nil
		}
	}
}

// Visited returns the ordered list of task names actually executed, for
// debug reporting.
func (s *Scheduler) Visited() []string { return s.visited }
