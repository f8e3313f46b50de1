// Package env carries the Environment object threaded through every task and
// component constructor, replacing the process-wide Settings/ProcessInfo
// singletons of the source system (spec.md §9 "Global singletons") so that
// several solver instances can coexist in one process.
package env

import (
	"io"
	"log"
	"os"
	"time"

	"shotgo/internal/options"
)

// Logger is a thin leveled wrapper around the standard library logger. It
// mirrors the teacher's plain fmt.Println/fmt.Fprintln diagnostics but as an
// injectable object rather than bare prints to stdout/stderr.
type Logger struct {
	out     *log.Logger
	err     *log.Logger
	verbose bool
}

// NewLogger builds a Logger writing to w (info/debug) and ew (warnings).
func NewLogger(w, ew io.Writer, verbose bool) *Logger {
	return &Logger{
		out:     log.New(w, "", log.LstdFlags),
		err:     log.New(ew, "", log.LstdFlags),
		verbose: verbose,
	}
}

// NewStdLogger builds a Logger writing to os.Stdout/os.Stderr.
func NewStdLogger(verbose bool) *Logger {
	return NewLogger(os.Stdout, os.Stderr, verbose)
}

func (l *Logger) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	l.out.Printf(format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.verbose {
		return
	}
	l.out.Printf("debug: "+format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.err.Printf("warn: "+format, args...)
}

// Environment is shared by pointer (*Environment) through the task scheduler
// and every component constructor. It owns no engine state of
// its own beyond options, logging, and the wall clock; the dual/primal
// engines and their shared Results live alongside it, not inside it.
type Environment struct {
	Options *options.Set
	Log     *Logger

	started time.Time
}

// New builds an Environment from a resolved options set.
func New(opts *options.Set) *Environment {
	return &Environment{
		Options: opts,
		Log:     NewStdLogger(opts.GetBool("Output.Verbose", false)),
		started: time.Now(),
	}
}

// Elapsed returns the wall-clock duration since the Environment was created,
// used by CheckTimeLimit at every iteration boundary (spec.md §5).
func (e *Environment) Elapsed() time.Duration {
	return time.Since(e.started)
}
