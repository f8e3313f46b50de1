package task

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsInOrder(t *testing.T) {
	var trace []string
	tasks := []Task{
		{Name: "a", Run: func() (Control, error) { trace = append(trace, "a"); return Continue(), nil }},
		{Name: "b", Run: func() (Control, error) { trace = append(trace, "b"); return Continue(), nil }},
		{Name: "c", Run: func() (Control, error) { trace = append(trace, "c"); return Done(), nil }},
	}
	s, err := New(tasks)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	require.Equal(t, []string{"a", "b", "c"}, trace)
}

func TestSchedulerGotoJumps(t *testing.T) {
	count := 0
	tasks := []Task{
		{Name: "loop", Run: func() (Control, error) {
			count++
			if count < 3 {
				return Next("loop"), nil
			}
			return Next("end"), nil
		}},
		{Name: "end", Run: func() (Control, error) { return Done(), nil }},
	}
	s, err := New(tasks)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	require.Equal(t, 3, count)
}

func TestSchedulerRejectsDuplicateNames(t *testing.T) {
	tasks := []Task{
		{Name: "a", Run: func() (Control, error) { return Done(), nil }},
		{Name: "a", Run: func() (Control, error) { return Done(), nil }},
	}
	_, err := New(tasks)
	require.Error(t, err)
}

func TestSchedulerConditionalBranch(t *testing.T) {
	var trace []string
	tasks := []Task{
		{Name: "check", Run: func() (Control, error) {
			trace = append(trace, "check")
			return Next("yes"), nil
		}},
		{Name: "no", Run: func() (Control, error) { trace = append(trace, "no"); return Done(), nil }},
		{Name: "yes", Run: func() (Control, error) { trace = append(trace, "yes"); return Done(), nil }},
	}
	s, err := New(tasks)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	require.Equal(t, []string{"check", "yes"}, trace)
}
