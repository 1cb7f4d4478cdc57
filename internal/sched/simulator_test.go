package sched

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func busyUnits(row TraceRow) []int {
	var units []int
	for t, busy := range row.Busy {
		if busy {
			units = append(units, t)
		}
	}
	return units
}

func TestSimulate_HyperperiodLength(t *testing.T) {
	tasks := taskSet(
		[4]int{1, 4, 1, 0},
		[4]int{2, 6, 2, 0},
	)

	tr, err := Simulate(tasks, DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, 12, tr.Hyperperiod)
	require.Len(t, tr.Rows, 2)
	for _, row := range tr.Rows {
		assert.Len(t, row.Busy, 12, "row %s", row.Task.Name)
	}
	assert.Len(t, tr.Timeline, 12)

	assert.Equal(t, []int{0, 4, 8}, busyUnits(tr.Rows[0]))
	assert.Equal(t, []int{1, 2, 6, 7}, busyUnits(tr.Rows[1]))
	assert.Equal(t, []int{0, 1, 1, -1, 0, -1, 1, 1, 0, -1, -1, -1}, tr.Timeline)
	assert.Empty(t, tr.Misses())
}

func TestSimulate_AtMostOneJobPerUnit(t *testing.T) {
	tasks := taskSet(
		[4]int{1, 4, 1, 0},
		[4]int{2, 6, 2, 0},
		[4]int{3, 12, 3, 0},
	)

	tr, err := Simulate(tasks, DefaultLimits())
	require.NoError(t, err)

	for u := 0; u < tr.Hyperperiod; u++ {
		running := 0
		for _, row := range tr.Rows {
			if row.Busy[u] {
				running++
			}
		}
		assert.LessOrEqual(t, running, 1, "unit %d", u)
	}
}

func TestSimulate_Preemption(t *testing.T) {
	tasks := taskSet(
		[4]int{2, 5, 1, 0},
		[4]int{4, 10, 2, 0},
	)

	tr, err := Simulate(tasks, DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1, 1, 0, 0, 1, -1, -1}, tr.Timeline)

	var got []string
	for _, ev := range tr.Events {
		got = append(got, fmt.Sprintf("%d:%s:%s", ev.Tick, ev.Kind, ev.Task))
	}
	assert.Equal(t, []string{
		"0:Release:TA",
		"0:Release:TB",
		"0:Dispatch:TA",
		"2:Finish:TA",
		"2:Dispatch:TB",
		"5:Release:TA",
		"5:Preempt:TB",
		"5:Dispatch:TA",
		"7:Finish:TA",
		"7:Dispatch:TB",
		"8:Finish:TB",
		"8:Idle:",
	}, got)

	rt, ok := tr.MaxObservedResponse("TB")
	require.True(t, ok)
	assert.Equal(t, 8, rt)
}

func TestSimulate_MatchesAnalysisAtCriticalInstant(t *testing.T) {
	sets := [][]*Task{
		taskSet([4]int{3, 10, 1, 0}, [4]int{5, 20, 2, 0}),
		taskSet([4]int{1, 4, 1, 0}, [4]int{2, 6, 2, 0}, [4]int{3, 13, 3, 0}),
		taskSet([4]int{2, 5, 1, 0}, [4]int{4, 10, 2, 0}),
	}

	for i, tasks := range sets {
		a, err := Analyze(tasks, DefaultLimits())
		require.NoError(t, err)
		require.True(t, a.Schedulable, "set %d", i)

		tr, err := Simulate(tasks, DefaultLimits())
		require.NoError(t, err)

		for _, res := range a.Results {
			observed, ok := tr.MaxObservedResponse(res.Task.Name)
			require.True(t, ok)
			assert.Equal(t, res.ResponseTime, observed, "set %d task %s", i, res.Task.Name)
		}
	}
}

func TestSimulate_DeadlineMiss(t *testing.T) {
	tasks := taskSet(
		[4]int{5, 10, 1, 0},
		[4]int{7, 10, 2, 0},
	)

	tr, err := Simulate(tasks, DefaultLimits())
	require.NoError(t, err)

	misses := tr.Misses()
	require.Len(t, misses, 1)
	assert.Equal(t, "TB", misses[0].Task)
	assert.Equal(t, -1, misses[0].Finish)

	last := tr.Events[len(tr.Events)-1]
	assert.Equal(t, StatusDeadlineMiss, last.Kind)
	assert.Equal(t, 10, last.Tick)
	assert.Equal(t, 2, last.Remaining)
}

func TestSimulate_EmptySet(t *testing.T) {
	tr, err := Simulate(nil, DefaultLimits())
	require.NoError(t, err)
	assert.Zero(t, tr.Hyperperiod)
	assert.Empty(t, tr.Rows)
	assert.Empty(t, tr.Timeline)
	assert.Empty(t, tr.Events)
}

func TestSimulate_TraceLimit(t *testing.T) {
	tasks := taskSet(
		[4]int{1, 4, 1, 0},
		[4]int{2, 6, 2, 0},
	)

	_, err := Simulate(tasks, Limits{MaxTraceUnits: 10})
	require.ErrorIs(t, err, ErrTraceTooLong)
}

func TestSimulate_InvalidTask(t *testing.T) {
	tasks := []*Task{NewTask(0, "zero", 1, 0, 0, 1, 1)}
	_, err := Simulate(tasks, DefaultLimits())
	require.ErrorIs(t, err, ErrInvalidTaskParameter)
}

func TestSimulate_DoesNotTouchResponseTime(t *testing.T) {
	tasks := taskSet([4]int{2, 10, 1, 0})
	_, err := Simulate(tasks, DefaultLimits())
	require.NoError(t, err)
	assert.Zero(t, tasks[0].ResponseTime)
}

func TestStatusKindString(t *testing.T) {
	assert.Equal(t, "Preempt", StatusPreempt.String())
	assert.Equal(t, "DeadlineMiss", StatusDeadlineMiss.String())
	assert.Equal(t, "Unknown", StatusKind(42).String())
}
