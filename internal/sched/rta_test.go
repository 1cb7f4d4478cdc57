package sched

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskSet builds tasks from {wcet, period, priority, deadline} tuples; a zero
// deadline means deadline == period. IDs follow slice order.
func taskSet(specs ...[4]int) []*Task {
	tasks := make([]*Task, len(specs))
	for i, s := range specs {
		name := string(rune('A' + i))
		tasks[i] = NewTask(TaskID(i), "T"+name, s[0], 0, s[1], s[1], s[2])
		if s[3] > 0 {
			tasks[i].Deadline = s[3]
		}
	}
	return tasks
}

func TestAnalyze_SingleTask(t *testing.T) {
	tasks := taskSet([4]int{2, 10, 1, 0})

	a, err := Analyze(tasks, DefaultLimits())
	require.NoError(t, err)

	assert.True(t, a.Schedulable)
	require.Len(t, a.Results, 1)
	assert.Equal(t, 2, a.Results[0].ResponseTime)
	assert.Equal(t, 8, a.Results[0].Slack)
	assert.Equal(t, 2, tasks[0].ResponseTime)
}

func TestAnalyze_TwoTasks(t *testing.T) {
	tasks := taskSet(
		[4]int{3, 10, 1, 0},
		[4]int{5, 20, 2, 0},
	)

	a, err := Analyze(tasks, DefaultLimits())
	require.NoError(t, err)

	assert.True(t, a.Schedulable)
	assert.Equal(t, 3, tasks[0].ResponseTime)
	assert.Equal(t, 8, tasks[1].ResponseTime)
	assert.Equal(t, []int{8, 8}, a.Results[1].Iterations)
}

func TestAnalyze_DeadlineExceededBeforeConvergence(t *testing.T) {
	tasks := taskSet(
		[4]int{5, 10, 1, 0},
		[4]int{7, 10, 2, 0},
	)

	a, err := Analyze(tasks, DefaultLimits())
	require.NoError(t, err)

	assert.False(t, a.Schedulable)
	r, ok := a.Result("TB")
	require.True(t, ok)
	assert.False(t, r.Schedulable)
	assert.Equal(t, 12, r.ResponseTime)
	assert.Equal(t, []int{12}, r.Iterations, "stops on the first refinement past the deadline")
	assert.Equal(t, -2, r.Slack)

	first, _ := a.Result("TA")
	assert.True(t, first.Schedulable)
}

func TestAnalyze_IterationsAreMonotonic(t *testing.T) {
	tasks := taskSet(
		[4]int{1, 4, 1, 0},
		[4]int{2, 6, 2, 0},
		[4]int{3, 13, 3, 0},
	)

	a, err := Analyze(tasks, DefaultLimits())
	require.NoError(t, err)
	require.True(t, a.Schedulable)

	r, _ := a.Result("TC")
	assert.Equal(t, []int{6, 7, 9, 10, 10}, r.Iterations)
	assert.Equal(t, 10, r.ResponseTime)

	for _, res := range a.Results {
		assert.GreaterOrEqual(t, res.ResponseTime, res.Task.WCET)
		assert.Equal(t, res.ResponseTime <= res.Task.Deadline, res.Schedulable)
		for i := 1; i < len(res.Iterations); i++ {
			assert.GreaterOrEqual(t, res.Iterations[i], res.Iterations[i-1])
		}
	}
}

func TestAnalyze_HighestPriorityHasNoInterference(t *testing.T) {
	// Input order deliberately differs from priority order.
	tasks := taskSet(
		[4]int{4, 20, 3, 0},
		[4]int{3, 7, 0, 0},
		[4]int{2, 9, 2, 0},
	)

	a, err := Analyze(tasks, DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, "TB", a.Results[0].Task.Name)
	assert.Equal(t, 3, a.Results[0].ResponseTime)
	assert.Equal(t, "TA", tasks[0].Name, "caller slice keeps its order")
}

func TestAnalyze_HighestPriorityAloneUnschedulable(t *testing.T) {
	tasks := taskSet([4]int{6, 10, 1, 5})

	a, err := Analyze(tasks, DefaultLimits())
	require.NoError(t, err)

	assert.False(t, a.Schedulable)
	assert.Equal(t, 6, a.Results[0].ResponseTime)
}

func TestAnalyze_EqualPrioritiesUseInputOrder(t *testing.T) {
	tasks := taskSet(
		[4]int{2, 10, 1, 0},
		[4]int{3, 10, 1, 0},
	)

	a, err := Analyze(tasks, DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, 2, tasks[0].ResponseTime)
	assert.Equal(t, 5, tasks[1].ResponseTime)
	assert.True(t, a.Schedulable)
}

func TestAnalyze_EmptySet(t *testing.T) {
	a, err := Analyze(nil, DefaultLimits())
	require.NoError(t, err)
	assert.True(t, a.Schedulable)
	assert.Empty(t, a.Results)
}

func TestAnalyze_Idempotent(t *testing.T) {
	tasks := taskSet(
		[4]int{1, 4, 1, 0},
		[4]int{2, 6, 2, 0},
		[4]int{3, 13, 3, 0},
	)

	_, err := Analyze(tasks, DefaultLimits())
	require.NoError(t, err)
	first := []int{tasks[0].ResponseTime, tasks[1].ResponseTime, tasks[2].ResponseTime}

	_, err = Analyze(tasks, DefaultLimits())
	require.NoError(t, err)
	second := []int{tasks[0].ResponseTime, tasks[1].ResponseTime, tasks[2].ResponseTime}

	assert.Equal(t, first, second)
}

func TestAnalyze_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		task  *Task
		field string
	}{
		{"zero wcet", NewTask(0, "bad", 0, 0, 10, 10, 1), "wcet"},
		{"negative period", NewTask(0, "bad", 1, 0, -5, 10, 1), "period"},
		{"zero deadline", NewTask(0, "bad", 1, 0, 10, 0, 1), "deadline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze([]*Task{tt.task}, DefaultLimits())
			require.ErrorIs(t, err, ErrInvalidTaskParameter)

			var te *TaskError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, "bad", te.Task)
			assert.Equal(t, tt.field, te.Field)
		})
	}
}

func TestAnalyze_NonConvergent(t *testing.T) {
	tasks := taskSet(
		[4]int{1, 4, 1, 0},
		[4]int{2, 6, 2, 0},
		[4]int{3, 13, 3, 0},
	)

	_, err := Analyze(tasks, Limits{MaxIterations: 2})
	require.ErrorIs(t, err, ErrNonConvergent)
	assert.NotErrorIs(t, err, ErrInvalidTaskParameter)
}

func TestAnalyze_InterferenceOverflow(t *testing.T) {
	big := math.MaxInt/2 + 1
	tasks := []*Task{
		NewTask(0, "hog", big, 0, 1, math.MaxInt, 1),
		NewTask(1, "victim", 1, 0, 1, math.MaxInt, 2),
	}

	_, err := Analyze(tasks, DefaultLimits())
	require.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestUtilization(t *testing.T) {
	tasks := taskSet(
		[4]int{1, 4, 1, 0},
		[4]int{3, 6, 2, 0},
	)
	assert.InDelta(t, 0.75, Utilization(tasks), 1e-9)
	assert.Zero(t, Utilization(nil))
}
