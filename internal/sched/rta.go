// internal/sched/rta.go

package sched

import "fmt"

// TaskResult is the outcome of response-time analysis for one task.
type TaskResult struct {
	Task         *Task
	ResponseTime int
	Schedulable  bool
	Slack        int   // Deadline - ResponseTime, negative when the deadline is missed
	Iterations   []int // response time after each refinement
}

// Analysis holds per-task results in priority order and the overall verdict.
type Analysis struct {
	Results     []TaskResult
	Schedulable bool
}

// Result returns the analysis result for the named task.
func (a *Analysis) Result(name string) (TaskResult, bool) {
	for _, r := range a.Results {
		if r.Task.Name == name {
			return r, true
		}
	}
	return TaskResult{}, false
}

// Analyze runs response-time analysis over tasks under the critical-instant
// assumption. Each task's ResponseTime is written in place.
//
// Tasks are ordered once with ByPriority, so a task at sorted index i suffers
// interference from exactly the tasks at indices [0, i). Every task is
// analyzed even after an unschedulable one has been found.
func Analyze(tasks []*Task, limits Limits) (*Analysis, error) {
	if err := validateAll(tasks); err != nil {
		return nil, err
	}
	limits = limits.normalized()

	ordered := ByPriority(tasks)
	analysis := &Analysis{
		Results:     make([]TaskResult, 0, len(ordered)),
		Schedulable: true,
	}

	for i, t := range ordered {
		res, err := responseTime(t, ordered[:i], limits.MaxIterations)
		if err != nil {
			return nil, err
		}
		t.ResponseTime = res.ResponseTime
		if !res.Schedulable {
			analysis.Schedulable = false
		}
		analysis.Results = append(analysis.Results, res)
	}

	return analysis, nil
}

// responseTime iterates R = C + sum(ceil(R/Tj)*Cj) over the higher priority
// tasks hp until it either exceeds the deadline or reaches a fixed point.
// The deadline is checked before convergence on every refinement.
func responseTime(t *Task, hp []*Task, maxIterations int) (TaskResult, error) {
	r := t.WCET
	res := TaskResult{Task: t}

	for iter := 1; ; iter++ {
		prev := r

		interference := 0
		for _, j := range hp {
			cost, ok := mulInt(ceilDiv(prev, j.Period), j.WCET)
			if !ok {
				return res, &TaskError{Task: t.Name, Err: fmt.Errorf("interference from %q: %w", j.Name, ErrArithmeticOverflow)}
			}
			if interference, ok = addInt(interference, cost); !ok {
				return res, &TaskError{Task: t.Name, Err: fmt.Errorf("interference sum: %w", ErrArithmeticOverflow)}
			}
		}

		next, ok := addInt(t.WCET, interference)
		if !ok {
			return res, &TaskError{Task: t.Name, Err: fmt.Errorf("response time: %w", ErrArithmeticOverflow)}
		}
		r = next
		res.Iterations = append(res.Iterations, r)

		if r > t.Deadline {
			res.ResponseTime = r
			res.Schedulable = false
			res.Slack = t.Deadline - r
			return res, nil
		}

		if r == prev {
			res.ResponseTime = r
			res.Schedulable = true
			res.Slack = t.Deadline - r
			return res, nil
		}

		if iter >= maxIterations {
			return res, &TaskError{Task: t.Name, Err: fmt.Errorf("%w after %d iterations", ErrNonConvergent, maxIterations)}
		}
	}
}

// Utilization returns the processor utilization sum(WCET/Period).
func Utilization(tasks []*Task) float64 {
	u := 0.0
	for _, t := range tasks {
		if t.Period > 0 {
			u += float64(t.WCET) / float64(t.Period)
		}
	}
	return u
}
