package sched

import (
	"fmt"
	"sort"
)

// TaskID is the 0-based position of a task in its input set.
type TaskID int

// Task represents one periodic real-time task.
type Task struct {
	ID           TaskID
	Name         string
	WCET         int // worst-case execution time per job
	BCET         int // best-case execution time, informational only
	Period       int
	Deadline     int // relative to release, expected <= Period
	Priority     int // lower value is higher priority
	ResponseTime int // worst-case response time, written by Analyze
}

// NewTask creates a task with an unset response time.
func NewTask(id TaskID, name string, wcet, bcet, period, deadline, priority int) *Task {
	return &Task{
		ID:       id,
		Name:     name,
		WCET:     wcet,
		BCET:     bcet,
		Period:   period,
		Deadline: deadline,
		Priority: priority,
	}
}

// Validate reports the first non-positive timing attribute of t.
func (t *Task) Validate() error {
	switch {
	case t.WCET <= 0:
		return &TaskError{Task: t.Name, Field: "wcet", Value: t.WCET, Err: ErrInvalidTaskParameter}
	case t.Period <= 0:
		return &TaskError{Task: t.Name, Field: "period", Value: t.Period, Err: ErrInvalidTaskParameter}
	case t.Deadline <= 0:
		return &TaskError{Task: t.Name, Field: "deadline", Value: t.Deadline, Err: ErrInvalidTaskParameter}
	}
	return nil
}

func (t *Task) String() string {
	return fmt.Sprintf("Task: %s, WCET: %d, Period: %d, Deadline: %d, Priority: %d, WCRT: %d",
		t.Name, t.WCET, t.Period, t.Deadline, t.Priority, t.ResponseTime)
}

// ByPriority returns a copy of tasks ordered highest priority first.
// Equal priority values keep their input order (ascending ID).
func ByPriority(tasks []*Task) []*Task {
	ordered := make([]*Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].Priority != ordered[b].Priority {
			return ordered[a].Priority < ordered[b].Priority
		}
		return ordered[a].ID < ordered[b].ID
	})
	return ordered
}

func validateAll(tasks []*Task) error {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
