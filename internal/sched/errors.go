package sched

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTaskParameter = errors.New("invalid task parameter")
	ErrNonConvergent        = errors.New("response time did not converge")
	ErrArithmeticOverflow   = errors.New("arithmetic overflow")
	ErrTraceTooLong         = errors.New("hyperperiod exceeds trace limit")
)

// TaskError attaches the offending task to one of the sentinel errors.
type TaskError struct {
	Task  string
	Field string
	Value int
	Err   error
}

func (e *TaskError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("task %q: %v", e.Task, e.Err)
	}
	return fmt.Sprintf("task %q: %v: %s=%d", e.Task, e.Err, e.Field, e.Value)
}

func (e *TaskError) Unwrap() error { return e.Err }
