// internal/sched/schedulerEvent.go

package sched

// StatusKind represents the type of simulator event
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusRelease
	StatusDispatch
	StatusPreempt
	StatusFinish
	StatusDeadlineMiss
)

// StatusEvent is emitted by Simulate on every state change of the processor
// or of a job. Task is empty for StatusIdle.
type StatusEvent struct {
	Tick      int
	Kind      StatusKind
	Task      string
	Job       int
	Remaining int
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusRelease:
		return "Release"
	case StatusDispatch:
		return "Dispatch"
	case StatusPreempt:
		return "Preempt"
	case StatusFinish:
		return "Finish"
	case StatusDeadlineMiss:
		return "DeadlineMiss"
	default:
		return "Unknown"
	}
}
