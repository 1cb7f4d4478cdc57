// internal/sched/simulator.go

package sched

import (
	"fmt"

	"github.com/emirpasic/gods/trees/redblacktree"

	"rtasched/internal/job"
)

// TraceRow is the per-unit occupancy of one task over the hyperperiod.
type TraceRow struct {
	Task *Task
	Busy []bool
}

// JobOutcome summarises one simulated job.
type JobOutcome struct {
	Task     string
	Seq      int
	Release  int
	Finish   int // -1 when still unfinished at the end of the hyperperiod
	Deadline int
	Missed   bool
}

// Trace is the worst-case preemptive execution over one hyperperiod.
type Trace struct {
	Hyperperiod int
	Rows        []TraceRow    // priority order
	Timeline    []int         // row index running at each unit, -1 when idle
	Events      []StatusEvent // chronological
	Jobs        []JobOutcome
}

// Row returns the occupancy row of the named task.
func (tr *Trace) Row(name string) (TraceRow, bool) {
	for _, r := range tr.Rows {
		if r.Task.Name == name {
			return r, true
		}
	}
	return TraceRow{}, false
}

// MaxObservedResponse returns the largest finish-release distance seen for
// the named task, or false when none of its jobs finished.
func (tr *Trace) MaxObservedResponse(name string) (int, bool) {
	worst, found := 0, false
	for _, j := range tr.Jobs {
		if j.Task != name || j.Finish < 0 {
			continue
		}
		if rt := j.Finish - j.Release; !found || rt > worst {
			worst, found = rt, true
		}
	}
	return worst, found
}

// Misses returns every job that missed its deadline.
func (tr *Trace) Misses() []JobOutcome {
	var out []JobOutcome
	for _, j := range tr.Jobs {
		if j.Missed {
			out = append(out, j)
		}
	}
	return out
}

// simulator holds the state of a single Simulate call.
type simulator struct {
	ordered   []*Task
	ready     *redblacktree.Tree // ready jobs ordered by jobKey
	releases  map[int][]*job.Job // jobs by release tick
	deadlines map[int][]*job.Job // jobs by absolute deadline
	jobs      []*job.Job         // every job, grouped by task
	trace     *Trace
}

// Simulate replays the critical-instant release pattern of tasks under
// fully preemptive fixed-priority scheduling, one time unit at a time, over
// one hyperperiod. At every unit the released, unfinished job with the
// smallest priority value runs; equal priorities resolve by input order and
// then by release time.
func Simulate(tasks []*Task, limits Limits) (*Trace, error) {
	if err := validateAll(tasks); err != nil {
		return nil, err
	}
	limits = limits.normalized()

	ordered := ByPriority(tasks)
	h, err := Hyperperiod(ordered)
	if err != nil {
		return nil, err
	}
	if h > limits.MaxTraceUnits {
		return nil, fmt.Errorf("hyperperiod %d > %d units: %w", h, limits.MaxTraceUnits, ErrTraceTooLong)
	}

	s := &simulator{
		ordered:   ordered,
		ready:     redblacktree.NewWith(cmpJobKey),
		releases:  make(map[int][]*job.Job),
		deadlines: make(map[int][]*job.Job),
		trace: &Trace{
			Hyperperiod: h,
			Rows:        make([]TraceRow, len(ordered)),
			Timeline:    make([]int, h),
		},
	}
	for i, t := range ordered {
		s.trace.Rows[i] = TraceRow{Task: t, Busy: make([]bool, h)}
		for _, j := range job.Releases(i, t.Priority, t.Period, t.Deadline, t.WCET, h) {
			s.jobs = append(s.jobs, j)
			s.releases[j.Release] = append(s.releases[j.Release], j)
			s.deadlines[j.Deadline] = append(s.deadlines[j.Deadline], j)
		}
	}

	s.run(NewTickClock(h))
	return s.trace, nil
}

func (s *simulator) run(clock *TickClock) {
	var prev *job.Job
	idle := false

	for now, ok := clock.Tick(); ok; now, ok = clock.Tick() {
		s.checkDeadlines(now)

		for _, j := range s.releases[now] {
			s.ready.Put(keyOf(j), j)
			s.emit(now, StatusRelease, j)
		}

		node := s.ready.Left()
		if node == nil {
			if !idle {
				s.trace.Events = append(s.trace.Events, StatusEvent{Tick: now, Kind: StatusIdle, Job: -1})
				idle = true
			}
			s.trace.Timeline[now] = -1
			prev = nil
			continue
		}
		idle = false

		j := node.Value.(*job.Job)
		if j != prev {
			if prev != nil && !prev.Done() {
				s.emit(now, StatusPreempt, prev)
			}
			s.emit(now, StatusDispatch, j)
		}

		s.trace.Timeline[now] = j.Task
		s.trace.Rows[j.Task].Busy[now] = true

		if j.Run(now) {
			s.ready.Remove(keyOf(j))
			s.emit(now+1, StatusFinish, j)
			prev = nil
		} else {
			prev = j
		}
	}
	s.checkDeadlines(clock.Count())

	s.trace.Jobs = make([]JobOutcome, 0, len(s.jobs))
	for _, j := range s.jobs {
		s.trace.Jobs = append(s.trace.Jobs, JobOutcome{
			Task:     s.ordered[j.Task].Name,
			Seq:      j.Seq,
			Release:  j.Release,
			Finish:   j.Finish,
			Deadline: j.Deadline,
			Missed:   j.Missed,
		})
	}
}

// checkDeadlines flags jobs whose absolute deadline is now and that still
// have execution left. Late jobs stay in the ready queue and keep running.
func (s *simulator) checkDeadlines(now int) {
	for _, j := range s.deadlines[now] {
		if !j.Done() && !j.Missed {
			j.Missed = true
			s.emit(now, StatusDeadlineMiss, j)
		}
	}
}

func (s *simulator) emit(tick int, kind StatusKind, j *job.Job) {
	s.trace.Events = append(s.trace.Events, StatusEvent{
		Tick:      tick,
		Kind:      kind,
		Task:      s.ordered[j.Task].Name,
		Job:       j.Seq,
		Remaining: j.Remaining,
	})
}

// jobKey is used as a key in the red-black tree.
type jobKey struct {
	priority int
	task     int
	seq      int
}

func keyOf(j *job.Job) jobKey {
	return jobKey{priority: j.Priority, task: j.Task, seq: j.Seq}
}

// cmpJobKey implements the Comparator for red-black tree ordering.
func cmpJobKey(a, b any) int {
	ka, kb := a.(jobKey), b.(jobKey)
	switch {
	case ka.priority < kb.priority:
		return -1
	case ka.priority > kb.priority:
		return 1
	case ka.task < kb.task:
		return -1
	case ka.task > kb.task:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}
