package job

// Job is one release of a periodic task inside a simulated hyperperiod.
type Job struct {
	Task      int // index of the owning task in priority order
	Seq       int // 0-based release number of the task
	Priority  int
	Release   int
	Deadline  int // absolute deadline
	Remaining int
	Finish    int // tick at which the last unit completed, -1 while unfinished
	Missed    bool
}

// New creates the seq-th job of a task with the given timing attributes.
func New(task, seq, priority, release, relDeadline, wcet int) *Job {
	return &Job{
		Task:      task,
		Seq:       seq,
		Priority:  priority,
		Release:   release,
		Deadline:  release + relDeadline,
		Remaining: wcet,
		Finish:    -1,
	}
}

// Releases generates every job of a task released in [0, horizon).
func Releases(task, priority, period, relDeadline, wcet, horizon int) []*Job {
	if period <= 0 {
		return nil
	}
	jobs := make([]*Job, 0, (horizon+period-1)/period)
	for seq, release := 0, 0; release < horizon; seq, release = seq+1, release+period {
		jobs = append(jobs, New(task, seq, priority, release, relDeadline, wcet))
	}
	return jobs
}

// Run executes one unit of the job during tick now.
// It returns true when the job completes with this unit.
func (j *Job) Run(now int) bool {
	if j.Remaining <= 0 {
		return false
	}
	j.Remaining--
	if j.Remaining == 0 {
		j.Finish = now + 1
		return true
	}
	return false
}

// Done reports whether the job has no execution left.
func (j *Job) Done() bool { return j.Remaining <= 0 }

// ResponseTime is Finish - Release, or -1 while unfinished.
func (j *Job) ResponseTime() int {
	if j.Finish < 0 {
		return -1
	}
	return j.Finish - j.Release
}
