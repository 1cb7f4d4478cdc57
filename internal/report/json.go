package report

import (
	"encoding/json"
	"io"

	"rtasched/internal/sched"
)

// TaskJSON is one task in the JSON report.
type TaskJSON struct {
	Name         string `json:"name"`
	WCET         int    `json:"wcet"`
	BCET         int    `json:"bcet"`
	Period       int    `json:"period"`
	Deadline     int    `json:"deadline"`
	Priority     int    `json:"priority"`
	ResponseTime int    `json:"response_time"`
	Slack        int    `json:"slack"`
	Schedulable  bool   `json:"schedulable"`
	Iterations   []int  `json:"iterations"`
}

// TraceJSON is the simulated trace in the JSON report.
type TraceJSON struct {
	Hyperperiod int               `json:"hyperperiod"`
	Occupancy   map[string]string `json:"occupancy"`
	Jobs        []JobJSON         `json:"jobs"`
	Events      []EventJSON       `json:"events,omitempty"`
}

// JobJSON is one simulated job. Finish is -1 for unfinished jobs.
type JobJSON struct {
	Task     string `json:"task"`
	Seq      int    `json:"seq"`
	Release  int    `json:"release"`
	Finish   int    `json:"finish"`
	Deadline int    `json:"deadline"`
	Missed   bool   `json:"missed"`
}

// EventJSON is a simulator event with its kind spelled out.
type EventJSON struct {
	Tick      int    `json:"tick"`
	Kind      string `json:"kind"`
	Task      string `json:"task,omitempty"`
	Job       int    `json:"job"`
	Remaining int    `json:"remaining"`
}

// Document is the complete JSON report.
type Document struct {
	Schedulable bool       `json:"task_set_schedulable"`
	Utilization float64    `json:"utilization"`
	Tasks       []TaskJSON `json:"tasks"`
	Trace       *TraceJSON `json:"trace,omitempty"`
}

// NewDocument builds the JSON report. tr may be nil.
func NewDocument(a *sched.Analysis, utilization float64, tr *sched.Trace, withEvents bool) Document {
	doc := Document{
		Schedulable: a.Schedulable,
		Utilization: utilization,
		Tasks:       make([]TaskJSON, 0, len(a.Results)),
	}
	for _, r := range a.Results {
		t := r.Task
		doc.Tasks = append(doc.Tasks, TaskJSON{
			Name:         t.Name,
			WCET:         t.WCET,
			BCET:         t.BCET,
			Period:       t.Period,
			Deadline:     t.Deadline,
			Priority:     t.Priority,
			ResponseTime: r.ResponseTime,
			Slack:        r.Slack,
			Schedulable:  r.Schedulable,
			Iterations:   r.Iterations,
		})
	}
	if tr != nil {
		doc.Trace = newTraceJSON(tr, withEvents)
	}
	return doc
}

func newTraceJSON(tr *sched.Trace, withEvents bool) *TraceJSON {
	out := &TraceJSON{
		Hyperperiod: tr.Hyperperiod,
		Occupancy:   make(map[string]string, len(tr.Rows)),
		Jobs:        make([]JobJSON, 0, len(tr.Jobs)),
	}
	for _, j := range tr.Jobs {
		out.Jobs = append(out.Jobs, JobJSON(j))
	}
	for _, row := range tr.Rows {
		b := make([]byte, len(row.Busy))
		for i, on := range row.Busy {
			if on {
				b[i] = '|'
			} else {
				b[i] = '_'
			}
		}
		out.Occupancy[row.Task.Name] = string(b)
	}
	if withEvents {
		for _, ev := range tr.Events {
			out.Events = append(out.Events, EventJSON{
				Tick:      ev.Tick,
				Kind:      ev.Kind.String(),
				Task:      ev.Task,
				Job:       ev.Job,
				Remaining: ev.Remaining,
			})
		}
	}
	return out
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
