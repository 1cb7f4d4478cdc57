package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"rtasched/internal/sched"
)

// WriteEventsCSV writes the simulator events of tr as CSV with a header row.
func WriteEventsCSV(w io.Writer, tr *sched.Trace) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"tick", "event", "task", "job", "remaining"}); err != nil {
		return err
	}
	for _, ev := range tr.Events {
		rec := []string{
			strconv.Itoa(ev.Tick),
			ev.Kind.String(),
			ev.Task,
			strconv.Itoa(ev.Job),
			strconv.Itoa(ev.Remaining),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
