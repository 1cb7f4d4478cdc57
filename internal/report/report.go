package report

import (
	"fmt"
	"io"
	"strings"

	"rtasched/internal/sched"
	"rtasched/internal/ui"
)

// PrintAnalysis writes the verdict and a per-task table in priority order.
func PrintAnalysis(w io.Writer, a *sched.Analysis, utilization float64) {
	fmt.Fprintf(w, "Task set is %s.\n", ui.Verdict(a.Schedulable))
	util := fmt.Sprintf("%.3f", utilization)
	if utilization > 1 {
		util = ui.Red(util + " (> 1.0)")
	}
	fmt.Fprintf(w, "%s %s\n", ui.Dim("Utilization:"), util)

	nameWidth := len("Task")
	for _, r := range a.Results {
		if len(r.Task.Name) > nameWidth {
			nameWidth = len(r.Task.Name)
		}
	}

	header := fmt.Sprintf("%-*s | %6s | %6s | %8s | %8s | %6s | %6s | %s",
		nameWidth, "Task", "WCET", "Period", "Deadline", "Priority", "WCRT", "Slack", "Verdict")
	rule := strings.Repeat("-", len(header))

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, ui.Bold(header))
	fmt.Fprintln(w, rule)
	for _, r := range a.Results {
		t := r.Task
		verdict := ui.BoldGreen("ok")
		if !r.Schedulable {
			verdict = ui.BoldRed("MISS")
		}
		fmt.Fprintf(w, "%-*s | %6d | %6d | %8d | %8d | %6d | %6d | %s\n",
			nameWidth, t.Name, t.WCET, t.Period, t.Deadline, t.Priority, r.ResponseTime, r.Slack, verdict)
	}
	fmt.Fprintln(w, rule)
}

// PrintChart writes one row per task with a busy or idle glyph per time unit.
func PrintChart(w io.Writer, tr *sched.Trace, busy, idle string) {
	fmt.Fprintf(w, "\n%s %d\n", ui.Bold("Hyperperiod:"), tr.Hyperperiod)
	fmt.Fprintf(w, "Schedule Visualization (Worst-Case Scenario):\n\n")

	nameWidth := 3
	for _, row := range tr.Rows {
		if len(row.Task.Name) > nameWidth {
			nameWidth = len(row.Task.Name)
		}
	}

	for i, row := range tr.Rows {
		paint := ui.TaskColor(i)
		var b strings.Builder
		for _, on := range row.Busy {
			if on {
				b.WriteString(paint(busy))
			} else {
				b.WriteString(idle)
			}
		}
		fmt.Fprintf(w, "%-*s %s\n", nameWidth, row.Task.Name, b.String())
	}

	if misses := tr.Misses(); len(misses) > 0 {
		fmt.Fprintln(w)
		for _, m := range misses {
			fmt.Fprintf(w, "%s %s job %d (released %d) missed its deadline at %d\n",
				ui.BoldRed("!"), m.Task, m.Seq, m.Release, m.Deadline)
		}
	}
}
