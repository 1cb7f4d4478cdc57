package ui

import "github.com/fatih/color"

// Sprint color functions for building styled strings.
var (
	Bold      = color.New(color.Bold).SprintFunc()
	Dim       = color.New(color.Faint).SprintFunc()
	Red       = color.New(color.FgRed).SprintFunc()
	BoldCyan  = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed   = color.New(color.Bold, color.FgRed).SprintFunc()
)

// taskColors is a palette of distinct bold colors for differentiating tasks.
var taskColors = []func(a ...interface{}) string{
	color.New(color.Bold, color.FgMagenta).SprintFunc(),
	BoldCyan,
	color.New(color.Bold, color.FgYellow).SprintFunc(),
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// TaskColor returns the palette entry for the i-th task.
func TaskColor(i int) func(a ...interface{}) string {
	if i < 0 {
		i = -i
	}
	return taskColors[i%len(taskColors)]
}

// Verdict renders a schedulability verdict.
func Verdict(ok bool) string {
	if ok {
		return BoldGreen("SCHEDULABLE")
	}
	return BoldRed("UNSCHEDULABLE")
}

// SetEnabled forces colored output on or off.
func SetEnabled(on bool) {
	color.NoColor = !on
}
