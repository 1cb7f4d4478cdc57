package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rtasched/internal/config"
	"rtasched/internal/logging"
	"rtasched/internal/report"
	"rtasched/internal/sched"
	"rtasched/internal/taskset"
	"rtasched/internal/ui"
)

var (
	flagConfig   string
	flagJSON     bool
	flagLogLevel string
	flagNoColor  bool
)

// errUnschedulable makes the process exit with status 2 after the report
// has already been printed.
var errUnschedulable = errors.New("task set is unschedulable")

func main() {
	rootCmd := &cobra.Command{
		Use:   "rtasched",
		Short: "Response-time analysis for fixed-priority periodic task sets",
		Long: `rtasched reads a set of periodic tasks (CSV or YAML), computes the worst-case
response time of every task under preemptive fixed-priority scheduling and
reports whether all deadlines are met. It can also replay the critical-instant
schedule over one hyperperiod.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "rtasched.yml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(traceCmd())
	rootCmd.AddCommand(hyperperiodCmd())

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errUnschedulable) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.BoldRed("error:"), err)
		os.Exit(1)
	}
}

// env is what every subcommand needs before touching a task set.
type env struct {
	cfg config.Config
	log *logrus.Logger
}

func setup() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if flagNoColor {
		ui.SetEnabled(false)
	}
	return &env{cfg: cfg, log: log}, nil
}

// loadTasks reads the task file and logs the rows the reader had to skip.
func (e *env) loadTasks(path string) ([]*sched.Task, error) {
	start := time.Now()
	set, err := taskset.Load(path)
	if err != nil {
		return nil, err
	}

	for _, skipped := range set.Skipped {
		e.log.WithField("file", path).Warnf("skipping invalid row: %v", skipped)
	}
	for _, t := range set.Tasks {
		if t.Deadline > t.Period {
			e.log.WithFields(logrus.Fields{
				"task":     t.Name,
				"deadline": t.Deadline,
				"period":   t.Period,
			}).Warn("deadline exceeds period; analysis assumes deadline <= period")
		}
	}
	if len(set.Tasks) == 0 {
		e.log.WithField("file", path).Warn("no tasks loaded")
	}

	e.log.WithFields(logrus.Fields{
		"file":    path,
		"tasks":   len(set.Tasks),
		"skipped": len(set.Skipped),
		"elapsed": time.Since(start),
	}).Debug("task set loaded")
	return set.Tasks, nil
}

func (e *env) analyze(tasks []*sched.Task) (*sched.Analysis, error) {
	start := time.Now()
	a, err := sched.Analyze(tasks, e.cfg.Limits())
	if err != nil {
		return nil, fmt.Errorf("response-time analysis: %w", err)
	}
	e.log.WithFields(logrus.Fields{
		"tasks":       len(tasks),
		"schedulable": a.Schedulable,
		"elapsed":     time.Since(start),
	}).Info("response-time analysis finished")
	return a, nil
}

func (e *env) simulate(tasks []*sched.Task) (*sched.Trace, error) {
	start := time.Now()
	tr, err := sched.Simulate(tasks, e.cfg.Limits())
	if err != nil {
		return nil, fmt.Errorf("simulate schedule: %w", err)
	}
	e.log.WithFields(logrus.Fields{
		"hyperperiod": tr.Hyperperiod,
		"events":      len(tr.Events),
		"misses":      len(tr.Misses()),
		"elapsed":     time.Since(start),
	}).Info("schedule simulated")
	return tr, nil
}

func analyzeCmd() *cobra.Command {
	var flagNoChart bool

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Run response-time analysis and chart the schedule when it is feasible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			tasks, err := e.loadTasks(args[0])
			if err != nil {
				return err
			}
			a, err := e.analyze(tasks)
			if err != nil {
				return err
			}
			util := sched.Utilization(tasks)
			if util > 1 {
				e.log.WithField("utilization", util).Warn("processor utilization exceeds 1.0")
			}

			var tr *sched.Trace
			if a.Schedulable && !flagNoChart && len(tasks) > 0 {
				tr, err = e.simulate(tasks)
				if errors.Is(err, sched.ErrTraceTooLong) {
					e.log.WithError(err).Warn("skipping schedule chart")
					tr, err = nil, nil
				}
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				if err := report.WriteJSON(out, report.NewDocument(a, util, tr, false)); err != nil {
					return err
				}
			} else {
				report.PrintAnalysis(out, a, util)
				if tr != nil {
					report.PrintChart(out, tr, e.cfg.Trace.Busy, e.cfg.Trace.Idle)
				}
			}

			if !a.Schedulable {
				return errUnschedulable
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagNoChart, "no-chart", false, "Skip the schedule chart")

	return cmd
}

func traceCmd() *cobra.Command {
	var (
		flagCSV    string
		flagEvents bool
	)

	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Simulate the critical-instant schedule over one hyperperiod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			tasks, err := e.loadTasks(args[0])
			if err != nil {
				return err
			}
			a, err := e.analyze(tasks)
			if err != nil {
				return err
			}
			tr, err := e.simulate(tasks)
			if err != nil {
				return err
			}

			if flagCSV != "" {
				if err := writeEventsFile(flagCSV, tr); err != nil {
					return err
				}
				e.log.WithField("file", flagCSV).Info("trace events written")
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				doc := report.NewDocument(a, sched.Utilization(tasks), tr, flagEvents)
				if err := report.WriteJSON(out, doc); err != nil {
					return err
				}
			} else {
				report.PrintChart(out, tr, e.cfg.Trace.Busy, e.cfg.Trace.Idle)
			}

			if len(tr.Misses()) > 0 {
				return errUnschedulable
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagCSV, "csv", "", "Write trace events to a CSV file")
	cmd.Flags().BoolVar(&flagEvents, "events", false, "Include trace events in JSON output")

	return cmd
}

func hyperperiodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hyperperiod FILE",
		Short: "Print the least common multiple of all task periods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			tasks, err := e.loadTasks(args[0])
			if err != nil {
				return err
			}
			h, err := sched.Hyperperiod(tasks)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				return json.NewEncoder(out).Encode(map[string]int{"hyperperiod": h})
			}
			fmt.Fprintln(out, h)
			return nil
		},
	}
}

func writeEventsFile(path string, tr *sched.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := report.WriteEventsCSV(f, tr); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
