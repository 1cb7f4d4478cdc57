// Package taskset reads task definitions from CSV and YAML files.
//
// CSV files carry a header row followed by one task per row in the column
// order name,wcet,bcet,period,deadline,priority. Rows with the wrong number
// of columns or non-integer fields are skipped and reported in Set.Skipped
// rather than failing the whole file.
//
// YAML files hold a top-level "tasks" list using the same field names. A
// missing deadline defaults to the period.
package taskset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"rtasched/internal/sched"
)

// Format identifies a task-set file format.
type Format int

const (
	FormatCSV Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Columns is the CSV column order.
var Columns = []string{"name", "wcet", "bcet", "period", "deadline", "priority"}

// RowError describes a CSV row that was skipped.
type RowError struct {
	Line   int
	Record string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Record)
}

// Set is a parsed task set in input order.
type Set struct {
	Tasks   []*sched.Task
	Skipped []RowError
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unrecognised task file extension %q", filepath.Ext(path))
	}
}

// Load reads the task-set file at path.
func Load(path string) (*Set, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return Read(bytes.NewReader(data), format)
}

// Read parses a task set in the given format.
func Read(r io.Reader, format Format) (*Set, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatYAML:
		return readYAML(r)
	default:
		return nil, fmt.Errorf("unsupported task file format %d", format)
	}
}

var errColumns = errors.New("wrong number of columns")

func readCSV(r io.Reader) (*Set, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	set := &Set{}
	header := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				set.Skipped = append(set.Skipped, RowError{Line: perr.Line, Err: perr.Err})
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)

		task, err := parseRecord(sched.TaskID(len(set.Tasks)), record)
		if err != nil {
			set.Skipped = append(set.Skipped, RowError{
				Line:   line,
				Record: strings.Join(record, ","),
				Err:    err,
			})
			continue
		}
		set.Tasks = append(set.Tasks, task)
	}
	return set, nil
}

func parseRecord(id sched.TaskID, record []string) (*sched.Task, error) {
	if len(record) != len(Columns) {
		return nil, fmt.Errorf("%w: got %d, want %d", errColumns, len(record), len(Columns))
	}

	var nums [5]int
	for i := range nums {
		field := strings.TrimSpace(record[i+1])
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", Columns[i+1], field)
		}
		nums[i] = n
	}

	name := strings.TrimSpace(record[0])
	return sched.NewTask(id, name, nums[0], nums[1], nums[2], nums[3], nums[4]), nil
}

type yamlTask struct {
	Name     string `yaml:"name"`
	WCET     int    `yaml:"wcet"`
	BCET     int    `yaml:"bcet"`
	Period   int    `yaml:"period"`
	Deadline int    `yaml:"deadline"`
	Priority int    `yaml:"priority"`
}

type yamlFile struct {
	Tasks []yamlTask `yaml:"tasks"`
}

func readYAML(r io.Reader) (*Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}

	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml task set: %w", err)
	}

	set := &Set{Tasks: make([]*sched.Task, 0, len(f.Tasks))}
	for i, t := range f.Tasks {
		deadline := t.Deadline
		if deadline == 0 {
			deadline = t.Period
		}
		set.Tasks = append(set.Tasks, sched.NewTask(sched.TaskID(i), t.Name, t.WCET, t.BCET, t.Period, deadline, t.Priority))
	}
	return set, nil
}
