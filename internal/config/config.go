package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	yaml "github.com/goccy/go-yaml"

	"rtasched/internal/sched"
)

// Config mirrors rtasched.yml
type Config struct {
	Solver SolverConfig `yaml:"solver"`
	Trace  TraceConfig  `yaml:"trace"`
	Log    LogConfig    `yaml:"log"`
}

type SolverConfig struct {
	MaxIterations int `yaml:"max_iterations"` // 1000 (by default)
}

type TraceConfig struct {
	MaxUnits int    `yaml:"max_units"` // 100000 (by default)
	Busy     string `yaml:"busy"`      // "|" (by default)
	Idle     string `yaml:"idle"`      // "_" (by default)
}

// LogConfig configures the logrus logger built by internal/logging.
type LogConfig struct {
	Level      string `yaml:"level"`  // info
	Format     string `yaml:"format"` // text | json
	Output     string `yaml:"output"` // stdout | stderr | file
	FilePath   string `yaml:"file_path"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
	Compress   bool   `yaml:"compress"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	limits := sched.DefaultLimits()
	return Config{
		Solver: SolverConfig{MaxIterations: limits.MaxIterations},
		Trace: TraceConfig{
			MaxUnits: limits.MaxTraceUnits,
			Busy:     "|",
			Idle:     "_",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// Load reads YAML and overrides defaults; empty path or a missing file means
// defaults only. A file that exists but does not parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.clamp()
	return cfg, nil
}

// clamp restores defaults for values that make no sense.
func (c *Config) clamp() {
	def := Default()
	if c.Solver.MaxIterations <= 0 {
		c.Solver.MaxIterations = def.Solver.MaxIterations
	}
	if c.Trace.MaxUnits <= 0 {
		c.Trace.MaxUnits = def.Trace.MaxUnits
	}
	if c.Trace.Busy == "" {
		c.Trace.Busy = def.Trace.Busy
	}
	if c.Trace.Idle == "" {
		c.Trace.Idle = def.Trace.Idle
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Log.Output == "" {
		c.Log.Output = def.Log.Output
	}
}

// Limits converts the solver and trace sections into sched.Limits.
func (c Config) Limits() sched.Limits {
	return sched.Limits{
		MaxIterations: c.Solver.MaxIterations,
		MaxTraceUnits: c.Trace.MaxUnits,
	}
}
