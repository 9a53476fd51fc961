// Package config holds the run configuration for mazebatch: maze size,
// batch size, seed policy, sweep range, generator backend, and output.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samdwyer/mazebatch/internal/logging"
	"github.com/samdwyer/mazebatch/internal/seed"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Generator backends.
const (
	GeneratorLocal = "local"
	GeneratorHTTP  = "http"
)

// Config is the full run configuration.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Maze      MazeConfig      `yaml:"maze"`
	Count     int             `yaml:"count"`
	Seed      SeedConfig      `yaml:"seed"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Generator GeneratorConfig `yaml:"generator"`
	Log       LogConfig       `yaml:"log"`
}

// OutputConfig controls where documents are written.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"` // single-size file name; sweeps use mazes_<size>.json
}

// MazeConfig describes the mazes of a single-size run.
type MazeConfig struct {
	Width   int  `yaml:"width"`
	Height  int  `yaml:"height"`
	Perfect bool `yaml:"perfect"`
	Flatten bool `yaml:"flatten"`
}

// SeedConfig selects the seed policy.
type SeedConfig struct {
	Policy string `yaml:"policy"`
	Offset int64  `yaml:"offset"`
	Max    int64  `yaml:"max"`
}

// SweepConfig drives a run over square sizes Min..Max inclusive.
type SweepConfig struct {
	Enabled   bool `yaml:"enabled"`
	Min       int  `yaml:"min"`
	Max       int  `yaml:"max"`
	KeepGoing bool `yaml:"keep_going"`
}

// GeneratorConfig selects the maze service backend.
type GeneratorConfig struct {
	Kind    string        `yaml:"kind"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig sets the zerolog level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration: two 3x3 perfect mazes with
// sequential seeds written to ./out/mazes.json.
func Default() Config {
	return Config{
		Output: OutputConfig{
			Dir:  "./out",
			Name: "mazes.json",
		},
		Maze: MazeConfig{
			Width:   3,
			Height:  3,
			Perfect: true,
		},
		Count: 2,
		Seed: SeedConfig{
			Policy: seed.NameSequential,
			Max:    seed.DefaultSpreadMax,
		},
		Sweep: SweepConfig{
			Min: 2,
			Max: 39,
		},
		Generator: GeneratorConfig{
			Kind:    GeneratorLocal,
			URL:     "http://127.0.0.1:8080",
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every field and reports the first problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return invalid("output.dir", "must not be empty")
	}
	if !c.Sweep.Enabled && strings.TrimSpace(c.Output.Name) == "" {
		return invalid("output.name", "must not be empty")
	}
	if c.Count <= 0 {
		return invalid("count", "must be positive, got %d", c.Count)
	}

	if c.Sweep.Enabled {
		if c.Sweep.Min <= 0 {
			return invalid("sweep.min", "must be positive, got %d", c.Sweep.Min)
		}
		if c.Sweep.Max < c.Sweep.Min {
			return invalid("sweep.max", "must be at least sweep.min (%d), got %d", c.Sweep.Min, c.Sweep.Max)
		}
	} else {
		if c.Maze.Width <= 0 {
			return invalid("maze.width", "must be positive, got %d", c.Maze.Width)
		}
		if c.Maze.Height <= 0 {
			return invalid("maze.height", "must be positive, got %d", c.Maze.Height)
		}
	}

	if _, err := c.SeedPolicy(); err != nil {
		return invalid("seed", "%v", err)
	}

	switch c.Generator.Kind {
	case GeneratorLocal:
	case GeneratorHTTP:
		if strings.TrimSpace(c.Generator.URL) == "" {
			return invalid("generator.url", "is required for the http generator")
		}
		if c.Generator.Timeout < 0 {
			return invalid("generator.timeout", "must not be negative")
		}
	default:
		return invalid("generator.kind", "must be %q or %q, got %q", GeneratorLocal, GeneratorHTTP, c.Generator.Kind)
	}
	return c.ValidateLog()
}

// ValidateLog checks only the logging section. Commands that do not run a
// batch use it in place of Validate.
func (c Config) ValidateLog() error {
	if err := logging.CheckLevel(c.Log.Level); err != nil {
		return invalid("log.level", "%v", err)
	}
	return nil
}

// SeedPolicy builds the configured seed policy.
func (c Config) SeedPolicy() (seed.Policy, error) {
	return seed.Parse(c.Seed.Policy, c.Seed.Offset, c.Seed.Max)
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, fmt.Sprintf(format, args...))
}
