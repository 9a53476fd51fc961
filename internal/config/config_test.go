package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/mazebatch/internal/seed"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mazebatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	policy, err := cfg.SeedPolicy()
	require.NoError(t, err)
	assert.Equal(t, seed.Sequential{}, policy)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
output:
  dir: /tmp/mazes
maze:
  flatten: true
count: 1000
seed:
  policy: spread
  max: 500
sweep:
  enabled: true
  min: 2
  max: 39
generator:
  kind: http
  url: http://mazes.internal:9000
  timeout: 3s
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/mazes", cfg.Output.Dir)
	assert.Equal(t, "mazes.json", cfg.Output.Name, "unset keys keep their defaults")
	assert.True(t, cfg.Maze.Flatten)
	assert.True(t, cfg.Maze.Perfect)
	assert.Equal(t, 1000, cfg.Count)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, 39, cfg.Sweep.Max)
	assert.Equal(t, GeneratorHTTP, cfg.Generator.Kind)
	assert.Equal(t, 3*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)

	policy, err := cfg.SeedPolicy()
	require.NoError(t, err)
	assert.Equal(t, seed.Spread{Max: 500}, policy)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "maze:\n  depth: 4\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvOutputDir, "/data/out")
	t.Setenv(EnvCount, "42")
	t.Setenv(EnvSeedPolicy, "offset")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvGeneratorURL, "http://other:1234")

	cfg, err := Load(writeFile(t, "count: 7\n"))
	require.NoError(t, err)

	assert.Equal(t, "/data/out", cfg.Output.Dir)
	assert.Equal(t, 42, cfg.Count, "environment wins over the file")
	assert.Equal(t, "offset", cfg.Seed.Policy)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "http://other:1234", cfg.Generator.URL)
}

func TestEnvCountMustBeNumeric(t *testing.T) {
	t.Setenv(EnvCount, "many")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty dir", func(c *Config) { c.Output.Dir = "" }, "output.dir"},
		{"empty name", func(c *Config) { c.Output.Name = " " }, "output.name"},
		{"zero count", func(c *Config) { c.Count = 0 }, "count"},
		{"zero width", func(c *Config) { c.Maze.Width = 0 }, "maze.width"},
		{"negative height", func(c *Config) { c.Maze.Height = -3 }, "maze.height"},
		{"unknown policy", func(c *Config) { c.Seed.Policy = "chaos" }, "seed"},
		{"negative spread max", func(c *Config) { c.Seed.Policy = "spread"; c.Seed.Max = -1 }, "seed"},
		{"sweep min", func(c *Config) { c.Sweep.Enabled = true; c.Sweep.Min = 0 }, "sweep.min"},
		{"sweep range", func(c *Config) { c.Sweep.Enabled = true; c.Sweep.Min = 10; c.Sweep.Max = 9 }, "sweep.max"},
		{"generator kind", func(c *Config) { c.Generator.Kind = "grpc" }, "generator.kind"},
		{"http without url", func(c *Config) { c.Generator.Kind = GeneratorHTTP; c.Generator.URL = "" }, "generator.url"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"negative timeout", func(c *Config) { c.Generator.Kind = GeneratorHTTP; c.Generator.Timeout = -time.Second }, "generator.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLogLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "INFO", " warn ", "error", "trace", "disabled"} {
		cfg := Default()
		cfg.Log.Level = level
		assert.NoError(t, cfg.Validate(), "level %q", level)
	}
}

func TestSweepIgnoresSingleSizeFields(t *testing.T) {
	cfg := Default()
	cfg.Sweep.Enabled = true
	cfg.Maze.Width = 0
	cfg.Output.Name = ""

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromBase(t *testing.T) {
	base := Default()
	base.Count = 1000
	base.Maze.Flatten = true

	cfg, err := LoadFrom(base, writeFile(t, "maze:\n  width: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Count)
	assert.True(t, cfg.Maze.Flatten)
	assert.Equal(t, 8, cfg.Maze.Width)
}
