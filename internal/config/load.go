package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvOutputDir    = "MAZEBATCH_OUTPUT_DIR"
	EnvCount        = "MAZEBATCH_COUNT"
	EnvSeedPolicy   = "MAZEBATCH_SEED_POLICY"
	EnvLogLevel     = "MAZEBATCH_LOG_LEVEL"
	EnvGeneratorURL = "MAZEBATCH_GENERATOR_URL"
)

// Load builds a configuration from the defaults, the YAML file at path (if
// any), and environment overrides. The result is not validated so callers
// can apply flag overrides first.
func Load(path string) (Config, error) {
	return LoadFrom(Default(), path)
}

// LoadFrom is Load with an explicit base configuration, such as a preset.
func LoadFrom(base Config, path string) (Config, error) {
	cfg := base
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := Decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode strictly unmarshals YAML over cfg; unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays the MAZEBATCH_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv(EnvCount); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvCount, v)
		}
		cfg.Count = n
	}
	if v := os.Getenv(EnvSeedPolicy); v != "" {
		cfg.Seed.Policy = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvGeneratorURL); v != "" {
		cfg.Generator.URL = v
	}
	return nil
}
