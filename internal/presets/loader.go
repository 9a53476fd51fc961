package presets

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/mazebatch/internal/config"
)

const presetsFile = "presets.yaml"

// ErrUnknownPreset is returned by Get for names not in presets.yaml.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named overlay on top of config.Default().
type Preset struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Config      yaml.Node `yaml:"config"`
}

// Resolve applies the preset overlay to the default configuration.
func (p *Preset) Resolve() (config.Config, error) {
	cfg := config.Default()
	if p.Config.Kind == 0 {
		return cfg, nil
	}
	if err := p.Config.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return cfg, nil
}

type presetsFileDoc struct {
	Presets []Preset `yaml:"presets"`
}

// load reads and unmarshals a YAML file from the embedded filesystem.
func load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse YAML from %s: %w", filename, err)
	}

	return result, nil
}

// Load returns every embedded preset, sorted by name.
func Load() ([]Preset, error) {
	doc, err := load[presetsFileDoc](presetsFile)
	if err != nil {
		return nil, err
	}
	sort.Slice(doc.Presets, func(i, j int) bool {
		return doc.Presets[i].Name < doc.Presets[j].Name
	})
	return doc.Presets, nil
}

// Get resolves the named preset into a full configuration.
func Get(name string) (config.Config, error) {
	all, err := Load()
	if err != nil {
		return config.Config{}, err
	}
	for i := range all {
		if all[i].Name == name {
			return all[i].Resolve()
		}
	}
	return config.Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}
