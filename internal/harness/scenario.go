package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/statemig/internal/blockstate"
	"github.com/roach88/statemig/internal/schema"
	"github.com/roach88/statemig/internal/tag"
	"github.com/roach88/statemig/internal/wire"
)

// Scenario defines an upgrade scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schemas is the directory of mapping_schema_NNNN files to load.
	// Relative paths are resolved against the scenario file's directory.
	Schemas string `yaml:"schemas"`

	// From is the dotted version the input state was written at.
	From string `yaml:"from"`

	// Input is the block state to upgrade.
	Input StateSpec `yaml:"input"`

	// Expect is the state expected after upgrading to the latest version.
	Expect StateSpec `yaml:"expect"`
}

// StateSpec is the YAML form of a block state. Property values use the same
// {type, value} form as rule files.
type StateSpec struct {
	Name   string              `yaml:"name"`
	States map[string]wire.Tag `yaml:"states,omitempty"`
}

// State converts s to a block state, checking every property value.
func (s StateSpec) State() (blockstate.State, error) {
	props := make(map[string]tag.Value, len(s.States))
	for _, k := range schema.SortedKeys(s.States) {
		t := s.States[k]
		v, err := tag.New(t.Type, t.Value)
		if err != nil {
			return blockstate.State{}, fmt.Errorf("property %q: %w", k, err)
		}
		props[k] = v
	}
	return blockstate.New(s.Name, props), nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields, catches typos like "expected:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Schemas != "" && !filepath.IsAbs(scenario.Schemas) {
		scenario.Schemas = filepath.Join(filepath.Dir(path), scenario.Schemas)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Schemas == "" {
		return fmt.Errorf("schemas directory is required")
	}

	if info, err := os.Stat(s.Schemas); err != nil || !info.IsDir() {
		return fmt.Errorf("schemas directory not found: %s", s.Schemas)
	}

	if s.From == "" {
		return fmt.Errorf("from version is required")
	}
	if _, err := schema.ParseVersion(s.From); err != nil {
		return fmt.Errorf("from: %w", err)
	}

	if s.Input.Name == "" {
		return fmt.Errorf("input.name is required")
	}
	if _, err := s.Input.State(); err != nil {
		return fmt.Errorf("input: %w", err)
	}

	if s.Expect.Name == "" {
		return fmt.Errorf("expect.name is required")
	}
	if _, err := s.Expect.State(); err != nil {
		return fmt.Errorf("expect: %w", err)
	}

	return nil
}
