// internal/models/battery.go
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TestDef describes one battery entry: which engine runs and what the
// instruction card shows before it.
type TestDef struct {
	ID           string `yaml:"id"`
	Engine       string `yaml:"engine"`
	Name         string `yaml:"name"`
	Instructions string `yaml:"instructions"`
}

// Battery is the ordered list of tests a session runs.
type Battery struct {
	Title string    `yaml:"title"`
	Tests []TestDef `yaml:"tests"`
}

// LoadBattery reads and parses the battery definition file.
func LoadBattery(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read battery file: %w", err)
	}

	var battery Battery
	if err := yaml.Unmarshal(data, &battery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal battery YAML: %w", err)
	}

	if err := battery.Validate(); err != nil {
		return nil, err
	}
	return &battery, nil
}

// Validate checks the structural rules: at least one test, every entry
// naming an id and an engine, ids unique. Whether an engine id is actually
// registered is checked at startup, where the registry is in scope.
func (b *Battery) Validate() error {
	if len(b.Tests) == 0 {
		return fmt.Errorf("battery defines no tests")
	}

	seen := make(map[string]bool, len(b.Tests))
	for i, t := range b.Tests {
		if t.ID == "" {
			return fmt.Errorf("battery test %d has no id", i)
		}
		if t.Engine == "" {
			return fmt.Errorf("battery test %q has no engine", t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("battery test id %q repeated", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// Names returns the display names in battery order.
func (b *Battery) Names() []string {
	names := make([]string, len(b.Tests))
	for i, t := range b.Tests {
		names[i] = t.Name
	}
	return names
}
