package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/rateio/internal/model"
)

// Scenario is a what-if file passed with --file. Every field is optional.
type Scenario struct {
	Rate       *float64           `toml:"rate" yaml:"rate" json:"rate"`
	Allocation ScenarioAllocation `toml:"allocation" yaml:"allocation" json:"allocation"`
	Costs      []model.CostEntry  `toml:"costs" yaml:"costs" json:"costs"`
}

// ScenarioAllocation overrides individual allocation settings.
type ScenarioAllocation struct {
	Mode             *model.AllocationMode `toml:"mode" yaml:"mode" json:"mode"`
	TargetUsers      *int                  `toml:"target_users" yaml:"target_users" json:"target_users"`
	TargetPercentage *float64              `toml:"target_percentage" yaml:"target_percentage" json:"target_percentage"`
}

// LoadScenario reads a TOML, YAML or JSON scenario file, chosen by extension.
func LoadScenario(path string) (Scenario, error) {
	ext := strings.ToLower(filepath.Ext(path))

	info, err := os.Stat(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("error accessing scenario file: %w", err)
	}
	if info.IsDir() {
		return Scenario{}, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied scenario path
	if err != nil {
		return Scenario{}, fmt.Errorf("error reading scenario file: %w", err)
	}

	var s Scenario
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return Scenario{}, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Scenario{}, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return Scenario{}, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return Scenario{}, fmt.Errorf("unsupported scenario file format: %q", ext)
	}

	return s, nil
}

// Merge returns cfg with the scenario's allocation settings and costs applied.
// The scenario rate is not merged; callers rank it against fetched quotes.
func (s Scenario) Merge(cfg Config) Config {
	if s.Allocation.Mode != nil {
		cfg.Allocation.Mode = *s.Allocation.Mode
	}
	if s.Allocation.TargetUsers != nil {
		cfg.Allocation.TargetUsers = *s.Allocation.TargetUsers
	}
	if s.Allocation.TargetPercentage != nil {
		cfg.Allocation.TargetPercentage = *s.Allocation.TargetPercentage
	}
	if s.Costs != nil {
		cfg.Costs = append([]model.CostEntry(nil), s.Costs...)
	}
	return cfg
}
