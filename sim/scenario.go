package sim

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed scenario.schema.json
var scenarioSchemaJSON string

// Scenario is a run description loadable from YAML. Nil pointer fields mean
// "not set in YAML" and leave the corresponding Config value untouched.
type Scenario struct {
	Name      string         `yaml:"name"`
	Fleet     FleetScenario  `yaml:"fleet"`
	Mining    MiningScenario `yaml:"mining"`
	Unloading UnloadScenario `yaml:"unloading"`
	Run       RunScenario    `yaml:"run"`
}

// FleetScenario sizes the operation.
type FleetScenario struct {
	Trucks   *int `yaml:"trucks"`
	Stations *int `yaml:"stations"`
	Sites    *int `yaml:"sites"`
}

// MiningScenario is the per-cycle mining time range, in hours.
type MiningScenario struct {
	MinHours *float64 `yaml:"min_hours"`
	MaxHours *float64 `yaml:"max_hours"`
}

// UnloadScenario is the per-cycle unloading time range, in minutes.
type UnloadScenario struct {
	MinMinutes *float64 `yaml:"min_minutes"`
	MaxMinutes *float64 `yaml:"max_minutes"`
}

// RunScenario holds the run-level knobs.
type RunScenario struct {
	HorizonSeconds *float64 `yaml:"horizon_seconds"`
	StepSeconds    *float64 `yaml:"step_seconds"`
	Dilation       *float64 `yaml:"dilation"`
	TruckSpeed     *float64 `yaml:"truck_speed"`
	Seed           *int64   `yaml:"seed"`
}

var scenarioSchema = jsonschema.MustCompileString("scenario.schema.json", scenarioSchemaJSON)

// LoadScenario reads, schema-validates and strictly decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario validates and decodes scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := validateScenario(data); err != nil {
		return nil, err
	}
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks the document against the embedded JSON schema.
// The schema validator expects JSON-decoded values, so the YAML tree is
// round-tripped through encoding/json first.
func validateScenario(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing scenario: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting scenario: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("converting scenario: %w", err)
	}
	if err := scenarioSchema.Validate(v); err != nil {
		return fmt.Errorf("scenario does not match schema: %w", err)
	}
	return nil
}

// Validate checks cross-field constraints the schema cannot express.
func (s *Scenario) Validate() error {
	if s.Mining.MinHours != nil && s.Mining.MaxHours != nil && *s.Mining.MaxHours < *s.Mining.MinHours {
		return fmt.Errorf("mining max_hours %g below min_hours %g", *s.Mining.MaxHours, *s.Mining.MinHours)
	}
	if s.Unloading.MinMinutes != nil && s.Unloading.MaxMinutes != nil && *s.Unloading.MaxMinutes < *s.Unloading.MinMinutes {
		return fmt.Errorf("unloading max_minutes %g below min_minutes %g", *s.Unloading.MaxMinutes, *s.Unloading.MinMinutes)
	}
	return nil
}

// Apply overlays every field set in the scenario onto cfg.
func (s *Scenario) Apply(cfg *Config) {
	setInt(&cfg.Trucks, s.Fleet.Trucks)
	setInt(&cfg.Stations, s.Fleet.Stations)
	setInt(&cfg.Sites, s.Fleet.Sites)
	setFloat(&cfg.MiningHours.Min, s.Mining.MinHours)
	setFloat(&cfg.MiningHours.Max, s.Mining.MaxHours)
	setFloat(&cfg.UnloadingMinutes.Min, s.Unloading.MinMinutes)
	setFloat(&cfg.UnloadingMinutes.Max, s.Unloading.MaxMinutes)
	setFloat(&cfg.Horizon, s.Run.HorizonSeconds)
	setFloat(&cfg.Step, s.Run.StepSeconds)
	setFloat(&cfg.Dilation, s.Run.Dilation)
	setFloat(&cfg.TruckSpeed, s.Run.TruckSpeed)
	if s.Run.Seed != nil {
		cfg.Seed = *s.Run.Seed
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
