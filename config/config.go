// Package config parses and validates the YAML run configuration
// (spec §6) into the values the simulation driver needs to construct a
// Road, Spawner, and Behavior factory.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// GaussianParam is a model parameter sampled once per vehicle from
// N(Mu, Sigma), floored at 0.01 (spec §4.6).
type GaussianParam struct {
	Mu    float64 `yaml:"mu" json:"mu"`
	Sigma float64 `yaml:"sigma" json:"sigma"`
}

// Config is the root document, matching spec §6's schema.
type Config struct {
	Name struct {
		ID          string `yaml:"id" json:"id"`
		Description string `yaml:"description" json:"description"`
	} `yaml:"name" json:"name"`

	Road struct {
		Length float64 `yaml:"length" json:"length"`
		Lanes  int     `yaml:"lanes" json:"lanes"`
	} `yaml:"road" json:"road"`

	Simulation struct {
		TimeStep float64 `yaml:"time_step" json:"time_step"`
		Duration float64 `yaml:"duration" json:"duration"`
	} `yaml:"simulation" json:"simulation"`

	Spawn struct {
		Process       string  `yaml:"process" json:"process"`
		CarsPerSecond float64 `yaml:"cars_per_second" json:"cars_per_second"`
	} `yaml:"spawn" json:"spawn"`

	Vehicle struct {
		// Behavior is [model_name, {param_name: {mu,sigma}, ...}] — a
		// two-element heterogeneous sequence in the source schema,
		// decoded as a raw []interface{} and resolved by
		// resolveBehaviorNode below since YAML has no native tuple type.
		// After Load, its second entry holds the resolved parameter map.
		Behavior          []interface{}            `yaml:"behavior" json:"behavior"`
		BehaviorModelName string                   `yaml:"-" json:"-"`
		BehaviorParams    map[string]GaussianParam `yaml:"-" json:"resolved_behavior_params"`
		BehaviorSettings  []float64                `yaml:"behavior_settings" json:"behavior_settings"`
		Length            float64                  `yaml:"length" json:"length"`
	} `yaml:"vehicle" json:"vehicle"`

	LaneDistribution string `yaml:"lane_distribution" json:"lane_distribution"`
}

// recognizedBehaviors are the model names spec §6 lists as valid.
var recognizedBehaviors = map[string]bool{
	"Simple Model":                    true,
	"Simple Following Model":          true,
	"Simple Following Extended Model": true,
	"Gipps Model":                     true,
	"Intelligent Driver Model":        true,
}

var recognizedProcesses = map[string]bool{
	"poisson": true,
	"uniform": true,
	"equal":   true, // accepted alias for the deterministic process
}

var recognizedLaneDistributions = map[string]bool{
	"triangle":        true,
	"sum_squared":     true,
	"equal":           true,
	"all_in_first_lane": true,
	"all_in_last_lane": true,
}

// Load reads and validates a configuration document from path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := resolveBehaviorNode(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// resolveBehaviorNode picks apart the behavior tuple's first entry
// (the model name scalar) from its second entry (a mapping of
// per-parameter Gaussian settings).
func resolveBehaviorNode(c *Config) error {
	c.Vehicle.BehaviorParams = make(map[string]GaussianParam)

	if len(c.Vehicle.Behavior) == 0 {
		return fmt.Errorf("config: vehicle.behavior must be a [model_name, {params}] sequence")
	}
	name, ok := c.Vehicle.Behavior[0].(string)
	if !ok {
		return fmt.Errorf("config: vehicle.behavior[0] must be the model name")
	}
	c.Vehicle.BehaviorModelName = name

	if len(c.Vehicle.Behavior) < 2 {
		return nil
	}
	params, ok := c.Vehicle.Behavior[1].(map[interface{}]interface{})
	if !ok {
		return fmt.Errorf("config: vehicle.behavior[1] must be a mapping of parameter settings")
	}
	for rawKey, rawVal := range params {
		key, _ := rawKey.(string)
		nested, ok := rawVal.(map[interface{}]interface{})
		if !ok {
			continue
		}
		var p GaussianParam
		for k, v := range nested {
			switch k {
			case "mu":
				p.Mu = toFloat(v)
			case "sigma":
				p.Sigma = toFloat(v)
			}
		}
		c.Vehicle.BehaviorParams[key] = p
	}
	// The YAML decoder leaves the mapping keyed by interface{}, which
	// encoding/json cannot marshal; store the resolved string-keyed form
	// so the whole Config can be written out as JSON.
	c.Vehicle.Behavior[1] = c.Vehicle.BehaviorParams
	return nil
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// Validate checks the configuration-invalid conditions enumerated in
// spec §7: unknown behavior model name, unknown process kind, negative
// rates, zero lanes, non-positive time step.
func (c *Config) Validate() error {
	if !recognizedBehaviors[c.Vehicle.BehaviorModelName] {
		return fmt.Errorf("config: unrecognized behavior model %q", c.Vehicle.BehaviorModelName)
	}
	if !recognizedProcesses[c.Spawn.Process] {
		return fmt.Errorf("config: unrecognized spawn process %q", c.Spawn.Process)
	}
	if c.Spawn.CarsPerSecond < 0 {
		return fmt.Errorf("config: spawn.cars_per_second must be >= 0, got %v", c.Spawn.CarsPerSecond)
	}
	if c.Road.Lanes <= 0 {
		return fmt.Errorf("config: road.lanes must be > 0, got %d", c.Road.Lanes)
	}
	if c.Simulation.TimeStep <= 0 {
		return fmt.Errorf("config: simulation.time_step must be > 0, got %v", c.Simulation.TimeStep)
	}
	if !recognizedLaneDistributions[c.LaneDistribution] {
		return fmt.Errorf("config: unrecognized lane_distribution %q", c.LaneDistribution)
	}
	return nil
}
