// Package config loads agent memory configuration from YAML files.
// Configuration feeds the core exclusively through memory.New; the store
// itself never touches files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/becomeliminal/engram-go/memory"
)

// Config is the on-disk configuration for one agent's memory system.
//
//	profile:
//	  decay_alpha: 0.8
//	  decay_beta: 0.01
//	  emotional_bias: 0.5
//	  capacity_factor: 1.0
//	  interference_rate: 0.1
//	state:
//	  current_age: 30.0
//	maintenance:
//	  retention_threshold: 0.05
type Config struct {
	Profile     memory.AgentProfile `yaml:"profile"`
	State       memory.AgentState   `yaml:"state"`
	Maintenance Maintenance         `yaml:"maintenance"`
}

// Maintenance configures periodic eviction runs driven by the caller.
type Maintenance struct {
	// RetentionThreshold is passed to Store.Maintain; memories whose
	// retention decays below it are evicted.
	RetentionThreshold float64 `yaml:"retention_threshold"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Profile:     memory.DefaultProfile(),
		State:       memory.DefaultState(),
		Maintenance: Maintenance{RetentionThreshold: 0.05},
	}
}

// Load reads and validates a YAML configuration file. Omitted profile or
// state sections fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Maintenance.RetentionThreshold < 0 || cfg.Maintenance.RetentionThreshold > 1 {
		return nil, fmt.Errorf("config %s: retention_threshold %v outside [0, 1]",
			path, cfg.Maintenance.RetentionThreshold)
	}
	return cfg, nil
}

// NewStore builds a store from the configuration.
func (c *Config) NewStore(opts ...memory.Option) (*memory.Store, error) {
	return memory.New(c.Profile, c.State, opts...)
}
