package assembly

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

// Config is the declarative blueprint: an optional retry budget and the list
// of node declarations.
type Config struct {
	AttemptLimit int          `yaml:"attempt_limit"`
	DAG          []NodeConfig `yaml:"dag"`
}

type NodeConfig struct {
	Type   string       `yaml:"type"`
	Name   string       `yaml:"name"`
	Source types.Params `yaml:"source"`
	Sink   types.Params `yaml:"sink"`
	Table  string       `yaml:"table"`
	Unique [][]string   `yaml:"unique"`
}

type document struct {
	Knockoff *Config `yaml:"knockoff"`
}

// ParseConfig decodes a blueprint. The node list may sit under a top-level
// knockoff key or at the root.
func ParseConfig(data []byte) (*Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid blueprint yaml: %v", errs.ErrConfiguration, err)
	}
	cfg := doc.Knockoff
	if cfg == nil {
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: invalid blueprint yaml: %v", errs.ErrConfiguration, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blueprint %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.DAG) == 0 {
		return fmt.Errorf("%w: blueprint declares no nodes", errs.ErrConfiguration)
	}
	if c.AttemptLimit < 0 {
		return fmt.Errorf("%w: attempt_limit must not be negative", errs.ErrConfiguration)
	}
	for i, n := range c.DAG {
		if n.Name == "" {
			return fmt.Errorf("%w: node %d has no name", errs.ErrConfiguration, i)
		}
		if n.Type == "" {
			return fmt.Errorf("%w: node %q has no type", errs.ErrConfiguration, n.Name)
		}
		if n.Source.String("strategy", "") == "" {
			return fmt.Errorf("%w: node %s:%s has no source strategy", errs.ErrConfiguration, n.Type, n.Name)
		}
	}
	return nil
}
