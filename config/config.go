// Package config provides declarative configuration for state containers.
//
// Configuration only exists during initialization: state.FromConfig resolves
// it into container options and does not retain it. The Observer field is a
// registry name so configs stay serializable.
//
// Example YAML:
//
//	name: profile
//	observer: slog
//	isolate: false
//
// Merge semantics follow the usual layering rules: strings merge when the
// source is non-empty and pointers merge when the source is non-nil.
// Isolation defaults to true, so it is stored as *bool (IsolateNil) behind
// the Isolate accessor to tell "unset" apart from an explicit false.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Config defines how a state container reports and exposes its state.
type Config struct {
	// Name labels the container in observer events.
	Name string `json:"name,omitempty"`

	// Observer names a registered observer ("noop", "slog", "zerolog", ...).
	Observer string `json:"observer,omitempty"`

	// IsolateNil controls whether Container.Get returns a copy of the state.
	// Use Isolate() to read it.
	IsolateNil *bool `json:"isolate,omitempty"`
}

// DefaultConfig returns a Config with the noop observer and read isolation
// enabled.
func DefaultConfig() Config {
	return Config{
		Observer: "noop",
	}
}

// Isolate reports whether reads should return a copy. Defaults to true.
func (c *Config) Isolate() bool {
	if c.IsolateNil == nil {
		return true
	}
	return *c.IsolateNil
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.IsolateNil != nil {
		isolate := *source.IsolateNil
		c.IsolateNil = &isolate
	}
}

// LoadConfig reads a JSON or YAML config file, merges it over defaults, and
// returns the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := yaml.UnmarshalStrict(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
