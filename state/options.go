package state

import (
	"fmt"

	"github.com/tailored-agentic-units/localstate/config"
	"github.com/tailored-agentic-units/localstate/observability"
)

// Option configures a Container.
type Option func(*Container)

// WithObserver sets the observer receiving container events. A nil
// observer leaves the NoOpObserver in place.
func WithObserver(observer observability.Observer) Option {
	return func(c *Container) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithName labels the container in observer events.
func WithName(name string) Option {
	return func(c *Container) {
		c.name = name
	}
}

// WithIsolation controls whether Get returns a copy of the state (true, the
// default) or the live map. Selectors, updaters and handlers always receive
// a copy.
func WithIsolation(isolate bool) Option {
	return func(c *Container) {
		c.isolate = isolate
	}
}

// FromConfig builds a Container from cfg, resolving the observer through
// the observability registry. cfg is merged over config.DefaultConfig, so
// unset fields keep their defaults. opts are applied after the config and
// take precedence.
//
// Example:
//
//	cfg, err := config.LoadConfig("state.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c, err := state.FromConfig(*cfg, map[string]any{"count": 0}, nil)
func FromConfig(cfg config.Config, initial any, handler any, opts ...Option) (*Container, error) {
	merged := config.DefaultConfig()
	merged.Merge(&cfg)
	cfg = merged

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	base := []Option{
		WithObserver(observer),
		WithName(cfg.Name),
		WithIsolation(cfg.Isolate()),
	}
	return New(initial, handler, append(base, opts...)...)
}
