package state

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/localstate/observability"
	"github.com/tailored-agentic-units/localstate/validate"
)

// State maps field names to values. The key set of a Container's State is
// fixed by its initial value.
type State map[string]any

// Selector derives a value from the current state.
type Selector func(State) any

// Updater computes a partial change from the current state.
type Updater func(State) State

// GetState returns the current state when called without arguments, or the
// result of the first argument applied as a selector.
type GetState func(selector ...any) (any, error)

// SetState applies a change to the state and notifies handlers.
type SetState func(change any) error

// Container owns a single mutable State. The key set never changes after
// construction. A Container is not safe for concurrent use; handlers run
// synchronously inside Set and may call back into the Container.
type Container struct {
	id       string
	name     string
	state    State
	keys     []string
	handler  Handler
	observer observability.Observer
	isolate  bool
}

// Create builds a Container and returns its getter and setter. It is the
// function-pair form of New.
//
// Example:
//
//	get, set, err := state.Create(map[string]any{"x": 0, "y": 1}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = set(map[string]any{"x": 5})
//	current, _ := get() // State{"x": 5, "y": 1}
func Create(initial any, handler any, opts ...Option) (GetState, SetState, error) {
	c, err := New(initial, handler, opts...)
	if err != nil {
		return nil, nil, err
	}
	return c.getState, c.Set, nil
}

// New validates initial and handler and returns a Container holding a
// shallow copy of initial.
//
// initial must be a non-empty map keyed by strings. handler may be nil or
// any form accepted by ParseHandler. Failures carry a *validate.Error and
// no Container is returned.
func New(initial any, handler any, opts ...Option) (*Container, error) {
	c := &Container{
		id:       uuid.Must(uuid.NewV7()).String(),
		observer: observability.NoOpObserver{},
		isolate:  true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := validate.Initial(initial); err != nil {
		c.reject("state.New", err)
		return nil, err
	}

	h, err := ParseHandler(handler)
	if err != nil {
		c.reject("state.New", err)
		return nil, err
	}

	c.state = toState(initial)
	c.keys = sortedKeys(c.state)
	c.handler = h

	c.emitEvent(EventStateCreate, observability.LevelInfo, "state.New", map[string]any{
		"keys":    c.Keys(),
		"handler": handlerKind(h),
	})

	return c, nil
}

// ID returns the unique identifier assigned at construction.
func (c *Container) ID() string {
	return c.id
}

// Name returns the label set by WithName, or "".
func (c *Container) Name() string {
	return c.name
}

// Keys returns the fixed key set in sorted order.
func (c *Container) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Get returns the current state. With isolation enabled (the default) the
// result is a shallow copy; otherwise it is the live map and callers must
// not modify it.
func (c *Container) Get() State {
	return c.view()
}

// Select validates selector and returns its result over a snapshot of the
// current state verbatim. selector may be a Selector, func(State) any or
// func(map[string]any) any; anything else fails with SelectorType.
func (c *Container) Select(selector any) (any, error) {
	sel, err := asSelector(selector)
	if err != nil {
		c.reject("state.Select", err)
		return nil, err
	}

	c.emit(EventStateSelect, "state.Select", nil)
	return sel(c.snapshot()), nil
}

// Set applies change to the state and then notifies the handler.
//
// change is either a string-keyed map or an updater (Updater,
// func(State) State, func(map[string]any) map[string]any) called with a
// snapshot of the current state, so an updater cannot edit the live map. Each listed key replaces the stored value whole; nested
// maps are not merged. Keys outside the initial key set fail with
// ChangeField, anything that does not resolve to a map fails with
// ChangeType. On failure the state is unchanged and no handler runs.
func (c *Container) Set(change any) error {
	resolved, err := c.resolve(change)
	if err != nil {
		c.reject("state.Set", err)
		return err
	}

	maps.Copy(c.state, resolved)

	c.emit(EventStateSet, "state.Set", map[string]any{"keys": sortedKeys(resolved)})
	c.notify(resolved)
	return nil
}

func (c *Container) getState(selector ...any) (any, error) {
	if len(selector) == 0 {
		return c.Get(), nil
	}
	return c.Select(selector[0])
}

func (c *Container) resolve(change any) (State, error) {
	if !validate.IsCallable(change) {
		if err := validate.Change(change, c.keys); err != nil {
			return nil, err
		}
		return toState(change), nil
	}

	var resolved State
	switch fn := change.(type) {
	case Updater:
		resolved = fn(c.snapshot())
	case func(State) State:
		resolved = fn(c.snapshot())
	case func(map[string]any) map[string]any:
		resolved = fn(c.snapshot())
	default:
		return nil, validate.Fail(validate.ChangeType, fmt.Sprintf("unsupported updater signature %T", change))
	}

	if resolved == nil {
		return nil, validate.Fail(validate.ChangeType, "updater returned no change")
	}
	if err := validate.ChangeFields(resolved, c.keys); err != nil {
		return nil, err
	}
	return maps.Clone(resolved), nil
}

func (c *Container) view() State {
	if c.isolate {
		return c.snapshot()
	}
	return c.state
}

func (c *Container) snapshot() State {
	return maps.Clone(c.state)
}

func asSelector(v any) (Selector, error) {
	if err := validate.Selector(v); err != nil {
		return nil, err
	}

	switch fn := v.(type) {
	case Selector:
		return fn, nil
	case func(State) any:
		return fn, nil
	case func(map[string]any) any:
		return func(s State) any { return fn(s) }, nil
	}
	return nil, validate.Fail(validate.SelectorType, fmt.Sprintf("unsupported selector signature %T", v))
}

// toState copies a validated string-keyed map into a new State.
func toState(v any) State {
	switch m := v.(type) {
	case State:
		return maps.Clone(m)
	case map[string]any:
		return maps.Clone(State(m))
	}

	rv := reflect.ValueOf(v)
	s := make(State, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		s[iter.Key().String()] = iter.Value().Interface()
	}
	return s
}

func handlerKind(h Handler) string {
	if h == nil {
		return "none"
	}
	return h.handlerKind()
}

func (c *Container) emit(eventType observability.EventType, source string, data map[string]any) {
	c.emitEvent(eventType, observability.LevelVerbose, source, data)
}

func (c *Container) reject(source string, err error) {
	c.emitEvent(EventStateReject, observability.LevelWarning, source, map[string]any{
		observability.DataErrorKind: validate.KindOf(err).String(),
		"error":                     err.Error(),
	})
}

func (c *Container) emitEvent(eventType observability.EventType, level observability.Level, source string, data map[string]any) {
	if data == nil {
		data = make(map[string]any, 2)
	}
	data["id"] = c.id
	if c.name != "" {
		data["name"] = c.name
	}

	c.observer.OnEvent(context.Background(), observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
