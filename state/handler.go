package state

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/tailored-agentic-units/localstate/validate"
)

// Handler is the change-notification registration of a Container. It is
// one of GlobalHandler or FieldHandlers; a nil Handler means no
// notifications.
type Handler interface {
	handlerKind() string
}

// GlobalHandler receives a snapshot of the whole state after every update.
type GlobalHandler func(State)

// FieldHandler receives the new value of a single field.
type FieldHandler func(any)

// FieldHandlers maps state keys to the handler invoked when that key is
// part of an update. Keys without a handler are skipped.
type FieldHandlers map[string]FieldHandler

func (GlobalHandler) handlerKind() string { return "global" }
func (FieldHandlers) handlerKind() string { return "field" }

// ParseHandler resolves a raw handler value into a Handler.
//
// Accepted forms:
//   - nil: no handler
//   - GlobalHandler, func(State), func(map[string]any)
//   - FieldHandlers, or any string-keyed map whose values are FieldHandler
//     or func(any)
//
// Anything that is neither callable nor a map fails with HandlerType, as
// does a func of an unsupported signature. A map holding a value that is
// not a supported field handler fails with HandlersType.
func ParseHandler(v any) (Handler, error) {
	if v == nil {
		return nil, nil
	}
	if err := validate.Handler(v); err != nil {
		return nil, err
	}

	switch h := v.(type) {
	case GlobalHandler:
		return h, nil
	case func(State):
		return GlobalHandler(h), nil
	case func(map[string]any):
		return GlobalHandler(func(s State) { h(s) }), nil
	}

	if validate.IsCallable(v) {
		return nil, validate.Fail(validate.HandlerType, fmt.Sprintf("unsupported handler signature %T", v))
	}

	fields := make(FieldHandlers)
	iter := reflect.ValueOf(v).MapRange()
	for iter.Next() {
		key := iter.Key().String()
		switch fn := iter.Value().Interface().(type) {
		case FieldHandler:
			fields[key] = fn
		case func(any):
			fields[key] = fn
		default:
			return nil, validate.Fail(validate.HandlersType,
				fmt.Sprintf("field %s has unsupported signature %T", key, fn))
		}
	}
	return fields, nil
}

// notify dispatches the resolved change to the registered handler. Field
// handlers run in sorted key order. A panicking handler stops dispatch.
func (c *Container) notify(change State) {
	switch h := c.handler.(type) {
	case GlobalHandler:
		c.emit(EventStateNotify, "state.Set", map[string]any{"handler": h.handlerKind()})
		h(c.snapshot())
	case FieldHandlers:
		for _, key := range sortedKeys(change) {
			fn, ok := h[key]
			if !ok {
				continue
			}
			c.emit(EventStateNotify, "state.Set", map[string]any{"handler": h.handlerKind(), "key": key})
			fn(change[key])
		}
	}
}

func sortedKeys(s State) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
