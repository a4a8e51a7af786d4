// Package state provides a local state container: a fixed-key map held by a
// Container, read through a getter and changed through a setter that
// notifies registered handlers.
//
// # Creating State
//
// The initial value defines the key set for the container's lifetime:
//
//	get, set, err := state.Create(map[string]any{"x": 0, "y": 1}, nil)
//
// Create returns the getter/setter pair. New returns the *Container those
// functions are bound to.
//
// # Reading
//
// Called with no argument, the getter returns the current State. Called with
// a selector it returns the selector's result verbatim:
//
//	all, _ := get()
//	x, _ := get(func(s state.State) any { return s["x"] })
//
// # Updating
//
// The setter accepts a partial map or an updater computing one from the
// current state. Each listed key is replaced whole; unlisted keys keep their
// values. Keys not present in the initial value are rejected:
//
//	_ = set(map[string]any{"x": 5})
//	_ = set(func(s state.State) state.State {
//	    return state.State{"y": s["y"].(int) + 1}
//	})
//
// # Handlers
//
// A GlobalHandler receives the whole state after every update. FieldHandlers
// receive only the new value of their field, and only when that field was
// part of the update:
//
//	state.Create(initial, state.FieldHandlers{
//	    "x": func(v any) { fmt.Println("x is now", v) },
//	})
//
// Handlers run synchronously before the setter returns.
//
// # Errors
//
// Every rejected call returns a *validate.Error. Compare with errors.Is
// against the validate sentinels, or read the kind with validate.KindOf.
// Rejected calls leave the state untouched.
package state
