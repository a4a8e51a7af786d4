// Package validate holds the assertions run before a state container is
// built or mutated. Every check is pure: it inspects its argument, never
// mutates it, and returns a *Error with a fixed message on violation.
//
// Checks operate on untyped values because they guard the dynamic input
// boundary of the state package. "Object" means a map keyed by strings;
// "callable" means any non-nil func value.
package validate

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
)

// IsObject reports whether v is a map keyed by strings. Slices, arrays,
// funcs, structs and scalars are not objects.
func IsObject(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
}

// IsCallable reports whether v is a non-nil func value.
func IsCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// IsFalsy reports whether v counts as absent: nil, a nil reference,
// false, a numeric zero or NaN, or the empty string.
func IsFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}

// InitialPresent fails with InitialRequired when v is absent.
func InitialPresent(v any) error {
	if IsFalsy(v) {
		return Fail(InitialRequired)
	}
	return nil
}

// InitialObject fails with InitialType when v is not an object.
func InitialObject(v any) error {
	if !IsObject(v) {
		return Fail(InitialType, fmt.Sprintf("got %T", v))
	}
	return nil
}

// InitialNonEmpty fails with InitialContent when v has no keys. Non-object
// values are left to InitialObject.
func InitialNonEmpty(v any) error {
	if IsObject(v) && reflect.ValueOf(v).Len() == 0 {
		return Fail(InitialContent)
	}
	return nil
}

// Initial runs the presence, type and content checks in that order and
// returns the first failure.
func Initial(v any) error {
	if err := InitialPresent(v); err != nil {
		return err
	}
	if err := InitialObject(v); err != nil {
		return err
	}
	return InitialNonEmpty(v)
}

// HandlerShape fails with HandlerType unless v is callable or an object.
func HandlerShape(v any) error {
	if IsCallable(v) || IsObject(v) {
		return nil
	}
	return Fail(HandlerType, fmt.Sprintf("got %T", v))
}

// HandlerValues fails with HandlersType when v is an object holding any
// value that is not callable. The first offending key in sorted order is
// reported as detail. Callables pass trivially.
func HandlerValues(v any) error {
	if !IsObject(v) {
		return nil
	}
	rv := reflect.ValueOf(v)
	var bad []string
	iter := rv.MapRange()
	for iter.Next() {
		if !IsCallable(iter.Value().Interface()) {
			bad = append(bad, iter.Key().String())
		}
	}
	if len(bad) == 0 {
		return nil
	}
	sort.Strings(bad)
	return Fail(HandlersType, "field "+bad[0])
}

// Handler runs HandlerShape then HandlerValues.
func Handler(v any) error {
	if err := HandlerShape(v); err != nil {
		return err
	}
	return HandlerValues(v)
}

// Selector fails with SelectorType unless v is callable.
func Selector(v any) error {
	if !IsCallable(v) {
		return Fail(SelectorType, fmt.Sprintf("got %T", v))
	}
	return nil
}

// ChangeObject fails with ChangeType unless v is an object.
func ChangeObject(v any) error {
	if !IsObject(v) {
		return Fail(ChangeType, fmt.Sprintf("got %T", v))
	}
	return nil
}

// ChangeFields fails with ChangeField when change holds a key outside
// keys. The first unknown key in sorted order is reported as detail.
// Non-object values are left to ChangeObject.
func ChangeFields(change any, keys []string) error {
	if !IsObject(change) {
		return nil
	}
	var unknown []string
	iter := reflect.ValueOf(change).MapRange()
	for iter.Next() {
		k := iter.Key().String()
		if !slices.Contains(keys, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return Fail(ChangeField, "field "+unknown[0])
}

// Change runs ChangeObject then ChangeFields.
func Change(change any, keys []string) error {
	if err := ChangeObject(change); err != nil {
		return err
	}
	return ChangeFields(change, keys)
}
