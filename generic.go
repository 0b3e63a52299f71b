// FILE: lixenwraith/settings/generic.go
package settings

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/spf13/cast"
)

var (
	stringType          = reflect.TypeOf((*string)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// TryGetAs reads key as a T. Conversion is chosen by T:
//   - string: the raw value, failing only when it is empty
//   - types with a parser (all primitive accessor types and RegisterParser types)
//   - encoding.TextUnmarshaler implementations, which is how enumerations
//     parse by name; an unknown name is a failure, not an error
//   - other bool, integer, float and string kinds, converted best-effort
//   - structs, maps and slices: JSON text at key, or the section at key
//     decoded as by Bind; a zero result is a failure
//
// A nil reader or empty key panics with an error wrapping ErrInvalidArgument.
func TryGetAs[T any](r Reader, key string) (T, bool) {
	checkReadArgs(r, key)

	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()

	raw, ok := r.Get(key)
	if !ok {
		if !isComposite(t) || len(r.Children(key)) == 0 {
			return zero, false
		}
		v, ok := decodeSection(r, key, t)
		if !ok {
			return zero, false
		}
		return valueAs[T](v), true
	}

	v, ok := convertString(raw, t)
	if !ok {
		return zero, false
	}
	return valueAs[T](v), true
}

// GetAs returns the value TryGetAs would produce, or def when it fails.
func GetAs[T any](r Reader, key string, def T) T {
	v, ok := TryGetAs[T](r, key)
	return getOr(v, ok, def)
}

// TryGetAsList reads key:0, key:1, ... as T until the first miss. It succeeds
// when at least one element was read; a gap at index 0 yields no elements.
func TryGetAsList[T any](r Reader, key string) ([]T, bool) {
	checkReadArgs(r, key)

	out := make([]T, 0)
	for i := 0; ; i++ {
		v, ok := TryGetAs[T](r, JoinKey(key, strconv.Itoa(i)))
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out, len(out) > 0
}

// GetAsList returns the elements TryGetAsList would produce, or def when none are read.
func GetAsList[T any](r Reader, key string, def []T) []T {
	v, ok := TryGetAsList[T](r, key)
	return getOr(v, ok, def)
}

// valueAs copies v into a T. Unlike a type assertion it accepts a zero
// interface value.
func valueAs[T any](v reflect.Value) T {
	var out T
	reflect.ValueOf(&out).Elem().Set(v)
	return out
}

// convertString applies the conversion rules of TryGetAs for type t.
func convertString(raw string, t reflect.Type) (reflect.Value, bool) {
	if raw == "" {
		return reflect.Value{}, false
	}
	if t == stringType {
		return reflect.ValueOf(raw), true
	}

	if fn, ok := lookupParser(t); ok {
		v, err := fn(raw)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(v), true
	}

	if v, handled, ok := unmarshalText(raw, t); handled {
		return v, ok
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Interface:
		if !stringType.Implements(t) {
			break
		}
		out.Set(reflect.ValueOf(raw))
		return out, true

	case reflect.String:
		out.SetString(raw)
		return out, true

	case reflect.Bool:
		b, err := parseBool(raw)
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetBool(b)
		return out, true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(raw)
		if err != nil || out.OverflowInt(n) {
			return reflect.Value{}, false
		}
		out.SetInt(n)
		return out, true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := cast.ToUint64E(raw)
		if err != nil || out.OverflowUint(n) {
			return reflect.Value{}, false
		}
		out.SetUint(n)
		return out, true

	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil || out.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
		return out, true
	}

	// Anything else is expected as JSON text
	ptr := reflect.New(t)
	if err := json.Unmarshal([]byte(raw), ptr.Interface()); err != nil {
		return reflect.Value{}, false
	}
	if ptr.Elem().IsZero() {
		return reflect.Value{}, false
	}
	return ptr.Elem(), true
}

// unmarshalText handles types whose value or pointer implements encoding.TextUnmarshaler.
func unmarshalText(raw string, t reflect.Type) (v reflect.Value, handled, ok bool) {
	switch {
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		ptr := reflect.New(t)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, true, false
		}
		return ptr.Elem(), true, true

	case t.Kind() == reflect.Pointer && t.Implements(textUnmarshalerType):
		ptr := reflect.New(t.Elem())
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, true, false
		}
		return ptr, true, true
	}
	return reflect.Value{}, false, false
}

// isComposite reports whether t can be populated from a section.
func isComposite(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// decodeSection decodes the section at key into a new value of type t.
func decodeSection(r Reader, key string, t reflect.Type) (reflect.Value, bool) {
	ptr := reflect.New(t)
	if err := Bind(r, key, ptr.Interface()); err != nil {
		return reflect.Value{}, false
	}
	if ptr.Elem().IsZero() {
		return reflect.Value{}, false
	}
	return ptr.Elem(), true
}
