// FILE: lixenwraith/settings/safecopy.go
package settings

import (
	"fmt"
	"reflect"
	"strings"
)

// CopyOption tunes SafeCopy and SafeCopyField.
type CopyOption func(*copyOptions)

type copyOptions struct {
	allowSetNulls bool
}

// AllowSetNulls makes an absent key assign the empty value to string,
// pointer, slice, map and interface destinations instead of skipping them.
func AllowSetNulls() CopyOption {
	return func(o *copyOptions) {
		o.allowSetNulls = true
	}
}

// SafeCopy pushes the value at key into set and reports whether set was called.
//
// String destinations receive the raw value whenever the key exists, even
// when it is empty. Other destinations receive the value TryGetAs produces;
// when conversion fails set is not called and the destination keeps its
// previous value. An absent key calls set with the empty value only under
// AllowSetNulls and only for string and nillable destinations.
func SafeCopy[T any](r Reader, key string, set func(T), opts ...CopyOption) bool {
	checkReadArgs(r, key)
	if set == nil {
		invalidArgument("setter is nil")
	}

	v, ok := copyValue(r, key, reflect.TypeOf((*T)(nil)).Elem(), applyCopyOptions(opts))
	if !ok {
		return false
	}
	set(valueAs[T](v))
	return true
}

// SafeCopyField is the reflective form of SafeCopy. field is a dot-separated
// path of exported struct fields, matched by Go name or `config` tag, below
// the struct target points to. Nil intermediate pointers are allocated only
// when a value is assigned. A field path that does not resolve to a settable
// field returns an error wrapping ErrInvalidField.
func SafeCopyField(r Reader, key string, target any, field string, opts ...CopyOption) (bool, error) {
	checkReadArgs(r, key)

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, fmt.Errorf("%w: target must be a non-nil pointer to struct, got %T", ErrInvalidField, target)
	}

	path, fieldType, err := resolveFieldPath(rv.Type().Elem(), field)
	if err != nil {
		return false, err
	}

	v, ok := copyValue(r, key, fieldType, applyCopyOptions(opts))
	if !ok {
		return false, nil
	}

	dest := rv.Elem()
	for _, idx := range path {
		for dest.Kind() == reflect.Pointer {
			if dest.IsNil() {
				dest.Set(reflect.New(dest.Type().Elem()))
			}
			dest = dest.Elem()
		}
		dest = dest.Field(idx)
	}
	dest.Set(v)
	return true, nil
}

func applyCopyOptions(opts []CopyOption) copyOptions {
	var o copyOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// copyValue computes the value SafeCopy assigns for a destination of type t.
func copyValue(r Reader, key string, t reflect.Type, o copyOptions) (reflect.Value, bool) {
	raw, present := r.Get(key)

	if t.Kind() == reflect.String {
		if present {
			v := reflect.New(t).Elem()
			v.SetString(raw)
			return v, true
		}
		if o.allowSetNulls {
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}

	if present {
		return convertString(raw, t)
	}

	if isComposite(t) && len(r.Children(key)) > 0 {
		return decodeSection(r, key, t)
	}

	if o.allowSetNulls && isNillable(t) {
		return reflect.Zero(t), true
	}
	return reflect.Value{}, false
}

func isNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}

// resolveFieldPath maps a dotted field path to field indexes and the final field type.
func resolveFieldPath(t reflect.Type, field string) ([]int, reflect.Type, error) {
	if field == "" {
		return nil, nil, fmt.Errorf("%w: field path is empty", ErrInvalidField)
	}

	var path []int
	current := t
	for _, name := range strings.Split(field, ".") {
		for current.Kind() == reflect.Pointer {
			current = current.Elem()
		}
		if current.Kind() != reflect.Struct {
			return nil, nil, fmt.Errorf("%w: %q: %s is not a struct", ErrInvalidField, field, current)
		}

		sf, ok := findField(current, name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q: no exported field %q in %s", ErrInvalidField, field, name, current)
		}
		path = append(path, sf.Index[0])
		current = sf.Type
	}
	return path, current, nil
}

func findField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get(BindTagName), ",")
		if sf.Name == name || (tag != "" && tag != "-" && tag == name) {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}
