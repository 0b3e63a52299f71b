// FILE: lixenwraith/settings/decode.go
package settings

import (
	"fmt"
	"net"
	"net/url"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// BindTagName is the struct tag Bind reads field names from.
const BindTagName = "config"

// Bind decodes the section at path ("" for the root) into target, which must
// be a non-nil pointer. Fields absent from the section keep their values.
// Sections indexed 0..n-1 decode into slices; values convert weakly, and
// any type known to TryGetAs converts the same way here.
func Bind(r Reader, path string, target any) error {
	if r == nil {
		return fmt.Errorf("%w: reader is nil", ErrInvalidArgument)
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: bind target must be non-nil pointer, got %T", ErrInvalidArgument, target)
	}

	var input any
	if path == "" {
		input = buildTree(r, "")
		if input == nil {
			input = map[string]any{}
		}
	} else {
		if len(r.Children(path)) == 0 {
			if _, isLeaf := r.Get(path); isLeaf {
				return fmt.Errorf("path %q refers to a value, not a section", path)
			}
			return nil
		}
		input = buildTree(r, path)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          BindTagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", path, err)
	}
	return nil
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		// Durations, times, UUIDs, registered parsers, text unmarshalers
		stringToParsedHookFunc(),

		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToParsedHookFunc converts strings using the TryGetAs parser registry
func stringToParsedHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t == stringType {
			return data, nil
		}
		str := data.(string)

		if fn, ok := lookupParser(t); ok {
			if str == "" {
				return reflect.Zero(t).Interface(), nil
			}
			v, err := fn(str)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", t, err)
			}
			return v, nil
		}

		if v, handled, ok := unmarshalText(str, t); handled {
			if !ok {
				return nil, fmt.Errorf("invalid %s: %q", t, str)
			}
			return v.Interface(), nil
		}

		return data, nil
	}
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}

		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
