// File: lixenwraith/settings/helper.go
package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// flattenMap converts a decoded document into flat colon-delimited keys.
// Arrays are expanded to index keys (list:0, list:1, ...), nil values are dropped.
func flattenMap(nested map[string]any, prefix string) map[string]string {
	flat := make(map[string]string)
	for key, value := range nested {
		flattenValue(flat, JoinKey(prefix, key), value)
	}
	return flat
}

func flattenValue(flat map[string]string, path string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case map[string]any:
		for key, sub := range v {
			flattenValue(flat, JoinKey(path, key), sub)
		}
	case map[any]any:
		// Older YAML decoders produce interface keys
		for key, sub := range v {
			flattenValue(flat, JoinKey(path, fmt.Sprint(key)), sub)
		}
	case []any:
		for i, sub := range v {
			flattenValue(flat, JoinKey(path, strconv.Itoa(i)), sub)
		}
	case []map[string]any:
		// TOML arrays of tables
		for i, sub := range v {
			flattenValue(flat, JoinKey(path, strconv.Itoa(i)), sub)
		}
	case string:
		flat[path] = v
	case time.Time:
		flat[path] = formatTime(v)
	default:
		flat[path] = fmt.Sprint(v)
	}
}

// formatTime renders decoded document times in a layout TimeLayouts accepts.
// TOML local date-times, dates and times carry marker locations and are
// written back as their TOML text.
func formatTime(t time.Time) string {
	switch t.Location().String() {
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	case "date-local":
		return t.Format(time.DateOnly)
	case "time-local":
		return t.Format("15:04:05.999999999")
	}
	return t.Format(time.RFC3339Nano)
}

// buildTree materialises the section at path as nested maps of strings.
// Sections whose children are exactly 0..n-1 become []any.
func buildTree(r Reader, path string) any {
	children := r.Children(path)
	if len(children) == 0 {
		if v, ok := r.Get(path); ok {
			return v
		}
		return nil
	}

	if isIndexSequence(children) {
		out := make([]any, len(children))
		for i, name := range children {
			out[i] = buildTree(r, JoinKey(path, name))
		}
		return out
	}

	out := make(map[string]any, len(children))
	for _, name := range children {
		out[name] = buildTree(r, JoinKey(path, name))
	}
	return out
}

// isIndexSequence reports whether sorted names are exactly "0".."n-1".
func isIndexSequence(names []string) bool {
	for i, name := range names {
		if name != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

// sortKeys orders segment names so that numeric names sort by value and
// before non-numeric names, which sort lexically.
func sortKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		return compareKeys(keys[i], keys[j]) < 0
	})
}

func compareKeys(a, b string) int {
	ai, aErr := strconv.ParseUint(a, 10, 64)
	bi, bErr := strconv.ParseUint(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return strings.Compare(a, b)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// isValidKeySegment checks that a segment is non-empty and free of the delimiter.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	return !strings.Contains(s, KeyDelimiter)
}
