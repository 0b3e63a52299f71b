// FILE: lixenwraith/settings/store.go
package settings

import (
	"strings"
)

// KeyDelimiter separates path segments, e.g. "server:port" or "list:0".
const KeyDelimiter = ":"

// ConnectionStringsPrefix namespaces connection strings loaded from legacy files.
const ConnectionStringsPrefix = "ConnectionStrings" + KeyDelimiter

// Reader is the read contract every accessor in this package works against.
// Get returns the raw value stored at a colon-delimited path.
// Children returns the immediate child segment names under path ("" for the root),
// in numeric-aware order. Names are never empty: for keys with an empty
// segment ("a::b", ":x", "a:") the rest of the key from that segment on is
// reported as a single leaf name (":b", ":x", "a:").
type Reader interface {
	Get(key string) (string, bool)
	Children(path string) []string
}

// Map is an in-memory Reader over flat colon-delimited keys.
type Map map[string]string

// Get returns the value at key.
func (m Map) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Children returns the immediate child names under path.
func (m Map) Children(path string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return childNames(keys, path)
}

// Sub returns the section of r rooted at path. Keys read through the result
// are relative to path.
func Sub(r Reader, path string) Reader {
	if r == nil {
		invalidArgument("reader is nil")
	}
	path = strings.Trim(path, KeyDelimiter)
	if path == "" {
		return r
	}
	if s, ok := r.(*section); ok {
		return &section{parent: s.parent, path: JoinKey(s.path, path)}
	}
	return &section{parent: r, path: path}
}

type section struct {
	parent Reader
	path   string
}

func (s *section) Get(key string) (string, bool) {
	return s.parent.Get(JoinKey(s.path, key))
}

func (s *section) Children(path string) []string {
	return s.parent.Children(JoinKey(s.path, path))
}

// JoinKey joins path segments with KeyDelimiter, skipping empty segments.
func JoinKey(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(KeyDelimiter)
		}
		b.WriteString(s)
	}
	return b.String()
}

// Exists reports whether key holds a value or has children.
func Exists(r Reader, key string) bool {
	checkReadArgs(r, key)
	if _, ok := r.Get(key); ok {
		return true
	}
	return len(r.Children(key)) > 0
}

// childNames collects the distinct segment names directly below path.
// Every returned name is non-empty, so JoinKey(path, name) is always longer
// than path and tree walks terminate.
func childNames(keys []string, path string) []string {
	prefix := ""
	if path != "" {
		prefix = path + KeyDelimiter
	}

	seen := make(map[string]struct{})
	var names []string
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		if rest == "" {
			continue
		}
		name, after, found := strings.Cut(rest, KeyDelimiter)
		if name == "" || (found && after == "") {
			// An empty segment cannot be walked into; the remainder is a leaf name
			name = rest
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sortKeys(names)
	return names
}
