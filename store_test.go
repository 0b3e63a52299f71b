// FILE: lixenwraith/settings/store_test.go
package settings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapChildren(t *testing.T) {
	m := Map{
		"server:host":    "localhost",
		"server:port":    "8080",
		"list:10":        "k",
		"list:2":         "c",
		"list:0":         "a",
		"list:name":      "named",
		"root":           "value",
		"server:tls:key": "k.pem",
	}

	assert.Equal(t, []string{"list", "root", "server"}, m.Children(""))
	assert.Equal(t, []string{"host", "port", "tls"}, m.Children("server"))
	assert.Equal(t, []string{"0", "2", "10", "name"}, m.Children("list"))
	assert.Empty(t, m.Children("root"))
	assert.Empty(t, m.Children("missing"))
}

func TestSub(t *testing.T) {
	m := Map{
		"a:b:c": "deep",
		"a:x":   "shallow",
	}

	a := Sub(m, "a")
	v, ok := a.Get("x")
	assert.True(t, ok)
	assert.Equal(t, "shallow", v)
	assert.Equal(t, []string{"b", "x"}, a.Children(""))

	t.Run("Nested", func(t *testing.T) {
		b := Sub(a, "b")
		v, ok := b.Get("c")
		assert.True(t, ok)
		assert.Equal(t, "deep", v)

		s, ok := b.(*section)
		assert.True(t, ok)
		assert.Equal(t, "a:b", s.path)
	})

	t.Run("RootPath", func(t *testing.T) {
		assert.Equal(t, Reader(m), Sub(m, ""))
		assert.Equal(t, Reader(m), Sub(m, ":"))
	})

	t.Run("Accessors", func(t *testing.T) {
		assert.Equal(t, "deep", GetString(Sub(m, "a:b"), "c", ""))
	})

	t.Run("NilReader", func(t *testing.T) {
		assert.Panics(t, func() { Sub(nil, "a") })
	})
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "a:b:c", JoinKey("a", "b", "c"))
	assert.Equal(t, "a:c", JoinKey("a", "", "c"))
	assert.Equal(t, "b", JoinKey("", "b"))
	assert.Equal(t, "", JoinKey())
}

func TestExists(t *testing.T) {
	m := Map{"a:b": "1", "empty": ""}

	assert.True(t, Exists(m, "a"))
	assert.True(t, Exists(m, "a:b"))
	assert.True(t, Exists(m, "empty"))
	assert.False(t, Exists(m, "a:c"))
}

func TestCompareKeys(t *testing.T) {
	keys := []string{"b", "10", "a", "2", "1"}
	sortKeys(keys)
	assert.Equal(t, []string{"1", "2", "10", "a", "b"}, keys)
}

func TestEmptySegmentKeys(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		children []string
		tree     map[string]any
		json     string
	}{
		{
			name:     "DoubleDelimiter",
			key:      "Logging::Level",
			children: []string{"Logging"},
			tree:     map[string]any{"Logging": map[string]any{":Level": "v"}},
			json:     "{\n  \"Logging\": {\n    \":Level\": \"v\"\n  }\n}",
		},
		{
			name:     "LeadingDelimiter",
			key:      ":x",
			children: []string{":x"},
			tree:     map[string]any{":x": "v"},
			json:     "{\n  \":x\": \"v\"\n}",
		},
		{
			name:     "TrailingDelimiter",
			key:      "a:",
			children: []string{"a:"},
			tree:     map[string]any{"a:": "v"},
			json:     "{\n  \"a:\": \"v\"\n}",
		},
		{
			name:     "TrailingDelimiterInSection",
			key:      "a:b:",
			children: []string{"a"},
			tree:     map[string]any{"a": map[string]any{"b:": "v"}},
			json:     "{\n  \"a\": {\n    \"b:\": \"v\"\n  }\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Map{tt.key: "v"}
			assert.Equal(t, tt.children, m.Children(""))

			assert.Equal(t, tt.json, ToJSON(m))

			var tree map[string]any
			require.NoError(t, Bind(m, "", &tree))
			assert.Equal(t, tt.tree, tree)

			cfg := New(NewMapProvider("map", m))
			assert.Contains(t, cfg.Debug(), tt.key+` = "v" (map)`)
		})
	}

	t.Run("LegacyKey", func(t *testing.T) {
		table, err := ParseLegacy(strings.NewReader(
			`<configuration><appSettings><add key="Logging::Level" value="Debug"/></appSettings></configuration>`), false)
		require.NoError(t, err)
		assert.Equal(t, []string{":Level"}, table.Children("Logging"))
		assert.Equal(t, "Debug", GetString(table, "Logging::Level", ""))
		assert.Contains(t, ToJSON(table), `":Level": "Debug"`)
	})
}
