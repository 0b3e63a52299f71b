// FILE: lixenwraith/settings/provider.go
package settings

import (
	"sort"
	"sync/atomic"
)

// Provider supplies flat key/value data to a Config.
// Load (re)builds the provider's data; Lookup and Keys read the last
// successfully loaded snapshot and are safe for concurrent use with Load.
type Provider interface {
	Name() string
	Load() error
	Lookup(key string) (string, bool)
	Keys() []string
}

// snapshot holds an immutable table that is replaced wholesale on each load.
// Readers never observe a partially built table.
type snapshot struct {
	data atomic.Pointer[map[string]string]
}

func (s *snapshot) Lookup(key string) (string, bool) {
	m := s.data.Load()
	if m == nil {
		return "", false
	}
	v, ok := (*m)[key]
	return v, ok
}

func (s *snapshot) Keys() []string {
	m := s.data.Load()
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(*m))
	for k := range *m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// publish swaps in a fully built table.
func (s *snapshot) publish(m map[string]string) {
	if m == nil {
		m = make(map[string]string)
	}
	s.data.Store(&m)
}

// MapProvider serves a fixed set of values.
type MapProvider struct {
	snapshot
	name   string
	values map[string]string
}

// NewMapProvider creates a provider over a copy of values.
func NewMapProvider(name string, values map[string]string) *MapProvider {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	p := &MapProvider{name: name, values: copied}
	p.publish(copied)
	return p
}

// Name returns the provider name.
func (p *MapProvider) Name() string {
	if p.name == "" {
		return "map"
	}
	return p.name
}

// Load republishes the initial values.
func (p *MapProvider) Load() error {
	p.publish(p.values)
	return nil
}
