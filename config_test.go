// FILE: lixenwraith/settings/config_test.go
package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingProvider fails every load after the first
type failingProvider struct {
	snapshot
	loads int
}

func (p *failingProvider) Name() string { return "failing" }

func (p *failingProvider) Load() error {
	p.loads++
	if p.loads > 1 {
		return errors.New("backend unavailable")
	}
	p.publish(map[string]string{"k": "v"})
	return nil
}

func TestSourcePrecedence(t *testing.T) {
	defaults := NewMapProvider("defaults", map[string]string{
		"server:host": "0.0.0.0",
		"server:port": "80",
		"only:low":    "low",
	})
	overrides := NewMapProvider("overrides", map[string]string{
		"server:port": "8080",
	})

	cfg := New(defaults, overrides)
	require.NoError(t, cfg.Load())

	assert.Equal(t, 8080, GetInt(cfg, "server:port", 0))
	assert.Equal(t, "0.0.0.0", GetString(cfg, "server:host", ""))
	assert.Equal(t, []string{"only", "server"}, cfg.Children(""))
	assert.Equal(t, []string{"host", "port"}, cfg.Children("server"))

	source, ok := cfg.Source("server:port")
	assert.True(t, ok)
	assert.Equal(t, "overrides", source)

	source, ok = cfg.Source("server:host")
	assert.True(t, ok)
	assert.Equal(t, "defaults", source)

	_, ok = cfg.Source("missing")
	assert.False(t, ok)

	t.Run("AddTakesPrecedence", func(t *testing.T) {
		cfg.Add(NewMapProvider("late", map[string]string{"server:host": "127.0.0.1"}))
		assert.Equal(t, "127.0.0.1", GetString(cfg, "server:host", ""))
		assert.Len(t, cfg.Providers(), 3)
	})
}

func TestConfigReload(t *testing.T) {
	p := &failingProvider{}
	cfg := New(p)
	require.NoError(t, cfg.Load())

	events := cfg.Watch()
	err := cfg.Reload()
	require.Error(t, err)

	// Previous snapshot survives a failed reload
	assert.Equal(t, "v", GetString(cfg, "k", ""))

	select {
	case ev := <-events:
		assert.Contains(t, ev, "reload_error:failing:")
	default:
		t.Fatal("expected reload event")
	}

	cfg.Close()
	_, open := <-events
	assert.False(t, open)

	closed := cfg.Watch()
	_, open = <-closed
	assert.False(t, open, "Watch after Close returns a closed channel")
}

func TestConcurrentAccess(t *testing.T) {
	values := make(map[string]string)
	for i := 0; i < 50; i++ {
		values[fmt.Sprintf("items:%d", i)] = fmt.Sprintf("%d", i)
	}
	p := NewMapProvider("items", values)
	cfg := New(p)
	require.NoError(t, cfg.Load())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				list, ok := TryGetAsList[int](cfg, "items")
				assert.True(t, ok)
				assert.Len(t, list, 50)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.NoError(t, cfg.Reload())
			}
		}()
	}
	wg.Wait()
}

func TestDebugAndDump(t *testing.T) {
	cfg := New(
		NewMapProvider("defaults", map[string]string{"a:b": "1"}),
		NewMapProvider("env", map[string]string{"c": "2"}),
	)
	require.NoError(t, cfg.Load())

	debug := cfg.Debug()
	assert.Contains(t, debug, `a:b = "1" (defaults)`)
	assert.Contains(t, debug, `c = "2" (env)`)

	var sb strings.Builder
	require.NoError(t, cfg.Dump(&sb))
	assert.Equal(t, ToJSON(cfg)+"\n", sb.String())
}
