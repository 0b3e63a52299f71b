// FILE: lixenwraith/settings/config.go
package settings

import (
	"errors"
	"fmt"
	"sync"
)

// Config layers providers into a single Reader. Providers added later take
// precedence over providers added earlier.
type Config struct {
	mutex     sync.RWMutex
	providers []Provider
	watchers  []*watcher

	subMu       sync.RWMutex
	subscribers map[int64]chan string
	nextSubID   int64
	closed      bool
}

// New creates a Config over the given providers without loading them.
func New(providers ...Provider) *Config {
	return &Config{
		providers:   append([]Provider(nil), providers...),
		subscribers: make(map[int64]chan string),
	}
}

// Add appends a provider with the highest precedence.
func (c *Config) Add(p Provider) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.providers = append(c.providers, p)
}

// Providers returns the providers in precedence order, lowest first.
func (c *Config) Providers() []Provider {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return append([]Provider(nil), c.providers...)
}

// Get returns the value at key from the highest-precedence provider holding it.
func (c *Config) Get(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for i := len(c.providers) - 1; i >= 0; i-- {
		if v, ok := c.providers[i].Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Children returns the union of immediate child names under path across providers.
func (c *Config) Children(path string) []string {
	c.mutex.RLock()
	var keys []string
	for _, p := range c.providers {
		keys = append(keys, p.Keys()...)
	}
	c.mutex.RUnlock()

	return childNames(keys, path)
}

// Source returns the name of the provider that supplies key.
func (c *Config) Source(key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for i := len(c.providers) - 1; i >= 0; i-- {
		if _, ok := c.providers[i].Lookup(key); ok {
			return c.providers[i].Name(), true
		}
	}
	return "", false
}

// Load loads every provider in order. Errors are joined; a failing provider
// keeps its previous snapshot.
func (c *Config) Load() error {
	var loadErrors []error
	for _, p := range c.Providers() {
		if err := p.Load(); err != nil {
			loadErrors = append(loadErrors, err)
		}
	}
	return errors.Join(loadErrors...)
}

// Reload reloads every provider and notifies watchers of the outcome.
func (c *Config) Reload() error {
	var loadErrors []error
	for _, p := range c.Providers() {
		err := p.Load()
		c.notifyReload(p.Name(), err)
		if err != nil {
			loadErrors = append(loadErrors, err)
		}
	}
	return errors.Join(loadErrors...)
}

// Watch returns a channel receiving the name of each provider that reloads,
// or "reload_error:<name>:<error>" when a reload fails. The channel is closed by Close.
func (c *Config) Watch() <-chan string {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	ch := make(chan string, 10)
	if c.closed {
		close(ch)
		return ch
	}
	c.nextSubID++
	c.subscribers[c.nextSubID] = ch
	return ch
}

// IsWatching reports whether any provider is being watched for file changes.
func (c *Config) IsWatching() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	for _, w := range c.watchers {
		if w.watching.Load() {
			return true
		}
	}
	return false
}

// Close stops all file watchers and closes Watch channels.
func (c *Config) Close() {
	c.mutex.Lock()
	watchers := c.watchers
	c.watchers = nil
	c.mutex.Unlock()

	for _, w := range watchers {
		w.stop()
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.subscribers {
		close(ch)
		delete(c.subscribers, id)
	}
}

// watchFile starts a polling watcher that reloads p when path changes.
func (c *Config) watchFile(p Provider, path string, opts WatchOptions) {
	w := newWatcher(path, opts, func() {
		err := p.Load()
		c.notifyReload(p.Name(), err)
	})

	c.mutex.Lock()
	c.watchers = append(c.watchers, w)
	c.mutex.Unlock()

	w.start()
}

func (c *Config) notifyReload(name string, err error) {
	event := name
	if err != nil {
		event = fmt.Sprintf("reload_error:%s:%v", name, err)
		pkgLogger().WithError(err).WithField("provider", name).Error("configuration reload failed")
	} else {
		pkgLogger().WithField("provider", name).Debug("configuration reloaded")
	}

	c.subMu.RLock()
	defer c.subMu.RUnlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is not draining; drop the event
		}
	}
}
