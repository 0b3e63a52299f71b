// File: lixenwraith/settings/convenience.go
package settings

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Quick builds a Config from the process's legacy settings file when it
// exists, then environment variables carrying envPrefix, then os.Args[1:],
// each overriding the previous.
func Quick(envPrefix string) (*Config, error) {
	b := NewBuilder()
	if path, err := DefaultLegacyPath(); err == nil {
		b.AddLegacyFile(path)
	}
	return b.AddEnv(envPrefix).AddArgs(os.Args[1:]).Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(envPrefix string) *Config {
	cfg, err := Quick(envPrefix)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

// Debug returns a formatted listing of every leaf key, its value and the
// provider supplying it.
func (c *Config) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")

	b.WriteString("Providers (lowest precedence first):\n")
	for _, p := range c.Providers() {
		b.WriteString(fmt.Sprintf("  %s\n", p.Name()))
	}

	b.WriteString("Current values:\n")
	var walk func(path string)
	walk = func(path string) {
		for _, name := range c.Children(path) {
			child := JoinKey(path, name)
			if v, ok := c.Get(child); ok {
				source, _ := c.Source(child)
				b.WriteString(fmt.Sprintf("  %s = %q (%s)\n", child, v, source))
			}
			walk(child)
		}
	}
	walk("")

	return b.String()
}

// Dump writes the current configuration to w as JSON
func (c *Config) Dump(w io.Writer) error {
	_, err := io.WriteString(w, ToJSON(c)+"\n")
	return err
}
