// File: lixenwraith/settings/builder.go
package settings

import (
	"fmt"
)

// ValidatorFunc defines the signature for a function that can validate a Config instance.
// It receives the fully loaded *Config object and should return an error if validation fails.
type ValidatorFunc func(c *Config) error

// Builder provides a fluent interface for composing providers. Providers
// added later take precedence.
type Builder struct {
	providers  []Provider
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		validators: make([]ValidatorFunc, 0),
	}
}

// AddProvider appends any provider
func (b *Builder) AddProvider(p Provider) *Builder {
	if p == nil {
		b.setErr(fmt.Errorf("%w: provider is nil", ErrInvalidArgument))
		return b
	}
	b.providers = append(b.providers, p)
	return b
}

// AddMap appends fixed values, typically defaults added first
func (b *Builder) AddMap(values map[string]string) *Builder {
	return b.AddProvider(NewMapProvider("map", values))
}

// AddFile appends a TOML, JSON or YAML file provider
func (b *Builder) AddFile(opts FileOptions) *Builder {
	p, err := NewFileProvider(opts)
	if err != nil {
		b.setErr(err)
		return b
	}
	return b.AddProvider(p)
}

// AddEnv appends environment variables carrying prefix
func (b *Builder) AddEnv(prefix string) *Builder {
	return b.AddProvider(NewEnvProvider(prefix))
}

// AddArgs appends command-line arguments
func (b *Builder) AddArgs(args []string) *Builder {
	return b.AddProvider(NewArgsProvider(args))
}

// AddLegacy appends a legacy XML settings file provider
func (b *Builder) AddLegacy(opts LegacyOptions) *Builder {
	p, err := NewLegacyProvider(opts)
	if err != nil {
		b.setErr(err)
		return b
	}
	return b.AddProvider(p)
}

// AddLegacyFile appends an optional, unwatched legacy file at path
func (b *Builder) AddLegacyFile(path string) *Builder {
	return b.AddLegacy(DefaultLegacyOptions(path))
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build loads every provider, runs validators and starts watchers for
// providers with ReloadOnChange. Any load failure is fatal.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	cfg := New(b.providers...)
	if err := cfg.Load(); err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	for _, p := range b.providers {
		w, ok := p.(watchable)
		if !ok {
			continue
		}
		if path, opts, enabled := w.watchTarget(); enabled {
			cfg.watchFile(p, path, opts)
		}
	}

	return cfg, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndBind builds the configuration and binds the section at path into target
func (b *Builder) BuildAndBind(path string, target any) (*Config, error) {
	cfg, err := b.Build()
	if err != nil {
		return nil, err
	}

	if err := Bind(cfg, path, target); err != nil {
		cfg.Close()
		return nil, fmt.Errorf("failed to bind final config into target: %w", err)
	}
	return cfg, nil
}
