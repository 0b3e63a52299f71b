// FILE: lixenwraith/settings/errors.go
package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a nil reader, an empty key or an empty path
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfigNotFound is returned when a required configuration file does not exist
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrMalformedDocument is returned when a configuration file cannot be parsed
	ErrMalformedDocument = errors.New("malformed configuration document")

	// ErrMissingAttribute is returned when a legacy add/remove node lacks a required attribute
	ErrMissingAttribute = errors.New("missing required attribute")

	// ErrInvalidField is returned by SafeCopyField when the field path does not name a settable field
	ErrInvalidField = errors.New("invalid field")

	// ErrCLIParse is returned when command-line arguments cannot be parsed
	ErrCLIParse = errors.New("failed to parse command-line arguments")

	// ErrValueSize is returned when a raw value exceeds MaxValueSize
	ErrValueSize = fmt.Errorf("value exceeds maximum size of %d bytes", MaxValueSize)
)

// MaxValueSize bounds a single raw value accepted from the environment or arguments
const MaxValueSize = 1024 * 1024

// LoadError describes a failed provider load.
type LoadError struct {
	Provider string
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("load %s '%s': %v", e.Provider, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// invalidArgument panics with an error wrapping ErrInvalidArgument.
// Accessors are total over values; only structurally invalid calls fail loudly.
func invalidArgument(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...)))
}

func checkReadArgs(r Reader, key string) {
	if r == nil {
		invalidArgument("reader is nil")
	}
	if key == "" {
		invalidArgument("key is empty")
	}
}
