// FILE: lixenwraith/settings/loader.go
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileOptions configures a FileProvider.
type FileOptions struct {
	// Path of the configuration file (required)
	Path string

	// Format forces "toml", "json" or "yaml"; empty or "auto" detects it
	Format string

	// Optional makes a missing file load as an empty table instead of failing
	Optional bool

	// ReloadOnChange reloads the provider when the file changes
	ReloadOnChange bool

	// Watch tunes the watcher used when ReloadOnChange is set
	Watch WatchOptions

	// MaxFileSize rejects larger files when positive
	MaxFileSize int64
}

// watchable is implemented by providers backed by a file that can be watched.
type watchable interface {
	watchTarget() (path string, opts WatchOptions, enabled bool)
}

// FileProvider loads a TOML, JSON or YAML document and flattens it to colon keys.
type FileProvider struct {
	snapshot
	opts   FileOptions
	loadMu sync.Mutex
}

// NewFileProvider creates a file provider. The file is not read until Load.
func NewFileProvider(opts FileOptions) (*FileProvider, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: file path is empty", ErrInvalidArgument)
	}
	switch opts.Format {
	case "", "auto", "toml", "json", "yaml":
	default:
		return nil, fmt.Errorf("%w: unsupported file format %q", ErrInvalidArgument, opts.Format)
	}
	p := &FileProvider{opts: opts}
	p.publish(nil)
	return p, nil
}

// Name returns "file:<path>".
func (p *FileProvider) Name() string {
	return "file:" + p.opts.Path
}

// Path returns the file path.
func (p *FileProvider) Path() string {
	return p.opts.Path
}

func (p *FileProvider) watchTarget() (string, WatchOptions, bool) {
	return p.opts.Path, p.opts.Watch, p.opts.ReloadOnChange
}

// Load reads and parses the file, then publishes the flattened table.
// On failure the previous table is kept.
func (p *FileProvider) Load() error {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	data, err := readConfigFile(p.opts.Path, p.opts.MaxFileSize)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) && p.opts.Optional {
			p.publish(nil)
			return nil
		}
		return &LoadError{Provider: "file", Path: p.opts.Path, Err: err}
	}

	format := p.opts.Format
	if format == "" || format == "auto" {
		format = detectFileFormat(p.opts.Path)
		if format == "" {
			format = detectFormatFromContent(data)
		}
	}

	doc := make(map[string]any)
	switch format {
	case "toml":
		err = toml.Unmarshal(data, &doc)
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number text
		err = decoder.Decode(&doc)
	case "yaml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = errors.New("unable to determine file format")
	}
	if err != nil {
		return &LoadError{Provider: "file", Path: p.opts.Path, Err: fmt.Errorf("%w: %s: %w", ErrMalformedDocument, format, err)}
	}

	p.publish(flattenMap(doc, ""))
	return nil
}

// readConfigFile reads path, mapping a missing file to ErrConfigNotFound.
func readConfigFile(path string, maxSize int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("config file exceeds maximum size %d bytes", maxSize)
	}
	return data, nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// TOML before YAML: most TOML documents are not valid YAML mappings, the reverse is common
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}

// EnvProvider maps environment variables to keys. With prefix "APP_",
// APP_Server__Port becomes "Server:Port". Double underscores separate segments.
type EnvProvider struct {
	snapshot
	prefix  string
	environ func() []string
}

// NewEnvProvider creates an environment provider filtering on prefix.
func NewEnvProvider(prefix string) *EnvProvider {
	p := &EnvProvider{prefix: prefix, environ: os.Environ}
	p.publish(nil)
	return p
}

// Name returns "env" or "env:<prefix>".
func (p *EnvProvider) Name() string {
	if p.prefix == "" {
		return "env"
	}
	return "env:" + p.prefix
}

// Load snapshots the current environment.
func (p *EnvProvider) Load() error {
	found := make(map[string]string)
	for _, kv := range p.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, p.prefix) {
			continue
		}
		name = strings.TrimPrefix(name, p.prefix)
		if name == "" {
			continue
		}
		if len(value) > MaxValueSize {
			return &LoadError{Provider: "env", Path: name, Err: ErrValueSize}
		}
		found[strings.ReplaceAll(name, "__", KeyDelimiter)] = value
	}
	p.publish(found)
	return nil
}

// ArgsProvider maps command-line arguments of the form --key=value,
// --key value and --flag (true) to keys. Keys use colon paths: --server:port=80.
type ArgsProvider struct {
	snapshot
	args []string
}

// NewArgsProvider creates a provider over args (typically os.Args[1:]).
func NewArgsProvider(args []string) *ArgsProvider {
	p := &ArgsProvider{args: append([]string(nil), args...)}
	p.publish(nil)
	return p
}

// Name returns "args".
func (p *ArgsProvider) Name() string {
	return "args"
}

// Load parses the arguments.
func (p *ArgsProvider) Load() error {
	parsed, err := parseArgs(p.args)
	if err != nil {
		return &LoadError{Provider: "args", Err: fmt.Errorf("%w: %w", ErrCLIParse, err)}
	}
	p.publish(parsed)
	return nil
}

// parseArgs processes command-line arguments into flat keys.
func parseArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		if k, v, ok := strings.Cut(argContent, "="); ok {
			keyPath, valueStr = k, v
			i++
		} else {
			keyPath = argContent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			// Skip invalid flags like --=value
			continue
		}

		for _, segment := range strings.Split(keyPath, KeyDelimiter) {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}
		if len(valueStr) > MaxValueSize {
			return nil, ErrValueSize
		}

		result[keyPath] = valueStr
	}

	return result, nil
}
