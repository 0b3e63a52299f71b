// FILE: lixenwraith/settings/discovery.go
package settings

import (
	"os"
	"path/filepath"
	"strings"
)

// LegacyConfigSuffix is appended to the executable name to form the legacy settings file name.
const LegacyConfigSuffix = ".config"

// DefaultLegacyPath returns "<executable dir>/<executable name>.config", the
// conventional location of a process's legacy settings file. A ".exe"
// extension is kept, as in "app.exe.config".
func DefaultLegacyPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe + LegacyConfigSuffix, nil
}

// FileDiscoveryOptions configures automatic config file discovery
type FileDiscoveryOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (in addition to defaults)
	Paths []string

	// Environment variable to check for explicit path
	EnvVar string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".json", ".yaml", ".yml", LegacyConfigSuffix},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFile returns the first existing configuration file for opts, or ""
// when none is found.
func DiscoverFile(opts FileDiscoveryOptions) string {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path
		}
	}

	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	if opts.UseXDG {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}

	return ""
}

// AddDiscoveredFile appends the discovered file as an optional provider,
// choosing the legacy adapter for ".config" files. Nothing is added when no
// file is found.
func (b *Builder) AddDiscoveredFile(opts FileDiscoveryOptions) *Builder {
	path := DiscoverFile(opts)
	if path == "" {
		return b
	}
	if strings.EqualFold(filepath.Ext(path), LegacyConfigSuffix) {
		return b.AddLegacyFile(path)
	}
	return b.AddFile(FileOptions{Path: path, Optional: true, Watch: DefaultWatchOptions()})
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
