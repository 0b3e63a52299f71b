// File: lixenwraith/settings/doc.go

// Package settings provides typed access to hierarchical key/value
// configuration and adapters that feed such configuration from files,
// environment variables, command-line arguments and legacy XML settings files.
//
// Keys are colon-delimited paths ("server:port"). Arrays are index keys
// ("hosts:0", "hosts:1"). Anything implementing Reader can be read:
// a Map, a Config, or a section of either returned by Sub.
//
// Features:
//   - Try-pattern and default-value readers for bool, integers, floats,
//     characters, times, durations and UUIDs
//   - Generic TryGetAs/GetAs with a parser registry, enumerations through
//     encoding.TextUnmarshaler, and list reads over index keys
//   - SafeCopy to push a value into a setter or struct field only when it parses
//   - Bind to decode a section into a struct (mapstructure)
//   - JSON rendering of a tree, to a string or atomically to a file
//   - Legacy appSettings/connectionStrings XML files with add/remove/clear
//   - TOML, JSON and YAML files, environment variables, arguments
//   - Atomic snapshot reloads and polling file watchers
//
// Quick Start:
//
//	cfg, err := settings.NewBuilder().
//	    AddMap(map[string]string{"Server:Port": "8080"}).
//	    AddLegacyFile("app.exe.config").
//	    AddEnv("MYAPP_").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cfg.Close()
//
//	port := settings.GetInt(cfg, "Server:Port", 80)
//	db, ok := settings.TryGetString(cfg, "ConnectionStrings:main")
//	hosts, _ := settings.TryGetAsList[string](cfg, "Server:Hosts")
//
// Precedence:
// Providers added later override providers added earlier. Above, environment
// variables (MYAPP_Server__Port) override the legacy file, which overrides
// the map defaults.
//
// Thread Safety:
// Readers are safe for concurrent use. Providers publish each load as a new
// immutable snapshot, so a reload never exposes a partially built table.
package settings
