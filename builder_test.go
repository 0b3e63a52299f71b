// FILE: lixenwraith/settings/builder_test.go
package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	tmpDir := t.TempDir()
	legacyPath := filepath.Join(tmpDir, "app.exe.config")
	tomlPath := filepath.Join(tmpDir, "app.toml")

	require.NoError(t, os.WriteFile(legacyPath, []byte(`<configuration>
  <appSettings><add key="Server:Port" value="7000"/><add key="Mode" value="legacy"/></appSettings>
  <connectionStrings><add name="main" connectionString="Server=db"/></connectionStrings>
</configuration>`), 0644))
	require.NoError(t, os.WriteFile(tomlPath, []byte("[Server]\nPort = 7500\n"), 0644))

	t.Run("LayeredPrecedence", func(t *testing.T) {
		cfg, err := NewBuilder().
			AddMap(map[string]string{"Server:Port": "80", "Server:Host": "localhost"}).
			AddLegacyFile(legacyPath).
			AddFile(FileOptions{Path: tomlPath}).
			AddArgs([]string{"--Mode=cli"}).
			Build()
		require.NoError(t, err)
		defer cfg.Close()

		assert.Equal(t, 7500, GetInt(cfg, "Server:Port", 0))
		assert.Equal(t, "localhost", GetString(cfg, "Server:Host", ""))
		assert.Equal(t, "cli", GetString(cfg, "Mode", ""))
		assert.Equal(t, "Server=db", GetString(cfg, "ConnectionStrings:main", ""))
		assert.False(t, cfg.IsWatching())
	})

	t.Run("MissingRequiredFile", func(t *testing.T) {
		_, err := NewBuilder().
			AddFile(FileOptions{Path: filepath.Join(tmpDir, "none.toml")}).
			Build()
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("MissingOptionalLegacyFile", func(t *testing.T) {
		cfg, err := NewBuilder().
			AddLegacyFile(filepath.Join(tmpDir, "none.config")).
			Build()
		require.NoError(t, err)
		assert.Empty(t, cfg.Children(""))
	})

	t.Run("InvalidOptionsSurfaceAtBuild", func(t *testing.T) {
		_, err := NewBuilder().AddLegacy(LegacyOptions{}).Build()
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = NewBuilder().AddProvider(nil).Build()
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Validator", func(t *testing.T) {
		errPort := errors.New("port required")
		_, err := NewBuilder().
			AddMap(map[string]string{"Server:Host": "x"}).
			WithValidator(func(c *Config) error {
				if !Exists(c, "Server:Port") {
					return errPort
				}
				return nil
			}).
			Build()
		assert.ErrorIs(t, err, errPort)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().AddFile(FileOptions{Path: filepath.Join(tmpDir, "none.toml")}).MustBuild()
		})
	})

	t.Run("BuildAndBind", func(t *testing.T) {
		var server struct {
			Port int    `config:"Port"`
			Host string `config:"Host"`
		}
		cfg, err := NewBuilder().
			AddMap(map[string]string{"Server:Port": "80", "Server:Host": "localhost"}).
			BuildAndBind("Server", &server)
		require.NoError(t, err)
		defer cfg.Close()
		assert.Equal(t, 80, server.Port)
		assert.Equal(t, "localhost", server.Host)

		_, err = NewBuilder().
			AddMap(map[string]string{"Server:Port": "80"}).
			BuildAndBind("Server:Port", &server)
		assert.Error(t, err)
	})
}

func TestFileDiscovery(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("SearchPaths", func(t *testing.T) {
		path := filepath.Join(tmpDir, "myapp.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"k":"v"}`), 0644))

		opts := DefaultDiscoveryOptions("myapp")
		opts.EnvVar = ""
		opts.UseXDG = false
		opts.UseCurrentDir = false
		opts.Paths = []string{tmpDir}
		assert.Equal(t, path, DiscoverFile(opts))

		cfg, err := NewBuilder().AddDiscoveredFile(opts).Build()
		require.NoError(t, err)
		assert.Equal(t, "v", GetString(cfg, "k", ""))
	})

	t.Run("EnvVarWins", func(t *testing.T) {
		t.Setenv("OTHERAPP_CONFIG", "/explicit/path.toml")
		opts := DefaultDiscoveryOptions("otherapp")
		assert.Equal(t, "/explicit/path.toml", DiscoverFile(opts))
	})

	t.Run("LegacySuffix", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "legacy")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "svc.config"),
			[]byte(`<configuration><appSettings><add key="k" value="legacy"/></appSettings></configuration>`), 0644))

		opts := FileDiscoveryOptions{Name: "svc", Extensions: []string{LegacyConfigSuffix}, Paths: []string{dir}}
		cfg, err := NewBuilder().AddDiscoveredFile(opts).Build()
		require.NoError(t, err)
		assert.Equal(t, "legacy", GetString(cfg, "k", ""))

		source, _ := cfg.Source("k")
		assert.Equal(t, "legacy:"+filepath.Join(dir, "svc.config"), source)
	})

	t.Run("NothingFound", func(t *testing.T) {
		opts := FileDiscoveryOptions{Name: "absent", Extensions: []string{".toml"}, Paths: []string{tmpDir}}
		assert.Empty(t, DiscoverFile(opts))

		cfg, err := NewBuilder().AddDiscoveredFile(opts).Build()
		require.NoError(t, err)
		assert.Empty(t, cfg.Providers())
	})
}

func TestDefaultLegacyPath(t *testing.T) {
	path, err := DefaultLegacyPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, LegacyConfigSuffix, filepath.Ext(path))
}
