package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plc-visualizer/strintern/internal/intern"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strintern.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
	assert.Equal(t, intern.DefaultHasher, cfg.Registry.Hasher)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# strintern configuration")
	assert.Contains(t, string(data), "hasher: xxhash")
}

func TestLoadConfigPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strintern.yaml")
	content := `
server:
  port: 9100
registry:
  hasher: xxh3
  preloadFile: symbols.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.BindAddress, "unset keys keep defaults")
	assert.Equal(t, intern.HasherXXH3, cfg.Registry.Hasher)
	assert.Equal(t, filepath.Join(dir, "symbols.yaml"), cfg.Registry.PreloadFile)
	assert.Equal(t, "127.0.0.1:9100", cfg.GetServerAddr())
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strintern.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("PORT", "9200")
	t.Setenv("STRINTERN_HASHER", "xxh3")
	t.Setenv("STRINTERN_LOG_LEVEL", "debug")
	t.Setenv("STRINTERN_PRELOAD", "/etc/strintern/symbols.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "xxh3", cfg.Registry.Hasher)
	assert.Equal(t, "debug", cfg.Advanced.LogLevel)
	assert.Equal(t, "/etc/strintern/symbols.yaml", cfg.Registry.PreloadFile)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [unclosed"},
		{"unknown hasher", "registry:\n  hasher: md5\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"negative capacity", "registry:\n  initialCapacity: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "strintern.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestRegistryOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Registry.Hasher = "XXH3"

	opts, err := cfg.RegistryOptions()
	require.NoError(t, err)

	r := intern.NewRegistry(opts...)
	assert.Equal(t, intern.HasherXXH3, r.HasherName())

	cfg.Registry.Hasher = "nope"
	_, err = cfg.RegistryOptions()
	assert.ErrorIs(t, err, intern.ErrUnknownHasher)
}
