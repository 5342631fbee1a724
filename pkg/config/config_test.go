package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbench/envprofile/pkg/config"
	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/paths"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Settings{}, s)
}

func TestLoadParsesAllKeys(t *testing.T) {
	path := writeConfig(t, `
plugin_root = "/opt/envprofile"
service_url = "https://profiles.example.com"
recs_dir = "/data/recs"
state_path = "/data/state.json"
`)

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/envprofile", s.PluginRoot)
	assert.Equal(t, "https://profiles.example.com", s.ServiceURL)
	assert.Equal(t, "/data/recs", s.RecsDir)
	assert.Equal(t, "/data/state.json", s.StatePath)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "service_url = [not toml")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestResolveServiceURLOrder(t *testing.T) {
	t.Setenv(paths.EnvServiceURL, "https://env.example.com/")
	fromFile := config.Settings{ServiceURL: "https://file.example.com"}

	t.Run("flag wins", func(t *testing.T) {
		url, err := config.ResolveServiceURL("https://flag.example.com/", fromFile)
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example.com", url)
	})

	t.Run("env beats file", func(t *testing.T) {
		url, err := config.ResolveServiceURL("", fromFile)
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com", url)
	})

	t.Run("file is last resort", func(t *testing.T) {
		t.Setenv(paths.EnvServiceURL, "")
		url, err := config.ResolveServiceURL("", fromFile)
		require.NoError(t, err)
		assert.Equal(t, "https://file.example.com", url)
	})
}

func TestResolveServiceURLMissingIsFatal(t *testing.T) {
	t.Setenv(paths.EnvServiceURL, "")
	_, err := config.ResolveServiceURL("", config.Settings{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigMissing))
}

func TestResolveStatePath(t *testing.T) {
	t.Setenv(paths.EnvStateFile, "")
	assert.Equal(t, "/flag/state.json", config.ResolveStatePath("/flag/state.json", config.Settings{StatePath: "/file/state.json"}))
	assert.Equal(t, "/file/state.json", config.ResolveStatePath("", config.Settings{StatePath: "/file/state.json"}))
	assert.Equal(t, paths.StateFilePath(), config.ResolveStatePath("", config.Settings{}))
}
