// Package config holds the process-wide configuration for envprofile.
//
// Settings are resolved from three layers, most specific first: explicit
// command-line flags, ENVPROFILE_* environment variables, and the TOML
// config file. Constructors receive the resolved Settings struct rather
// than reading the environment themselves.
package config

import (
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/paths"
)

// Settings enumerates every recognized configuration option.
type Settings struct {
	// PluginRoot is the installer/probe script lookup base.
	PluginRoot string `toml:"plugin_root"`

	// ServiceURL is the profile hosting endpoint.
	ServiceURL string `toml:"service_url"`

	// RecsDir is the descriptor catalog path.
	RecsDir string `toml:"recs_dir"`

	// StatePath is the saved-state file path.
	StatePath string `toml:"state_path"`
}

// Load reads the config file at path. A missing file yields zero-value
// Settings; an unparsable file is a CONFIG_PARSE error.
func Load(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrapf(err, errors.ErrConfigParse, "cannot read config file %s", path)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse config file %s", path)
	}
	return s, nil
}

// ResolveServiceURL applies the resolution order for the hosting service
// endpoint: explicit flag, then environment variable, then config file.
// Failing all three is a fatal configuration error.
func ResolveServiceURL(flag string, s Settings) (string, error) {
	for _, candidate := range []string{flag, os.Getenv(paths.EnvServiceURL), s.ServiceURL} {
		candidate = strings.TrimSpace(candidate)
		if candidate != "" {
			return strings.TrimRight(candidate, "/"), nil
		}
	}
	return "", errors.Newf(errors.ErrConfigMissing,
		"profile service URL not configured; pass --service-url, set %s, or set service_url in %s",
		paths.EnvServiceURL, paths.ConfigFilePath())
}

// ResolvePluginRoot applies the resolution order for the installer script
// base: explicit flag, then config file, then the paths default.
func ResolvePluginRoot(flag string, s Settings) string {
	if flag != "" {
		return flag
	}
	if s.PluginRoot != "" {
		return s.PluginRoot
	}
	return paths.PluginRoot()
}

// ResolveRecsDir applies the resolution order for the descriptor catalog
// directory: explicit flag, then config file, then the paths default.
func ResolveRecsDir(flag string, s Settings) string {
	if flag != "" {
		return flag
	}
	if s.RecsDir != "" {
		return s.RecsDir
	}
	return paths.RecsDir()
}

// ResolveStatePath applies the resolution order for the saved-state file:
// explicit flag, then config file, then the paths default.
func ResolveStatePath(flag string, s Settings) string {
	if flag != "" {
		return flag
	}
	if s.StatePath != "" {
		return s.StatePath
	}
	return paths.StateFilePath()
}
