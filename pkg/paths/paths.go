// Package paths provides centralized path handling for envprofile.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvStateFile overrides the saved-state file location
	EnvStateFile = "ENVPROFILE_STATE_FILE"

	// EnvConfigFile overrides the config file location
	EnvConfigFile = "ENVPROFILE_CONFIG_FILE"

	// EnvRecsDir overrides the descriptor catalog directory
	EnvRecsDir = "ENVPROFILE_RECS_DIR"

	// EnvPluginRoot overrides the installer script lookup base
	EnvPluginRoot = "ENVPROFILE_PLUGIN_ROOT"

	// EnvServiceURL overrides the hosting service endpoint
	EnvServiceURL = "ENVPROFILE_SERVICE_URL"
)

// Default directory and file names
const (
	// AppDirName is the directory name for envprofile-specific files
	AppDirName = "envprofile"

	// StateFileName is the name of the saved-state document
	StateFileName = "profile-state.json"

	// ConfigFileName is the name of the config file
	ConfigFileName = "config.toml"

	// RecsDirName is the descriptor catalog directory name
	RecsDirName = "recommendations"

	// LogFileName is the name of the log file
	LogFileName = "envprofile.log"

	// ScriptsDirName is the probe/installer script directory under the
	// plugin root
	ScriptsDirName = "scripts"
)

// StateFilePath returns the saved-state file location: the env override
// when set, otherwise the XDG state directory.
func StateFilePath() string {
	if p := os.Getenv(EnvStateFile); p != "" {
		return p
	}
	return filepath.Join(xdg.StateHome, AppDirName, StateFileName)
}

// ConfigFilePath returns the config file location: the env override when
// set, otherwise the XDG config directory.
func ConfigFilePath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// RecsDir returns the descriptor catalog directory: the env override when
// set, otherwise the XDG data directory.
func RecsDir() string {
	if p := os.Getenv(EnvRecsDir); p != "" {
		return p
	}
	return filepath.Join(xdg.DataHome, AppDirName, RecsDirName)
}

// PluginRoot returns the installer script lookup base: the env override
// when set, otherwise the directory containing the running executable.
func PluginRoot() string {
	if p := os.Getenv(EnvPluginRoot); p != "" {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ScriptsDir returns the probe/installer script directory under the given
// plugin root.
func ScriptsDir(pluginRoot string) string {
	return filepath.Join(pluginRoot, ScriptsDirName)
}

// LogFilePath returns the log file location under the XDG state directory.
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, AppDirName, LogFileName)
}

// HomeDir returns the current user's home directory, or "." when it
// cannot be determined.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
