package install

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/redact"
	"github.com/nbench/envprofile/pkg/registry"
	"github.com/nbench/envprofile/pkg/types"
)

// Installer resolves the installer-script argv for one item. Each
// automatable category registers one implementation; the argv contract is
// positional and fixed per script.
type Installer interface {
	InstallCommand(item types.ProfileItem, scriptsDir string) ([]string, error)
}

var installers = registry.New[Installer]()

func init() {
	registry.MustRegister[Installer](installers, string(types.CategoryMCP), mcpInstaller{})
	registry.MustRegister[Installer](installers, string(types.CategoryCLITool), cliInstaller{})
	registry.MustRegister[Installer](installers, string(types.CategorySkill), skillInstaller{})
	registry.MustRegister[Installer](installers, string(types.CategoryPlugin), pluginInstaller{})
}

// installerFor picks the installer by category. An install type of "mcp"
// routes to the MCP installer regardless of category, matching items
// whose install descriptor came from a discovered MCP config block.
func installerFor(item types.ProfileItem) (Installer, bool) {
	key := string(item.Category)
	if strings.EqualFold(item.Install.Type, "mcp") {
		key = string(types.CategoryMCP)
	}
	installer, err := installers.Get(key)
	if err != nil {
		return nil, false
	}
	return installer, true
}

func scriptPath(scriptsDir, script string) string {
	return filepath.Join(scriptsDir, script)
}

// mcpInstaller passes the server name and its redacted config block as
// JSON: install-mcp.sh <name> <config-json>.
type mcpInstaller struct{}

func (mcpInstaller) InstallCommand(item types.ProfileItem, scriptsDir string) ([]string, error) {
	snippet := item.Install.ConfigSnippet
	if raw, isString := snippet.(string); isString {
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			snippet = parsed
		} else {
			snippet = nil
		}
	}
	config, isMap := snippet.(map[string]any)
	if !isMap {
		return nil, errors.New(errors.ErrInstallFailed, "Missing valid MCP config_snippet")
	}
	encoded, err := json.Marshal(redact.Value(config))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInstallFailed, "Missing valid MCP config_snippet")
	}
	return []string{scriptPath(scriptsDir, MCPScript), item.Name, string(encoded)}, nil
}

// cliInstaller passes the install command and type:
// install-cli.sh <name> <command> <install-type>.
type cliInstaller struct{}

func (cliInstaller) InstallCommand(item types.ProfileItem, scriptsDir string) ([]string, error) {
	command := strings.TrimSpace(item.Install.Command)
	if command == "" {
		return nil, errors.New(errors.ErrInstallFailed, "No CLI install command provided")
	}
	installType := strings.ToLower(strings.TrimSpace(item.Install.Type))
	if installType == "" {
		installType = types.InstallTypeManual
	}
	return []string{scriptPath(scriptsDir, CLIScript), item.Name, command, installType}, nil
}

// skillInstaller passes source and scope when a source is known:
// install-skill.sh <name> [<source> <scope>].
type skillInstaller struct{}

func (skillInstaller) InstallCommand(item types.ProfileItem, scriptsDir string) ([]string, error) {
	source := strings.TrimSpace(item.Install.Source)
	if source == "" {
		return []string{scriptPath(scriptsDir, SkillScript), item.Name}, nil
	}
	scope := strings.TrimSpace(item.Install.Scope)
	if scope == "" {
		scope = "user"
	}
	return []string{scriptPath(scriptsDir, SkillScript), item.Name, source, scope}, nil
}

// pluginInstaller passes the marketplace repo when known:
// install-plugin.sh <name> [<repo>].
type pluginInstaller struct{}

func (pluginInstaller) InstallCommand(item types.ProfileItem, scriptsDir string) ([]string, error) {
	repo := strings.TrimSpace(item.Install.Repo)
	if repo == "" {
		return []string{scriptPath(scriptsDir, PluginScript), item.Name}, nil
	}
	return []string{scriptPath(scriptsDir, PluginScript), item.Name, repo}, nil
}
