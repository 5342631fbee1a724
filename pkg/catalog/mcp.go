package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// mcpConfigSource is one file that may carry MCP server configuration
// blocks.
type mcpConfigSource struct {
	name string
	path string
}

// DiscoverMCPConfigs merges the MCP server configuration blocks found on
// disk, keyed by lower-cased server name. Sources are checked in fixed
// order and the first source defining a server wins. Malformed files are
// skipped with a warning.
func DiscoverMCPConfigs(cwd, home string) (map[string]map[string]any, []string) {
	sources := []mcpConfigSource{
		{"project", filepath.Join(cwd, ".mcp.json")},
		{"global", filepath.Join(home, ".mcp.json")},
		{"claude-settings", filepath.Join(home, ".claude", "settings.json")},
	}

	merged := make(map[string]map[string]any)
	var warnings []string

	for _, source := range sources {
		if _, err := os.Stat(source.path); err != nil {
			continue
		}
		servers, err := extractMCPServers(source.path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Malformed MCP config ignored: %s (%s)", source.name, source.path))
			continue
		}
		for name, config := range servers {
			if _, exists := merged[name]; exists {
				continue
			}
			merged[name] = config
		}
	}
	return merged, warnings
}

func extractMCPServers(path string) (map[string]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var payload struct {
		MCPServers map[string]any `json:"mcpServers"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	out := make(map[string]map[string]any)
	for name, config := range payload.MCPServers {
		block, ok := config.(map[string]any)
		if !ok {
			continue
		}
		out[strings.ToLower(name)] = block
	}
	return out, nil
}
