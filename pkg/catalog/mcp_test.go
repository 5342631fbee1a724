package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbench/envprofile/pkg/catalog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverMCPConfigsProjectWins(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()

	writeFile(t, filepath.Join(cwd, ".mcp.json"), `{
		"mcpServers": {
			"GitHub": {"command": "npx", "args": ["github-mcp"]}
		}
	}`)
	writeFile(t, filepath.Join(home, ".mcp.json"), `{
		"mcpServers": {
			"github": {"command": "stale"},
			"linear": {"command": "linear-mcp"}
		}
	}`)

	merged, warnings := catalog.DiscoverMCPConfigs(cwd, home)
	assert.Empty(t, warnings)
	require.Len(t, merged, 2)

	assert.Equal(t, "npx", merged["github"]["command"], "project scope defines github first")
	assert.Equal(t, "linear-mcp", merged["linear"]["command"])
}

func TestDiscoverMCPConfigsMalformedIsWarning(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()

	writeFile(t, filepath.Join(cwd, ".mcp.json"), "{broken")
	writeFile(t, filepath.Join(home, ".mcp.json"), `{"mcpServers": {"linear": {"command": "ok"}}}`)

	merged, warnings := catalog.DiscoverMCPConfigs(cwd, home)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "project")
	assert.Contains(t, merged, "linear")
}

func TestDiscoverMCPConfigsSkipsNonObjectBlocks(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, ".mcp.json"), `{"mcpServers": {"weird": "just a string"}}`)

	merged, warnings := catalog.DiscoverMCPConfigs(cwd, t.TempDir())
	assert.Empty(t, warnings)
	assert.Empty(t, merged)
}
