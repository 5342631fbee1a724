package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbench/envprofile/pkg/catalog"
)

func writeDescriptor(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDescriptors(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "fzf.yaml", `
name: fzf
sdlc_phase: implementation
install:
  type: package
  command: brew install fzf
verification:
  type: command_exists
  test_command: fzf --version
tags: [search, terminal]
prerequisites:
  - macOS or Linux
`)

	descriptors, warnings := catalog.LoadDescriptors(dir)
	assert.Empty(t, warnings)
	require.Contains(t, descriptors, "fzf")

	desc := descriptors["fzf"]
	assert.Equal(t, "package", desc.Install.Type)
	assert.Equal(t, "brew install fzf", desc.Install.Command)
	assert.Equal(t, "command_exists", desc.Verification.Type)
	assert.Equal(t, []string{"search", "terminal"}, desc.Tags)
	assert.NotEmpty(t, desc.File)
}

func TestLoadDescriptorsKeyedCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "raycast.yaml", "name: Raycast\n")

	descriptors, _ := catalog.LoadDescriptors(dir)
	assert.Contains(t, descriptors, "raycast")
	assert.Equal(t, "Raycast", descriptors["raycast"].Name)
}

func TestLoadDescriptorsSkipsNonItems(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "schema.yaml", "name: schema\n")
	writeDescriptor(t, dir, "accounts.yaml", "name: accounts\n")
	writeDescriptor(t, filepath.Join(dir, "pending"), "new-tool.yaml", "name: new-tool\n")
	writeDescriptor(t, dir, "notes.txt", "name: not-yaml\n")
	writeDescriptor(t, dir, "unnamed.yaml", "sdlc_phase: implementation\n")

	descriptors, warnings := catalog.LoadDescriptors(dir)
	assert.Empty(t, descriptors)
	assert.Empty(t, warnings)
}

func TestLoadDescriptorsMalformedIsWarning(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "good.yaml", "name: good\n")
	writeDescriptor(t, dir, "bad.yaml", "name: [unclosed\n  nope")

	descriptors, warnings := catalog.LoadDescriptors(dir)
	assert.Contains(t, descriptors, "good")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "bad.yaml")
}

func TestLoadDescriptorsMissingDir(t *testing.T) {
	descriptors, warnings := catalog.LoadDescriptors(filepath.Join(t.TempDir(), "absent"))
	assert.Empty(t, descriptors)
	assert.Empty(t, warnings)
}
