package catalog

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/nbench/envprofile/pkg/types"
)

// WorkflowPatterns derives workflow convention names from repository
// analysis and the detected tool inventory.
func WorkflowPatterns(repo types.RepoPayload, detected types.DetectPayload) []string {
	var patterns []string
	if repo.Repo.HasHooks {
		patterns = append(patterns, "pre-commit-hooks")
	}
	if repo.Repo.HasTests {
		patterns = append(patterns, "test-first-debugging")
	}
	if repo.Repo.HasAgentDocs {
		patterns = append(patterns, "agents-md-structure")
	}
	for _, tool := range detected.Installed.CLITools {
		if strings.EqualFold(tool, "beads") {
			patterns = append(patterns, "context-management")
			break
		}
	}

	seen := make(map[string]bool)
	unique := patterns[:0]
	for _, name := range patterns {
		lower := strings.ToLower(name)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		unique = append(unique, name)
	}
	return unique
}

// ModelPreferences reads the assistant settings file and returns the
// configured model choices, deduplicated and sorted by name. A missing or
// malformed settings file yields no preferences.
func ModelPreferences(settingsPath string) []types.ModelPreference {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil
	}

	var prefs []types.ModelPreference
	defaultModel, _ := settings["defaultModel"].(string)
	if defaultModel == "" {
		defaultModel, _ = settings["model"].(string)
	}
	if cleaned := strings.TrimSpace(defaultModel); cleaned != "" {
		prefs = append(prefs, types.ModelPreference{
			Name:  "default-model:" + cleaned,
			Value: cleaned,
		})
	}

	if models, ok := settings["models"].([]any); ok {
		for _, model := range models {
			name, ok := model.(string)
			if !ok {
				continue
			}
			cleaned := strings.TrimSpace(name)
			if cleaned == "" {
				continue
			}
			prefs = append(prefs, types.ModelPreference{
				Name:  "model:" + cleaned,
				Value: cleaned,
			})
		}
	}

	unique := make(map[string]types.ModelPreference)
	for _, pref := range prefs {
		unique[strings.ToLower(pref.Name)] = pref
	}
	out := make([]types.ModelPreference, 0, len(unique))
	for _, pref := range unique {
		out = append(out, pref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
