package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nbench/envprofile/pkg/logging"
)

// Descriptor is one installable-item description from the recommendation
// catalog: install recipe, verification recipe, and opaque metadata.
type Descriptor struct {
	Name          string            `yaml:"name"`
	SDLCPhase     string            `yaml:"sdlc_phase"`
	Install       DescriptorInstall `yaml:"install"`
	Verification  DescriptorVerify  `yaml:"verification"`
	Tags          []string          `yaml:"tags"`
	Source        string            `yaml:"source"`
	SourceURL     string            `yaml:"source_url"`
	Pricing       map[string]any    `yaml:"pricing"`
	Prerequisites []string          `yaml:"prerequisites"`

	// File is the path the descriptor was loaded from.
	File string `yaml:"-"`
}

// DescriptorInstall is the install recipe section. Source, Scope, and
// Repo use pointers so that key presence survives parsing; a present but
// empty scope defaults to "user".
type DescriptorInstall struct {
	Type          string  `yaml:"type"`
	Command       string  `yaml:"command"`
	ConfigSnippet any     `yaml:"config_snippet"`
	Source        *string `yaml:"source"`
	Scope         *string `yaml:"scope"`
	Repo          *string `yaml:"repo"`
}

// DescriptorVerify is the verification recipe section.
type DescriptorVerify struct {
	Type             string `yaml:"type"`
	TestCommand      string `yaml:"test_command"`
	SuccessIndicator string `yaml:"success_indicator"`
}

// Catalog files that are not item descriptors.
var skippedDescriptorFiles = map[string]bool{
	"schema.yaml":   true,
	"accounts.yaml": true,
}

// LoadDescriptors reads every *.yaml descriptor under dir, keyed by
// lower-cased item name. A missing directory yields an empty catalog.
// Unreadable or malformed files are skipped with a warning; they never
// abort the load.
func LoadDescriptors(dir string) (map[string]*Descriptor, []string) {
	logger := logging.GetLogger("catalog")
	descriptors := make(map[string]*Descriptor)
	var warnings []string

	if _, err := os.Stat(dir); err != nil {
		return descriptors, warnings
	}

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			// Descriptors awaiting review are not part of the catalog.
			if d.Name() == "pending" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".yaml") || skippedDescriptorFiles[d.Name()] {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			warnings = append(warnings, fmt.Sprintf("Unreadable descriptor ignored: %s", path))
			return nil
		}

		var desc Descriptor
		if parseErr := yaml.Unmarshal(content, &desc); parseErr != nil {
			warnings = append(warnings, fmt.Sprintf("Malformed descriptor ignored: %s", path))
			return nil
		}

		name := strings.ToLower(strings.TrimSpace(desc.Name))
		if name == "" {
			return nil
		}
		desc.File = path
		descriptors[name] = &desc
		return nil
	})

	logger.Debug().Str("dir", dir).Int("count", len(descriptors)).Msg("Loaded descriptor catalog")
	return descriptors, warnings
}

// normalizeSnippet turns a descriptor config snippet into its structured
// form: string snippets holding JSON are parsed, other strings are kept
// as-is, and empty snippets become nil.
func normalizeSnippet(snippet any) any {
	s, ok := snippet.(string)
	if !ok {
		return snippet
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		return parsed
	}
	return s
}
