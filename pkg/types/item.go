package types

import (
	"regexp"
	"strings"
)

// Category identifies the kind of installable or configurable unit a
// ProfileItem describes. The set is closed; install and verify behavior
// is polymorphic over it.
type Category string

const (
	CategoryMCP             Category = "mcp"
	CategoryCLITool         Category = "cli-tool"
	CategorySkill           Category = "skill"
	CategoryApplication     Category = "application"
	CategoryPlugin          Category = "plugin"
	CategoryWorkflowPattern Category = "workflow-pattern"
	CategoryModelPreference Category = "model-preference"
)

// CategoryOrder is the fixed category precedence used for snapshot item
// ordering and reused as the tie-break for import-plan ordering.
var CategoryOrder = []Category{
	CategoryMCP,
	CategoryCLITool,
	CategorySkill,
	CategoryApplication,
	CategoryPlugin,
	CategoryWorkflowPattern,
	CategoryModelPreference,
}

// InherentlyManual reports whether items of this category never have an
// automatable install path.
func (c Category) InherentlyManual() bool {
	switch c {
	case CategoryApplication, CategoryWorkflowPattern, CategoryModelPreference:
		return true
	}
	return false
}

// Priority marks an item as required or optional within a snapshot.
type Priority string

const (
	PriorityRequired Priority = "required"
	PriorityOptional Priority = "optional"
)

// Valid reports whether the priority is one of the two allowed values.
func (p Priority) Valid() bool {
	return p == PriorityRequired || p == PriorityOptional
}

// InstallSpec describes how an item is installed.
type InstallSpec struct {
	Type          string `json:"type"`
	Command       string `json:"command"`
	ConfigSnippet any    `json:"config_snippet,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
	Source        string `json:"source,omitempty"`
	Scope         string `json:"scope,omitempty"`
	Repo          string `json:"repo,omitempty"`
}

// VerificationSpec describes how a successful install is checked.
type VerificationSpec struct {
	Type             string `json:"type"`
	TestCommand      string `json:"test_command,omitempty"`
	SuccessIndicator string `json:"success_indicator,omitempty"`
}

// Verification types.
const (
	VerifyManual        = "manual"
	VerifyCommandExists = "command_exists"
	VerifyConfigExists  = "config_exists"
	VerifyMCPConnect    = "mcp_connect"
)

// InstallTypeManual marks an install descriptor with no automatable path.
const InstallTypeManual = "manual"

// ProfileItem is one installable or configurable unit within a snapshot.
type ProfileItem struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Category     Category         `json:"category"`
	SDLCPhase    string           `json:"sdlc_phase,omitempty"`
	Install      InstallSpec      `json:"install"`
	Verification VerificationSpec `json:"verification"`
	Tags         []string         `json:"tags"`
	Source       string           `json:"source,omitempty"`
	SourceURL    string           `json:"source_url,omitempty"`
	Pricing      map[string]any   `json:"pricing,omitempty"`
	OSSupport    []OSName         `json:"os_support"`
	ManualOnly   bool             `json:"manual_only"`
	Priority     Priority         `json:"priority"`

	// Skill-only fields.
	SkillHash   string   `json:"skill_hash,omitempty"`
	SkillScopes []string `json:"skill_scopes,omitempty"`

	// Model-preference value, e.g. the model identifier.
	Value string `json:"value,omitempty"`
}

// IsManual reports whether the item has no automatable install path,
// either by flag, by install type, or by category.
func (i ProfileItem) IsManual() bool {
	return i.ManualOnly ||
		strings.EqualFold(i.Install.Type, InstallTypeManual) ||
		i.Category.InherentlyManual()
}

var slugRE = regexp.MustCompile(`[^a-z0-9._-]+`)

// Slugify lowercases a name and collapses every run of characters outside
// [a-z0-9._-] into a single dash.
func Slugify(name string) string {
	return strings.Trim(slugRE.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// skillFingerprintLen is the number of fingerprint hex chars carried in a
// skill item id.
const skillFingerprintLen = 8

// ItemID derives the stable identity for an item: category + ":" + slug.
// Skill ids additionally carry a short content-fingerprint suffix, since
// skill content can change without a name change.
func ItemID(category Category, name, fingerprint string) string {
	id := string(category) + ":" + Slugify(name)
	if category == CategorySkill && fingerprint != "" {
		short := fingerprint
		if len(short) > skillFingerprintLen {
			short = short[:skillFingerprintLen]
		}
		id += ":" + short
	}
	return id
}
