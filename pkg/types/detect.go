package types

// DetectedInventory is the per-category list of installed item names
// reported by the environment probe.
type DetectedInventory struct {
	MCPs         []string `json:"mcps"`
	CLITools     []string `json:"cli_tools"`
	Applications []string `json:"applications"`
	Plugins      []string `json:"plugins"`
}

// DetectPayload is the JSON document produced by the detect-installed
// probe (or supplied via an override file).
type DetectPayload struct {
	OS        string            `json:"os"`
	Installed DetectedInventory `json:"installed"`
}

// RepoInfo carries the workflow-relevant facts from repository analysis.
type RepoInfo struct {
	HasHooks     bool `json:"has_hooks"`
	HasTests     bool `json:"has_tests"`
	HasAgentDocs bool `json:"has_agent_docs"`
}

// RepoPayload is the JSON document produced by the analyze-context probe.
type RepoPayload struct {
	Repo RepoInfo `json:"repo"`
}

// SkillInfo is one locally detected skill folder: its name, content
// fingerprint, and the scopes it was found in.
type SkillInfo struct {
	Name   string   `json:"name"`
	Hash   string   `json:"hash"`
	Scopes []string `json:"scopes"`
}

// ModelPreference is one detected model setting.
type ModelPreference struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InstalledIndex maps each category to the lower-cased names currently
// present on the local machine.
type InstalledIndex map[Category][]string

// Catalog holds the per-category ProfileItem lists built from detection
// output plus the descriptor catalog.
type Catalog struct {
	MCPs             []ProfileItem `json:"mcps"`
	CLITools         []ProfileItem `json:"cli_tools"`
	Skills           []ProfileItem `json:"skills"`
	Applications     []ProfileItem `json:"applications"`
	Plugins          []ProfileItem `json:"plugins"`
	WorkflowPatterns []ProfileItem `json:"workflow_patterns"`
	ModelPreferences []ProfileItem `json:"model_preferences"`
}

// ByCategory returns the item list for one category.
func (c *Catalog) ByCategory(category Category) []ProfileItem {
	switch category {
	case CategoryMCP:
		return c.MCPs
	case CategoryCLITool:
		return c.CLITools
	case CategorySkill:
		return c.Skills
	case CategoryApplication:
		return c.Applications
	case CategoryPlugin:
		return c.Plugins
	case CategoryWorkflowPattern:
		return c.WorkflowPatterns
	case CategoryModelPreference:
		return c.ModelPreferences
	}
	return nil
}

// MergedContext is the full output of a detection run: the catalog,
// application selection buckets, installed index, and any recoverable
// warnings collected along the way.
type MergedContext struct {
	OS                   OSName               `json:"os"`
	SkillsScope          string               `json:"skills_scope"`
	Catalog              Catalog              `json:"catalog"`
	ApplicationSelection ApplicationSelection `json:"application_selection"`
	InstalledIndex       InstalledIndex       `json:"installed_index"`
	Warnings             []string             `json:"warnings"`
}
