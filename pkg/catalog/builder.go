package catalog

import (
	"sort"
	"strings"

	"github.com/nbench/envprofile/pkg/redact"
	"github.com/nbench/envprofile/pkg/types"
)

// BuildInput collects everything the catalog build consumes: the probe
// inventory, the descriptor catalog, discovered MCP config blocks, hashed
// skill folders, and the derived workflow/model facts.
type BuildInput struct {
	SourceOS         types.OSName
	Inventory        types.DetectedInventory
	Descriptors      map[string]*Descriptor
	MCPConfigs       map[string]map[string]any
	Skills           []types.SkillInfo
	WorkflowPatterns []string
	ModelPreferences []types.ModelPreference
}

// Build turns the detection inputs into one ProfileItem per detected
// name, per category. Names without a descriptor become manual items.
func Build(in BuildInput) types.Catalog {
	var c types.Catalog

	for _, name := range sortedCopy(in.Inventory.MCPs) {
		mcpConfig := in.MCPConfigs[strings.ToLower(name)]
		c.MCPs = append(c.MCPs, buildItem(name, types.CategoryMCP, in.SourceOS, in.descriptorFor(name), mcpConfig, ""))
	}

	for _, name := range sortedCopy(in.Inventory.CLITools) {
		c.CLITools = append(c.CLITools, buildItem(name, types.CategoryCLITool, in.SourceOS, in.descriptorFor(name), nil, ""))
	}

	for _, name := range sortedCopy(in.Inventory.Applications) {
		c.Applications = append(c.Applications, buildItem(name, types.CategoryApplication, in.SourceOS, in.descriptorFor(name), nil, ""))
	}

	for _, name := range sortedCopy(in.Inventory.Plugins) {
		c.Plugins = append(c.Plugins, buildItem(name, types.CategoryPlugin, in.SourceOS, in.descriptorFor(name), nil, ""))
	}

	for _, skill := range in.Skills {
		desc := in.descriptorFor(skill.Name)
		item := buildItem(skill.Name, types.CategorySkill, in.SourceOS, desc, nil, skill.Hash)
		item.SkillHash = skill.Hash
		item.SkillScopes = skill.Scopes
		if desc == nil {
			item.ManualOnly = true
			item.Install = types.InstallSpec{
				Type:         types.InstallTypeManual,
				Instructions: "Custom skill detected. Share/install the skill directory manually.",
			}
		}
		c.Skills = append(c.Skills, item)
	}

	for _, pattern := range in.WorkflowPatterns {
		desc := in.descriptorFor(pattern)
		var item types.ProfileItem
		if desc == nil {
			item = ManualItem(pattern, types.CategoryWorkflowPattern, in.SourceOS, "Document and apply manually")
		} else {
			item = buildItem(pattern, types.CategoryWorkflowPattern, in.SourceOS, desc, nil, "")
			item.ManualOnly = true
		}
		c.WorkflowPatterns = append(c.WorkflowPatterns, item)
	}

	for _, pref := range in.ModelPreferences {
		item := ManualItem(pref.Name, types.CategoryModelPreference, in.SourceOS, "Set model preference manually")
		item.Value = pref.Value
		c.ModelPreferences = append(c.ModelPreferences, item)
	}

	return c
}

// InstalledIndex derives the per-category index of lower-cased installed
// names from a built catalog.
func InstalledIndex(c *types.Catalog) types.InstalledIndex {
	index := make(types.InstalledIndex, len(types.CategoryOrder))
	for _, category := range types.CategoryOrder {
		items := c.ByCategory(category)
		names := make([]string, 0, len(items))
		for _, item := range items {
			names = append(names, strings.ToLower(item.Name))
		}
		index[category] = names
	}
	return index
}

func (in BuildInput) descriptorFor(name string) *Descriptor {
	return in.Descriptors[strings.ToLower(name)]
}

// ManualItem builds the fallback item for a detected name with no
// descriptor: manual install, manual verification, optional priority.
func ManualItem(name string, category types.Category, sourceOS types.OSName, note string) types.ProfileItem {
	if note == "" {
		note = "Manual setup required"
	}
	return types.ProfileItem{
		ID:        types.ItemID(category, name, ""),
		Name:      name,
		Category:  category,
		SDLCPhase: "implementation",
		Install: types.InstallSpec{
			Type:         types.InstallTypeManual,
			Instructions: note,
		},
		Verification: types.VerificationSpec{
			Type:        types.VerifyManual,
			TestCommand: "Verify manually",
		},
		Tags:       []string{},
		Source:     "detected",
		Pricing:    map[string]any{},
		OSSupport:  defaultOSSupport(category, sourceOS),
		ManualOnly: true,
		Priority:   types.PriorityOptional,
	}
}

func buildItem(name string, category types.Category, sourceOS types.OSName, desc *Descriptor, mcpConfig map[string]any, skillHash string) types.ProfileItem {
	if desc == nil {
		item := ManualItem(name, category, sourceOS, "")
		// The fingerprint stays part of the id even without a descriptor,
		// so two same-named skills with different content keep distinct ids.
		if skillHash != "" {
			item.ID = types.ItemID(category, name, skillHash)
		}
		return item
	}

	install := installFromDescriptor(desc)
	verification := verificationFromDescriptor(desc)

	if category == types.CategoryMCP && mcpConfig != nil {
		install = types.InstallSpec{
			Type:          "mcp",
			ConfigSnippet: mcpConfig,
		}
		verification = types.VerificationSpec{
			Type:        types.VerifyMCPConnect,
			TestCommand: "Use MCP: " + name,
		}
	}

	if category == types.CategorySkill && install.Command == "" && install.Type == types.InstallTypeManual {
		install.Instructions = "Share this skill package separately or install manually"
	}

	tags := desc.Tags
	if tags == nil {
		tags = []string{}
	}
	pricing := desc.Pricing
	if pricing == nil {
		pricing = map[string]any{}
	}
	sdlcPhase := desc.SDLCPhase
	if sdlcPhase == "" {
		sdlcPhase = "implementation"
	}
	source := desc.Source
	if source == "" {
		source = "manual"
	}

	return types.ProfileItem{
		ID:           types.ItemID(category, name, skillHash),
		Name:         name,
		Category:     category,
		SDLCPhase:    sdlcPhase,
		Install:      redact.Install(install),
		Verification: verification,
		Tags:         tags,
		Source:       source,
		SourceURL:    desc.SourceURL,
		Pricing:      pricing,
		OSSupport:    InferOSSupport(desc, category, sourceOS),
		ManualOnly:   category == types.CategoryApplication || install.Type == types.InstallTypeManual,
		Priority:     types.PriorityOptional,
	}
}

func installFromDescriptor(desc *Descriptor) types.InstallSpec {
	installType := desc.Install.Type
	if installType == "" {
		installType = types.InstallTypeManual
	}
	spec := types.InstallSpec{
		Type:          installType,
		Command:       strings.TrimSpace(desc.Install.Command),
		ConfigSnippet: normalizeSnippet(desc.Install.ConfigSnippet),
	}
	if desc.Install.Source != nil {
		spec.Source = *desc.Install.Source
	}
	if desc.Install.Scope != nil {
		spec.Scope = *desc.Install.Scope
		if spec.Scope == "" {
			spec.Scope = "user"
		}
	}
	if desc.Install.Repo != nil {
		spec.Repo = *desc.Install.Repo
	}
	return spec
}

func verificationFromDescriptor(desc *Descriptor) types.VerificationSpec {
	verifyType := desc.Verification.Type
	if verifyType == "" {
		verifyType = types.VerifyManual
	}
	return types.VerificationSpec{
		Type:             verifyType,
		TestCommand:      strings.TrimSpace(desc.Verification.TestCommand),
		SuccessIndicator: strings.TrimSpace(desc.Verification.SuccessIndicator),
	}
}

// InferOSSupport reads OS hints from the descriptor prerequisite text.
// Without a hint, an application defaults to the detecting machine's OS
// only (applications are not portable by default); every other category
// defaults to all three OSes.
func InferOSSupport(desc *Descriptor, category types.Category, sourceOS types.OSName) []types.OSName {
	blob := strings.ToLower(strings.Join(desc.Prerequisites, " "))

	var supported []types.OSName
	if strings.Contains(blob, "mac") {
		supported = append(supported, types.OSMacOS)
	}
	if strings.Contains(blob, "linux") {
		supported = append(supported, types.OSLinux)
	}
	if strings.Contains(blob, "windows") {
		supported = append(supported, types.OSWindows)
	}

	if len(supported) > 0 {
		return supported
	}
	return defaultOSSupport(category, sourceOS)
}

func defaultOSSupport(category types.Category, sourceOS types.OSName) []types.OSName {
	if category == types.CategoryApplication {
		return []types.OSName{sourceOS}
	}
	return types.AllOSes()
}

func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
