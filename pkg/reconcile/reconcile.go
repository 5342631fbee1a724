// Package reconcile merges saved application state, freshly detected
// items, and explicit caller choices into a final ProfileSnapshot.
package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nbench/envprofile/pkg/redact"
	"github.com/nbench/envprofile/pkg/types"
)

// ComputeApplicationSelection partitions "saved ∪ detected" applications
// into three disjoint, sorted buckets. Detected names keep their detected
// casing; missing names keep their saved casing.
func ComputeApplicationSelection(detectedApps []string, doc *types.ProfileState) types.ApplicationSelection {
	savedSet := make(map[string]string, len(doc.SavedApplications))
	for name := range doc.SavedApplications {
		savedSet[strings.ToLower(name)] = name
	}
	detectedSet := make(map[string]string, len(detectedApps))
	for _, name := range detectedApps {
		detectedSet[strings.ToLower(name)] = name
	}

	selection := types.ApplicationSelection{
		SavedInstalled: []string{},
		SavedMissing:   []string{},
		NewCandidates:  []string{},
	}
	for key, name := range detectedSet {
		if _, saved := savedSet[key]; saved {
			selection.SavedInstalled = append(selection.SavedInstalled, name)
		} else {
			selection.NewCandidates = append(selection.NewCandidates, name)
		}
	}
	for key, name := range savedSet {
		if _, detected := detectedSet[key]; !detected {
			selection.SavedMissing = append(selection.SavedMissing, name)
		}
	}

	sort.Strings(selection.SavedInstalled)
	sort.Strings(selection.SavedMissing)
	sort.Strings(selection.NewCandidates)
	return selection
}

// BuildOptions are the explicit caller choices for one export.
type BuildOptions struct {
	// IncludeSavedApps pulls every saved-installed application into the
	// snapshot. Defaults to true at the CLI layer.
	IncludeSavedApps bool
	// SelectedNewApps names new_candidates to add.
	SelectedNewApps []string
	// IncludeSavedMissingApps names saved_missing applications to add back.
	IncludeSavedMissingApps []string
	// RequiredItems holds tokens promoting matching items to required.
	// A token matches an item's full id or its name, case-insensitively.
	RequiredItems []string
	ProfileName   string
	SourceOS      types.OSName
	CreatedAt     string
}

// BuildSnapshot assembles the final snapshot from the built catalog, the
// application selection buckets, and the caller's choices. Unknown
// application names become warnings and are dropped; they never fail the
// build. Non-application categories are included unconditionally.
func BuildSnapshot(catalog *types.Catalog, selection types.ApplicationSelection, opts BuildOptions) (types.ProfileSnapshot, types.SelectionDebug, []string) {
	var warnings []string

	newCandidates := lowerIndex(selection.NewCandidates)
	savedMissing := lowerIndex(selection.SavedMissing)

	includeApps := make(map[string]string)
	if opts.IncludeSavedApps {
		for _, app := range selection.SavedInstalled {
			includeApps[strings.ToLower(app)] = app
		}
	}
	for _, app := range opts.SelectedNewApps {
		lower := strings.ToLower(app)
		canonical, known := newCandidates[lower]
		if !known {
			warnings = append(warnings, fmt.Sprintf("Ignored unknown new app selection: %s", app))
			continue
		}
		includeApps[lower] = canonical
	}
	for _, app := range opts.IncludeSavedMissingApps {
		lower := strings.ToLower(app)
		canonical, known := savedMissing[lower]
		if !known {
			warnings = append(warnings, fmt.Sprintf("Ignored unknown saved-missing app selection: %s", app))
			continue
		}
		includeApps[lower] = canonical
	}

	requiredTokens := make(map[string]bool, len(opts.RequiredItems))
	for _, token := range opts.RequiredItems {
		requiredTokens[strings.ToLower(token)] = true
	}

	items := []types.ProfileItem{}
	for _, category := range types.CategoryOrder {
		for _, item := range catalog.ByCategory(category) {
			if category == types.CategoryApplication {
				if _, included := includeApps[strings.ToLower(item.Name)]; !included {
					continue
				}
			}
			if requiredTokens[strings.ToLower(item.Name)] || requiredTokens[strings.ToLower(item.ID)] {
				item.Priority = types.PriorityRequired
			} else {
				item.Priority = types.PriorityOptional
			}
			item.Install = redact.Install(item.Install)
			items = append(items, item)
		}
	}

	profileName := opts.ProfileName
	if profileName == "" {
		profileName = types.DefaultProfileName
	}

	snapshot := types.ProfileSnapshot{
		SchemaVersion: types.SnapshotSchemaVersion,
		ProfileKind:   types.SnapshotKind,
		ProfileName:   profileName,
		CreatedAt:     opts.CreatedAt,
		Visibility:    types.SnapshotVisibility,
		LinkPolicy: types.LinkPolicy{
			Immutable:          true,
			NonExpiring:        true,
			TombstoneSupported: true,
		},
		Metadata: types.SnapshotMetadata{OS: opts.SourceOS},
		Policies: types.DefaultPolicies(),
		Items:    items,
		Counts:   types.CountItems(items),
	}

	debug := types.SelectionDebug{
		SavedInstalled: selection.SavedInstalled,
		SavedMissing:   selection.SavedMissing,
		NewCandidates:  selection.NewCandidates,
	}
	for lower, name := range includeApps {
		debug.IncludedApps = append(debug.IncludedApps, name)
		if _, isNew := newCandidates[lower]; isNew {
			debug.SelectedNewApps = append(debug.SelectedNewApps, name)
		}
	}
	sort.Strings(debug.IncludedApps)
	sort.Strings(debug.SelectedNewApps)
	if debug.IncludedApps == nil {
		debug.IncludedApps = []string{}
	}
	if debug.SelectedNewApps == nil {
		debug.SelectedNewApps = []string{}
	}

	return snapshot, debug, warnings
}

// RequiredMatcher reports whether an item identified by (id, name) is
// promoted by any of the supplied required tokens. The same rule applies
// everywhere a required set is needed.
func RequiredMatcher(tokens []string) func(id, name string) bool {
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		set[strings.ToLower(token)] = true
	}
	return func(id, name string) bool {
		return set[strings.ToLower(id)] || set[strings.ToLower(name)]
	}
}

func lowerIndex(names []string) map[string]string {
	index := make(map[string]string, len(names))
	for _, name := range names {
		index[strings.ToLower(name)] = name
	}
	return index
}
