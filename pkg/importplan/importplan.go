// Package importplan classifies a foreign profile snapshot against the
// local machine. The plan is transient; it is recomputed on every run and
// never persisted.
package importplan

import (
	"fmt"
	"strings"

	"github.com/nbench/envprofile/pkg/detect"
	"github.com/nbench/envprofile/pkg/types"
)

// Plan buckets every snapshot item by applying checks in a fixed order,
// first match wins: unsupported OS, already installed, manual setup,
// then prompt. Manual and prompt buckets split by priority.
func Plan(items []types.ProfileItem, index types.InstalledIndex, currentOS types.OSName) *types.ImportPlan {
	plan := &types.ImportPlan{
		CurrentOS:         currentOS,
		PromptRequired:    []types.PlannedItem{},
		PromptOptional:    []types.PlannedItem{},
		ManualRequired:    []types.PlannedItem{},
		ManualOptional:    []types.PlannedItem{},
		AlreadyInstalled:  []types.PlannedItem{},
		Unsupported:       []types.PlannedItem{},
		OrderedCandidates: []types.PlannedItem{},
	}

	installed := make(map[types.Category]map[string]bool, len(index))
	for category, names := range index {
		set := make(map[string]bool, len(names))
		for _, name := range names {
			set[strings.ToLower(name)] = true
		}
		installed[category] = set
	}

	for _, item := range items {
		planned := types.PlannedItem{ProfileItem: item}
		required := item.Priority == types.PriorityRequired

		if !supportsOS(item.OSSupport, currentOS) {
			planned.Disposition = types.DispositionUnsupported
			planned.Reason = fmt.Sprintf("Not supported on %s", currentOS)
			plan.Unsupported = append(plan.Unsupported, planned)
			continue
		}

		if installed[item.Category][strings.ToLower(item.Name)] {
			planned.Disposition = types.DispositionAlreadyInstalled
			planned.Reason = "Already installed"
			plan.AlreadyInstalled = append(plan.AlreadyInstalled, planned)
			continue
		}

		if item.IsManual() {
			planned.Reason = "Manual setup required"
			if required {
				planned.Disposition = types.DispositionManualRequired
				plan.ManualRequired = append(plan.ManualRequired, planned)
			} else {
				planned.Disposition = types.DispositionManualOptional
				plan.ManualOptional = append(plan.ManualOptional, planned)
			}
			continue
		}

		planned.Reason = "Ready to install"
		if required {
			planned.Disposition = types.DispositionPromptRequired
			plan.PromptRequired = append(plan.PromptRequired, planned)
		} else {
			planned.Disposition = types.DispositionPromptOptional
			plan.PromptOptional = append(plan.PromptOptional, planned)
		}
	}

	plan.OrderedCandidates = append(plan.OrderedCandidates, plan.PromptRequired...)
	plan.OrderedCandidates = append(plan.OrderedCandidates, plan.PromptOptional...)
	plan.OrderedCandidates = append(plan.OrderedCandidates, plan.ManualRequired...)
	plan.OrderedCandidates = append(plan.OrderedCandidates, plan.ManualOptional...)

	plan.Summary = types.PlanSummary{
		TotalItems:       len(items),
		PromptRequired:   len(plan.PromptRequired),
		PromptOptional:   len(plan.PromptOptional),
		ManualRequired:   len(plan.ManualRequired),
		ManualOptional:   len(plan.ManualOptional),
		AlreadyInstalled: len(plan.AlreadyInstalled),
		Unsupported:      len(plan.Unsupported),
	}
	return plan
}

// supportsOS treats a missing os_support list as all OSes; entries are
// normalized before comparison so foreign snapshots with alias names
// (darwin, osx) still match.
func supportsOS(osSupport []types.OSName, currentOS types.OSName) bool {
	if len(osSupport) == 0 {
		return true
	}
	for _, os := range osSupport {
		if detect.NormalizeOS(string(os)) == currentOS {
			return true
		}
	}
	return false
}
