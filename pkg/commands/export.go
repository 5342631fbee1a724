package commands

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/logging"
	"github.com/nbench/envprofile/pkg/reconcile"
	"github.com/nbench/envprofile/pkg/state"
	"github.com/nbench/envprofile/pkg/types"
)

// ExportOptions are the inputs for building a profile snapshot.
type ExportOptions struct {
	DetectOptions

	// SelectedNewApps names new-candidate applications to include.
	SelectedNewApps []string
	// IncludeSavedMissingApps names saved-but-missing applications to
	// add back.
	IncludeSavedMissingApps []string
	// ExcludeSavedApps drops the saved-installed applications that are
	// otherwise included by default.
	ExcludeSavedApps bool
	// RequiredItems holds tokens (item ids or names) promoting matching
	// items to required.
	RequiredItems []string
	ProfileName   string
	// OutputFile additionally writes the full result document to a file.
	OutputFile string
	// DryRun skips the saved-state update.
	DryRun bool
}

// ExportResult is the full export output document.
type ExportResult struct {
	Profile              types.ProfileSnapshot `json:"profile"`
	ApplicationSelection types.SelectionDebug  `json:"application_selection"`
	StateFile            string                `json:"state_file"`
	Warnings             []string              `json:"warnings"`
	StateUpdated         bool                  `json:"state_updated"`
}

// Export detects the environment, reconciles it with saved state and the
// caller's choices into a snapshot, and (unless dry-running) refreshes
// the saved-application memory.
func Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	logger := logging.GetLogger("commands")

	merged, err := BuildMergedContext(ctx, opts.DetectOptions)
	if err != nil {
		return nil, err
	}

	now := state.Now()
	snapshot, debug, warnings := reconcile.BuildSnapshot(&merged.Catalog, merged.ApplicationSelection, reconcile.BuildOptions{
		IncludeSavedApps:        !opts.ExcludeSavedApps,
		SelectedNewApps:         opts.SelectedNewApps,
		IncludeSavedMissingApps: opts.IncludeSavedMissingApps,
		RequiredItems:           opts.RequiredItems,
		ProfileName:             opts.ProfileName,
		SourceOS:                merged.OS,
		CreatedAt:               state.Timestamp(now),
	})

	result := &ExportResult{
		Profile:              snapshot,
		ApplicationSelection: debug,
		StateFile:            opts.StatePath,
		Warnings:             append(warnings, merged.Warnings...),
		StateUpdated:         !opts.DryRun,
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}

	if !opts.DryRun {
		tracker := state.Load(opts.StatePath)
		tracker.UpdateApplications(
			applicationNames(&merged.Catalog),
			debug.IncludedApps,
			requiredApplications(debug.IncludedApps, opts.RequiredItems),
			now,
		)
		tracker.MarkExported(now)
		if err := tracker.Save(); err != nil {
			return nil, err
		}
		logger.Info().Int("items", snapshot.Counts.Total).Str("state_file", opts.StatePath).Msg("Exported snapshot")
	}

	if opts.OutputFile != "" {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "cannot encode export result")
		}
		if err := os.WriteFile(opts.OutputFile, encoded, 0o644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrStateWrite, "cannot write %s", opts.OutputFile)
		}
	}

	return result, nil
}

func applicationNames(c *types.Catalog) []string {
	names := make([]string, 0, len(c.Applications))
	for _, item := range c.Applications {
		names = append(names, item.Name)
	}
	return names
}

// requiredApplications derives the per-application required set for the
// state update, using the same id-or-name token rule the snapshot build
// uses.
func requiredApplications(includedApps, requiredTokens []string) map[string]bool {
	match := reconcile.RequiredMatcher(requiredTokens)
	required := make(map[string]bool)
	for _, name := range includedApps {
		id := types.ItemID(types.CategoryApplication, name, "")
		if match(id, name) {
			required[strings.ToLower(name)] = true
		}
	}
	return required
}
