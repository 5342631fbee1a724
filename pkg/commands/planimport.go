package commands

import (
	"context"
	"encoding/json"
	"io"

	"github.com/nbench/envprofile/pkg/detect"
	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/importplan"
	"github.com/nbench/envprofile/pkg/types"
)

// PlanImportOptions are the inputs for classifying a foreign snapshot
// against this machine.
type PlanImportOptions struct {
	DetectOptions

	// ProfileFile holds the snapshot document; stdin is read when empty.
	ProfileFile string
	Stdin       io.Reader
	// CurrentOS overrides the local OS identifier.
	CurrentOS string
}

// PlanImport loads a foreign snapshot, detects the local machine, and
// buckets every snapshot item into its import disposition.
func PlanImport(ctx context.Context, opts PlanImportOptions) (*types.ImportPlan, error) {
	profile, err := LoadProfilePayload(opts.ProfileFile, opts.Stdin)
	if err != nil {
		return nil, err
	}
	items, err := snapshotItems(profile)
	if err != nil {
		return nil, err
	}

	merged, err := BuildMergedContext(ctx, opts.DetectOptions)
	if err != nil {
		return nil, err
	}

	currentOS := detect.NormalizeOS(opts.CurrentOS)
	return importplan.Plan(items, merged.InstalledIndex, currentOS), nil
}

// snapshotItems decodes the items list of a snapshot document. Entries
// that are not objects are dropped, matching the planner's tolerance for
// hand-edited snapshots.
func snapshotItems(profile map[string]any) ([]types.ProfileItem, error) {
	rawItems, ok := profile["items"].([]any)
	if !ok {
		return []types.ProfileItem{}, nil
	}

	items := make([]types.ProfileItem, 0, len(rawItems))
	for _, raw := range rawItems {
		obj, isObject := raw.(map[string]any)
		if !isObject {
			continue
		}
		encoded, err := json.Marshal(obj)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrMalformedInput, "cannot decode snapshot item")
		}
		var item types.ProfileItem
		if err := json.Unmarshal(encoded, &item); err != nil {
			return nil, errors.Wrap(err, errors.ErrMalformedInput, "cannot decode snapshot item")
		}
		items = append(items, item)
	}
	return items, nil
}
