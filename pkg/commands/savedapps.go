package commands

import (
	"sort"
	"strings"

	"github.com/nbench/envprofile/pkg/state"
	"github.com/nbench/envprofile/pkg/types"
)

// SavedAppsOptions are the inputs for listing or pruning saved
// application memory.
type SavedAppsOptions struct {
	StatePath string
	// Remove names entries to delete, case-insensitively.
	Remove []string
}

// SavedAppRow is one listed saved application.
type SavedAppRow struct {
	Name           string          `json:"name"`
	LastSeenState  types.SeenState `json:"last_seen_state"`
	Priority       types.Priority  `json:"priority"`
	LastSelectedAt string          `json:"last_selected_at"`
}

// SavedAppsResult is the saved-apps output document.
type SavedAppsResult struct {
	SavedApplications []SavedAppRow `json:"saved_applications"`
	Removed           []string      `json:"removed"`
	StateFile         string        `json:"state_file"`
}

// SavedApps lists the saved-application entries sorted case-insensitively
// by name, removing the requested ones first.
func SavedApps(opts SavedAppsOptions) (*SavedAppsResult, error) {
	tracker := state.Load(opts.StatePath)

	removed := []string{}
	if len(opts.Remove) > 0 {
		removed = tracker.RemoveApplications(opts.Remove)
		if removed == nil {
			removed = []string{}
		}
		if len(removed) > 0 {
			if err := tracker.Save(); err != nil {
				return nil, err
			}
		}
	}
	sort.Strings(removed)

	saved := tracker.Doc().SavedApplications
	names := make([]string, 0, len(saved))
	for name := range saved {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	rows := make([]SavedAppRow, 0, len(names))
	for _, name := range names {
		entry := saved[name]
		rows = append(rows, SavedAppRow{
			Name:           name,
			LastSeenState:  entry.LastSeenState,
			Priority:       entry.Priority,
			LastSelectedAt: entry.LastSelectedAt,
		})
	}

	return &SavedAppsResult{
		SavedApplications: rows,
		Removed:           removed,
		StateFile:         opts.StatePath,
	}, nil
}
