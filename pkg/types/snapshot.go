package types

// Snapshot envelope constants.
const (
	SnapshotSchemaVersion = "1.0"
	SnapshotKind          = "envprofile-sdlc-profile"
	SnapshotVisibility    = "public-anonymous"
	DefaultProfileName    = "Environment Profile"
)

// LinkPolicy states the guarantees the hosting service gives a published
// snapshot link.
type LinkPolicy struct {
	Immutable          bool `json:"immutable"`
	NonExpiring        bool `json:"non_expiring"`
	TombstoneSupported bool `json:"tombstone_supported"`
}

// SnapshotMetadata carries facts about the machine the snapshot was
// captured on.
type SnapshotMetadata struct {
	OS OSName `json:"os"`
}

// SnapshotPolicies declares how an importer should treat the snapshot.
type SnapshotPolicies struct {
	SecretRedaction         string `json:"secret_redaction"`
	ImportConfirmation      string `json:"import_confirmation"`
	AlreadyInstalledDefault string `json:"already_installed_default"`
	CrossOS                 string `json:"cross_os"`
	ManualItems             string `json:"manual_items"`
}

// DefaultPolicies returns the policy block every exported snapshot carries.
func DefaultPolicies() SnapshotPolicies {
	return SnapshotPolicies{
		SecretRedaction:         "auto",
		ImportConfirmation:      "per-item",
		AlreadyInstalledDefault: "skip",
		CrossOS:                 "compatible-only",
		ManualItems:             "allowed",
	}
}

// Counts summarizes a snapshot's item list. It is always derived by a
// single pass over the final items, never maintained incrementally.
type Counts struct {
	Total      int            `json:"total"`
	Required   int            `json:"required"`
	Optional   int            `json:"optional"`
	ByCategory map[string]int `json:"by_category"`
}

// CountItems derives Counts from an item list.
func CountItems(items []ProfileItem) Counts {
	counts := Counts{
		Total:      len(items),
		ByCategory: make(map[string]int),
	}
	for _, item := range items {
		if item.Priority == PriorityRequired {
			counts.Required++
		} else {
			counts.Optional++
		}
		counts.ByCategory[string(item.Category)]++
	}
	return counts
}

// ProfileSnapshot is the immutable, versioned document exchanged with the
// hosting service and consumed by import planning. Once published it is
// never mutated in place; later changes are a new snapshot or a tombstone.
type ProfileSnapshot struct {
	SchemaVersion string           `json:"schema_version"`
	ProfileKind   string           `json:"profile_kind"`
	ProfileName   string           `json:"profile_name"`
	CreatedAt     string           `json:"created_at"`
	Visibility    string           `json:"visibility"`
	LinkPolicy    LinkPolicy       `json:"link_policy"`
	Metadata      SnapshotMetadata `json:"metadata"`
	Policies      SnapshotPolicies `json:"policies"`
	Items         []ProfileItem    `json:"items"`
	Counts        Counts           `json:"counts"`
}

// ApplicationSelection partitions "saved ∪ detected" applications into
// three disjoint buckets. SavedInstalled and NewCandidates together cover
// every currently detected application exactly once.
type ApplicationSelection struct {
	SavedInstalled []string `json:"saved_installed"`
	SavedMissing   []string `json:"saved_missing"`
	NewCandidates  []string `json:"new_candidates"`
}

// SelectionDebug reports how the final application set was chosen during
// an export, for transparency in command output.
type SelectionDebug struct {
	SavedInstalled  []string `json:"saved_installed"`
	SavedMissing    []string `json:"saved_missing"`
	NewCandidates   []string `json:"new_candidates"`
	SelectedNewApps []string `json:"selected_new_apps"`
	IncludedApps    []string `json:"included_apps"`
}
