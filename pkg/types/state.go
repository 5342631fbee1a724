package types

// StateSchemaVersion is the schema_version written to profile-state.json.
const StateSchemaVersion = "1"

// SeenState records whether a saved application was present in the most
// recent detection run.
type SeenState string

const (
	SeenInstalled SeenState = "installed"
	SeenMissing   SeenState = "missing"
)

// SavedApplicationEntry is the per-application cross-run memory. Entries
// are keyed case-insensitively but store first-seen casing. They are never
// deleted on absence; absence is remembered, not forgotten.
type SavedApplicationEntry struct {
	FirstSavedAt   string    `json:"first_saved_at"`
	LastSelectedAt string    `json:"last_selected_at"`
	LastSeenState  SeenState `json:"last_seen_state"`
	Priority       Priority  `json:"priority"`
}

// Published profile statuses.
const (
	PublishStatusActive     = "active"
	PublishStatusTombstoned = "tombstoned"
)

// PublishedProfileRecord maps a remote profile id to its share URL and
// management token. Created on publish, updated to tombstoned on
// tombstone.
type PublishedProfileRecord struct {
	URL          string `json:"url"`
	ManageToken  string `json:"manage_token"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	TombstonedAt string `json:"tombstoned_at,omitempty"`
}

// ProfileState is the persisted state document (profile-state.json). It is
// the only mutable, cross-invocation shared resource in the system.
type ProfileState struct {
	SchemaVersion     string                             `json:"schema_version"`
	SavedApplications map[string]*SavedApplicationEntry  `json:"saved_applications"`
	PublishedProfiles map[string]*PublishedProfileRecord `json:"published_profiles"`
	LastExportedAt    string                             `json:"last_exported_at"`
}

// NewProfileState returns an empty, normalized state document.
func NewProfileState() *ProfileState {
	return &ProfileState{
		SchemaVersion:     StateSchemaVersion,
		SavedApplications: make(map[string]*SavedApplicationEntry),
		PublishedProfiles: make(map[string]*PublishedProfileRecord),
	}
}
