// Package state owns the persisted profile-state.json document: saved
// application memory, published profile records, and the last export
// timestamp. The document is the only mutable cross-invocation resource;
// it is read at the start of an operation and rewritten at the end.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/logging"
	"github.com/nbench/envprofile/pkg/types"
)

// TimestampFormat is the wall-clock format used everywhere in the state
// document and in snapshots.
const TimestampFormat = "2006-01-02T15:04:05Z"

// Now returns the current UTC time. Tests override it for deterministic
// timestamps.
var Now = func() time.Time { return time.Now().UTC() }

// Timestamp formats t in the document's wall-clock format.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Tracker reads and writes one state document at a fixed path.
type Tracker struct {
	path string
	doc  *types.ProfileState
}

// Load reads the state document at path. A missing or corrupt file
// yields a fresh empty document rather than an error; a corrupt file is
// logged and then overwritten on the next Save.
func Load(path string) *Tracker {
	logger := logging.GetLogger("state")
	t := &Tracker{path: path, doc: types.NewProfileState()}

	content, err := os.ReadFile(path)
	if err != nil {
		return t
	}

	var doc types.ProfileState
	if err := json.Unmarshal(content, &doc); err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("Corrupt state file, starting fresh")
		return t
	}

	t.doc = normalize(&doc)
	return t
}

// Path returns the on-disk location of the state document.
func (t *Tracker) Path() string {
	return t.path
}

// Doc returns the in-memory state document. Callers mutate it through
// the Tracker's methods; direct access is for reading.
func (t *Tracker) Doc() *types.ProfileState {
	return t.doc
}

// UpdateApplications refreshes the saved-application memory after a
// detection run. Every detected application gets a created-or-refreshed
// entry with last_seen_state=installed; last_selected_at moves only when
// the application was included this run; priority escalates to required
// when requested and never de-escalates. Saved applications absent from
// the detection set are marked missing, never deleted.
func (t *Tracker) UpdateApplications(detected, included []string, required map[string]bool, now time.Time) {
	ts := Timestamp(now)
	detectedSet := lowerSet(detected)
	includedSet := lowerSet(included)

	for _, name := range detected {
		key, entry := t.lookup(name)
		if entry == nil {
			key = name
			entry = &types.SavedApplicationEntry{
				FirstSavedAt: ts,
				Priority:     types.PriorityOptional,
			}
			t.doc.SavedApplications[key] = entry
		}
		entry.LastSeenState = types.SeenInstalled
		if includedSet[strings.ToLower(name)] {
			entry.LastSelectedAt = ts
		}
		if required[strings.ToLower(name)] {
			entry.Priority = types.PriorityRequired
		}
	}

	for key, entry := range t.doc.SavedApplications {
		if !detectedSet[strings.ToLower(key)] {
			entry.LastSeenState = types.SeenMissing
		}
	}
}

// RemoveApplications deletes saved entries by name, case-insensitively,
// regardless of their current seen state. It returns the stored keys
// that were removed.
func (t *Tracker) RemoveApplications(names []string) []string {
	var removed []string
	for _, name := range names {
		if key, entry := t.lookup(name); entry != nil {
			delete(t.doc.SavedApplications, key)
			removed = append(removed, key)
		}
	}
	return removed
}

// RecordPublish stores the local record for a freshly published profile.
func (t *Tracker) RecordPublish(id, url, manageToken string, now time.Time) {
	t.doc.PublishedProfiles[id] = &types.PublishedProfileRecord{
		URL:         url,
		ManageToken: manageToken,
		Status:      types.PublishStatusActive,
		CreatedAt:   Timestamp(now),
	}
}

// RecordTombstone marks a published profile tombstoned. Unknown ids get
// a minimal record so the tombstone is still remembered locally.
func (t *Tracker) RecordTombstone(id string, now time.Time) {
	entry := t.doc.PublishedProfiles[id]
	if entry == nil {
		entry = &types.PublishedProfileRecord{}
		t.doc.PublishedProfiles[id] = entry
	}
	entry.Status = types.PublishStatusTombstoned
	entry.TombstonedAt = Timestamp(now)
}

// ManageToken returns the stored manage token for a profile id, or ""
// when the id is unknown.
func (t *Tracker) ManageToken(id string) string {
	if entry := t.doc.PublishedProfiles[id]; entry != nil {
		return entry.ManageToken
	}
	return ""
}

// MarkExported stamps last_exported_at.
func (t *Tracker) MarkExported(now time.Time) {
	t.doc.LastExportedAt = Timestamp(now)
}

// Save writes the document via a temp file and rename, so a reader never
// observes a half-written document. Concurrent writers still race (last
// writer wins); that is a documented limitation, not handled here.
func (t *Tracker) Save() error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "cannot create state directory")
	}

	content, err := json.MarshalIndent(t.doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "cannot encode state document")
	}

	tmp, err := os.CreateTemp(dir, ".profile-state-*.json")
	if err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "cannot create temp state file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrStateWrite, "cannot write state document")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrStateWrite, "cannot write state document")
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, errors.ErrStateWrite, "cannot replace state file")
	}
	return nil
}

// lookup finds a saved entry by case-insensitive name, returning the
// stored key (first-seen casing) and the entry.
func (t *Tracker) lookup(name string) (string, *types.SavedApplicationEntry) {
	lower := strings.ToLower(name)
	for key, entry := range t.doc.SavedApplications {
		if strings.ToLower(key) == lower {
			return key, entry
		}
	}
	return "", nil
}

func normalize(doc *types.ProfileState) *types.ProfileState {
	if doc.SchemaVersion == "" {
		doc.SchemaVersion = types.StateSchemaVersion
	}
	if doc.SavedApplications == nil {
		doc.SavedApplications = make(map[string]*types.SavedApplicationEntry)
	}
	if doc.PublishedProfiles == nil {
		doc.PublishedProfiles = make(map[string]*types.PublishedProfileRecord)
	}
	for _, entry := range doc.SavedApplications {
		if entry.Priority == "" {
			entry.Priority = types.PriorityOptional
		}
		if entry.LastSeenState == "" {
			entry.LastSeenState = types.SeenMissing
		}
	}
	return doc
}

func lowerSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}
