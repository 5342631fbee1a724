package state_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbench/envprofile/pkg/state"
	"github.com/nbench/envprofile/pkg/types"
)

func fixedTime(t *testing.T) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2026-03-01T10:00:00Z")
	require.NoError(t, err)
	return ts
}

func TestLoadMissingFileYieldsFreshDocument(t *testing.T) {
	tracker := state.Load(filepath.Join(t.TempDir(), "nope", "profile-state.json"))

	doc := tracker.Doc()
	assert.Equal(t, types.StateSchemaVersion, doc.SchemaVersion)
	assert.Empty(t, doc.SavedApplications)
	assert.Empty(t, doc.PublishedProfiles)
}

func TestLoadCorruptFileYieldsFreshDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile-state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	tracker := state.Load(path)
	assert.Empty(t, tracker.Doc().SavedApplications)
}

func TestLoadNormalizesPartialDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile-state.json")
	raw := `{"saved_applications": {"Raycast": {"first_saved_at": "2026-01-01T00:00:00Z"}}}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	tracker := state.Load(path)
	doc := tracker.Doc()
	assert.Equal(t, types.StateSchemaVersion, doc.SchemaVersion)
	require.Contains(t, doc.SavedApplications, "Raycast")
	assert.Equal(t, types.PriorityOptional, doc.SavedApplications["Raycast"].Priority)
	assert.NotNil(t, doc.PublishedProfiles)
}

func TestUpdateApplicationsCreatesAndRefreshes(t *testing.T) {
	tracker := state.Load(filepath.Join(t.TempDir(), "profile-state.json"))
	now := fixedTime(t)

	tracker.UpdateApplications(
		[]string{"Raycast", "Rectangle"},
		[]string{"raycast"},
		map[string]bool{"raycast": true},
		now,
	)

	doc := tracker.Doc()
	require.Contains(t, doc.SavedApplications, "Raycast")
	require.Contains(t, doc.SavedApplications, "Rectangle")

	raycast := doc.SavedApplications["Raycast"]
	assert.Equal(t, types.SeenInstalled, raycast.LastSeenState)
	assert.Equal(t, state.Timestamp(now), raycast.FirstSavedAt)
	assert.Equal(t, state.Timestamp(now), raycast.LastSelectedAt)
	assert.Equal(t, types.PriorityRequired, raycast.Priority)

	rectangle := doc.SavedApplications["Rectangle"]
	assert.Equal(t, types.SeenInstalled, rectangle.LastSeenState)
	assert.Empty(t, rectangle.LastSelectedAt, "not included this run")
	assert.Equal(t, types.PriorityOptional, rectangle.Priority)
}

func TestUpdateApplicationsMarksAbsentAsMissing(t *testing.T) {
	tracker := state.Load(filepath.Join(t.TempDir(), "profile-state.json"))
	now := fixedTime(t)

	tracker.UpdateApplications([]string{"Raycast"}, []string{"Raycast"}, nil, now)
	tracker.UpdateApplications([]string{"Rectangle"}, nil, nil, now.Add(time.Hour))

	doc := tracker.Doc()
	require.Contains(t, doc.SavedApplications, "Raycast", "absence never deletes")
	assert.Equal(t, types.SeenMissing, doc.SavedApplications["Raycast"].LastSeenState)
	assert.Equal(t, types.SeenInstalled, doc.SavedApplications["Rectangle"].LastSeenState)
}

func TestUpdateApplicationsKeepsFirstSeenCasing(t *testing.T) {
	tracker := state.Load(filepath.Join(t.TempDir(), "profile-state.json"))
	now := fixedTime(t)

	tracker.UpdateApplications([]string{"Raycast"}, nil, nil, now)
	tracker.UpdateApplications([]string{"RAYCAST"}, []string{"RAYCAST"}, nil, now.Add(time.Hour))

	doc := tracker.Doc()
	require.Len(t, doc.SavedApplications, 1)
	require.Contains(t, doc.SavedApplications, "Raycast")
	assert.Equal(t, state.Timestamp(now), doc.SavedApplications["Raycast"].FirstSavedAt)
	assert.Equal(t, state.Timestamp(now.Add(time.Hour)), doc.SavedApplications["Raycast"].LastSelectedAt)
}

func TestUpdateApplicationsNeverDemotesRequired(t *testing.T) {
	tracker := state.Load(filepath.Join(t.TempDir(), "profile-state.json"))
	now := fixedTime(t)

	tracker.UpdateApplications([]string{"Raycast"}, nil, map[string]bool{"raycast": true}, now)
	tracker.UpdateApplications([]string{"Raycast"}, nil, nil, now.Add(time.Hour))

	assert.Equal(t, types.PriorityRequired, tracker.Doc().SavedApplications["Raycast"].Priority)
}

func TestRemoveApplicationsCaseInsensitive(t *testing.T) {
	tracker := state.Load(filepath.Join(t.TempDir(), "profile-state.json"))
	now := fixedTime(t)
	tracker.UpdateApplications([]string{"Raycast", "Rectangle"}, nil, nil, now)

	removed := tracker.RemoveApplications([]string{"RAYCAST", "unknown"})

	assert.Equal(t, []string{"Raycast"}, removed)
	assert.NotContains(t, tracker.Doc().SavedApplications, "Raycast")
	assert.Contains(t, tracker.Doc().SavedApplications, "Rectangle")
}

func TestPublishRecordLifecycle(t *testing.T) {
	tracker := state.Load(filepath.Join(t.TempDir(), "profile-state.json"))
	now := fixedTime(t)

	tracker.RecordPublish("abc123", "https://example.com/p/abc123", "tok-1", now)
	assert.Equal(t, "tok-1", tracker.ManageToken("abc123"))
	assert.Equal(t, "", tracker.ManageToken("other"))

	record := tracker.Doc().PublishedProfiles["abc123"]
	require.NotNil(t, record)
	assert.Equal(t, types.PublishStatusActive, record.Status)

	tracker.RecordTombstone("abc123", now.Add(time.Hour))
	assert.Equal(t, types.PublishStatusTombstoned, record.Status)
	assert.Equal(t, state.Timestamp(now.Add(time.Hour)), record.TombstonedAt)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile-state.json")
	tracker := state.Load(path)
	now := fixedTime(t)

	tracker.UpdateApplications([]string{"Raycast"}, []string{"Raycast"}, nil, now)
	tracker.MarkExported(now)
	require.NoError(t, tracker.Save())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc types.ProfileState
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Equal(t, state.Timestamp(now), doc.LastExportedAt)
	assert.Contains(t, doc.SavedApplications, "Raycast")

	reloaded := state.Load(path)
	assert.Equal(t, tracker.Doc().SavedApplications["Raycast"].FirstSavedAt,
		reloaded.Doc().SavedApplications["Raycast"].FirstSavedAt)
}
