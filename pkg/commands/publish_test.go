package commands_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zkr "github.com/zalando/go-keyring"

	"github.com/nbench/envprofile/pkg/commands"
	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/service"
	"github.com/nbench/envprofile/pkg/state"
	"github.com/nbench/envprofile/pkg/types"
)

func publishServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/profiles":
			json.NewEncoder(w).Encode(map[string]any{
				"id":           "abc123",
				"url":          "https://share.example.com/p/abc123",
				"manage_token": "tok-1",
			})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/tombstone"):
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				http.Error(w, "bad token", http.StatusForbidden)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"tombstoned_at": "2026-03-02T00:00:00Z",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPublishRecordsState(t *testing.T) {
	zkr.MockInit()
	server := publishServer(t)
	statePath := filepath.Join(t.TempDir(), "profile-state.json")

	result, err := commands.Publish(context.Background(), commands.PublishOptions{
		Stdin:     strings.NewReader(`{"profile": {"profile_name": "Test"}}`),
		StatePath: statePath,
		Client:    service.NewClient(server.URL),
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.ID)
	assert.Equal(t, "https://share.example.com/p/abc123", result.URL)
	assert.True(t, result.Immutable)
	assert.True(t, result.NonExpiring)
	assert.True(t, result.TombstoneSupported)

	tracker := state.Load(statePath)
	record := tracker.Doc().PublishedProfiles["abc123"]
	require.NotNil(t, record)
	assert.Equal(t, types.PublishStatusActive, record.Status)
	assert.Equal(t, "tok-1", record.ManageToken)
}

func TestPublishRequiresServiceURL(t *testing.T) {
	_, err := commands.Publish(context.Background(), commands.PublishOptions{
		Stdin:     strings.NewReader(`{}`),
		StatePath: filepath.Join(t.TempDir(), "profile-state.json"),
	})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigMissing))
}

func TestTombstoneUsesStoredToken(t *testing.T) {
	zkr.MockInit()
	server := publishServer(t)
	statePath := filepath.Join(t.TempDir(), "profile-state.json")
	client := service.NewClient(server.URL)

	_, err := commands.Publish(context.Background(), commands.PublishOptions{
		Stdin:     strings.NewReader(`{"profile": {}}`),
		StatePath: statePath,
		Client:    client,
	})
	require.NoError(t, err)

	result, err := commands.Tombstone(context.Background(), commands.TombstoneOptions{
		Target:    "https://share.example.com/p/abc123",
		StatePath: statePath,
		Client:    client,
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.ID)
	assert.Equal(t, "tombstoned", result.Status)

	record := state.Load(statePath).Doc().PublishedProfiles["abc123"]
	require.NotNil(t, record)
	assert.Equal(t, types.PublishStatusTombstoned, record.Status)
	assert.Equal(t, "2026-03-02T00:00:00Z", record.TombstonedAt)
}

func TestTombstoneMissingTokenIsFatal(t *testing.T) {
	zkr.MockInit()
	t.Setenv("ENVPROFILE_KEYRING_DISABLED", "1")
	server := publishServer(t)

	_, err := commands.Tombstone(context.Background(), commands.TombstoneOptions{
		Target:    "never-published",
		StatePath: filepath.Join(t.TempDir(), "profile-state.json"),
		Client:    service.NewClient(server.URL),
	})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigMissing))
}

func TestTombstoneExplicitTokenOverrides(t *testing.T) {
	server := publishServer(t)

	result, err := commands.Tombstone(context.Background(), commands.TombstoneOptions{
		Target:      "abc123",
		ManageToken: "tok-1",
		StatePath:   filepath.Join(t.TempDir(), "profile-state.json"),
		Client:      service.NewClient(server.URL),
	})
	require.NoError(t, err)
	assert.Equal(t, "tombstoned", result.Status)
}

func TestFetchCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/profiles/abc123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id": "abc123", "status": "active",
			"profile": map[string]any{"profile_name": "Test"},
		})
	}))
	defer server.Close()

	result, err := commands.Fetch(context.Background(), commands.FetchOptions{
		Target: "https://share.example.com/p/abc123",
		Client: service.NewClient(server.URL),
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.ID)
	assert.False(t, result.Tombstoned)
}
