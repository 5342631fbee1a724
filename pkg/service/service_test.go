package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/service"
)

func TestPublish(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/profiles", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"id":           "abc123",
			"url":          "https://share.example.com/p/abc123",
			"manage_token": "tok-1",
			"created_at":   "2026-03-01T10:00:00Z",
		})
	}))
	defer server.Close()

	client := service.NewClient(server.URL)
	result, err := client.Publish(context.Background(), map[string]any{"profile_name": "Test"})
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.ID)
	assert.Equal(t, "https://share.example.com/p/abc123", result.URL)
	assert.Equal(t, "tok-1", result.ManageToken)
	assert.Equal(t, map[string]any{"profile_name": "Test"}, gotBody["profile"])
}

func TestPublishLenientResponseFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"profile_id": "alt-id",
			"token":      "alt-token",
		})
	}))
	defer server.Close()

	client := service.NewClient(server.URL)
	result, err := client.Publish(context.Background(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "alt-id", result.ID)
	assert.Equal(t, "alt-token", result.ManageToken)
	assert.Equal(t, server.URL+"/p/alt-id", result.URL, "share URL falls back to /p/{id}")
}

func TestPublishFallbackIDIsDeterministic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := service.NewClient(server.URL)
	profile := map[string]any{"b": 2, "a": 1}

	first, err := client.Publish(context.Background(), profile)
	require.NoError(t, err)
	second, err := client.Publish(context.Background(), map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)

	assert.Len(t, first.ID, 12)
	assert.Equal(t, first.ID, second.ID, "id derives from content, not key order")
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/profiles/abc123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":         "abc123",
			"status":     "tombstoned",
			"profile":    map[string]any{"profile_name": "Test"},
			"created_at": "2026-03-01T10:00:00Z",
		})
	}))
	defer server.Close()

	client := service.NewClient(server.URL)
	result, err := client.Fetch(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.ID)
	assert.True(t, result.Tombstoned)
	assert.NotNil(t, result.Profile)
}

func TestFetchDefaultsStatusActive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"profile": {}}`))
	}))
	defer server.Close()

	client := service.NewClient(server.URL)
	result, err := client.Fetch(context.Background(), "xyz")
	require.NoError(t, err)

	assert.Equal(t, "xyz", result.ID)
	assert.Equal(t, "active", result.Status)
	assert.False(t, result.Tombstoned)
}

func TestTombstoneSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/profiles/abc123/tombstone", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"tombstoned_at": "2026-03-02T00:00:00Z",
			"url":           "https://share.example.com/p/abc123",
		})
	}))
	defer server.Close()

	client := service.NewClient(server.URL)
	result, err := client.Tombstone(context.Background(), "abc123", "tok-1")
	require.NoError(t, err)

	assert.Equal(t, "tombstoned", result.Status)
	assert.Equal(t, "2026-03-02T00:00:00Z", result.TombstonedAt)
}

func TestServiceErrorCarriesStatusDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "profile not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := service.NewClient(server.URL)
	_, err := client.Fetch(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrService))
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Contains(t, err.Error(), "profile not found")
}

func TestNetworkErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := service.NewClient(server.URL)
	_, err := client.Fetch(context.Background(), "abc")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNetwork))
}

func TestInvalidJSONIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := service.NewClient(server.URL)
	_, err := client.Fetch(context.Background(), "abc")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrService))
}

func TestResolveProfileID(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{name: "bare id", target: "abc123", want: "abc123"},
		{name: "share url", target: "https://share.example.com/p/abc123", want: "abc123"},
		{name: "trailing slash", target: "https://share.example.com/p/abc123/", want: "abc123"},
		{name: "whitespace trimmed", target: "  abc123  ", want: "abc123"},
		{name: "empty", target: "", wantErr: true},
		{name: "url without path", target: "https://share.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ResolveProfileID(tt.target)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
