// Package service is the thin client for the profile hosting service:
// publish a snapshot, fetch one by id or share URL, and tombstone a
// published link with its manage token.
package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/logging"
)

const (
	requestTimeout = 30 * time.Second
	userAgent      = "envprofile/1.0"

	// fallbackIDLen is the hex length of the locally derived profile id
	// used when the service response carries none.
	fallbackIDLen = 12
)

// Client talks to one hosting service base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given base URL (no trailing slash).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// PublishResult is the normalized outcome of a publish call.
type PublishResult struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ManageToken string `json:"-"`
	CreatedAt   string `json:"-"`
}

// FetchResult is the normalized outcome of a fetch call.
type FetchResult struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Tombstoned bool   `json:"tombstoned"`
	Profile    any    `json:"profile"`
	CreatedAt  string `json:"created_at"`
}

// TombstoneResult is the normalized outcome of a tombstone call.
type TombstoneResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	URL          string `json:"url"`
	TombstonedAt string `json:"-"`
}

// Publish posts a snapshot and returns its assigned id, share URL, and
// manage token. A response without an id gets a deterministic local id
// derived from the snapshot content; a response without a URL gets the
// conventional {base}/p/{id} share path.
func (c *Client) Publish(ctx context.Context, profile map[string]any) (*PublishResult, error) {
	var response struct {
		ID          string `json:"id"`
		ProfileID   string `json:"profile_id"`
		URL         string `json:"url"`
		ManageToken string `json:"manage_token"`
		Token       string `json:"token"`
		CreatedAt   string `json:"created_at"`
	}
	err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/v1/profiles",
		map[string]any{"profile": profile}, "", &response)
	if err != nil {
		return nil, err
	}

	id := response.ID
	if id == "" {
		id = response.ProfileID
	}
	if id == "" {
		id = FallbackProfileID(profile)
	}
	shareURL := response.URL
	if shareURL == "" {
		shareURL = fmt.Sprintf("%s/p/%s", c.baseURL, id)
	}
	token := response.ManageToken
	if token == "" {
		token = response.Token
	}

	return &PublishResult{
		ID:          id,
		URL:         shareURL,
		ManageToken: token,
		CreatedAt:   response.CreatedAt,
	}, nil
}

// Fetch retrieves a published snapshot by id.
func (c *Client) Fetch(ctx context.Context, profileID string) (*FetchResult, error) {
	var response struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		Profile   any    `json:"profile"`
		CreatedAt string `json:"created_at"`
	}
	err := c.doJSON(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/profiles/%s", c.baseURL, profileID), nil, "", &response)
	if err != nil {
		return nil, err
	}

	id := response.ID
	if id == "" {
		id = profileID
	}
	status := response.Status
	if status == "" {
		status = "active"
	}

	return &FetchResult{
		ID:         id,
		Status:     status,
		Tombstoned: status == "tombstoned",
		Profile:    response.Profile,
		CreatedAt:  response.CreatedAt,
	}, nil
}

// Tombstone marks a published snapshot inactive using its manage token.
func (c *Client) Tombstone(ctx context.Context, profileID, manageToken string) (*TombstoneResult, error) {
	var response struct {
		TombstonedAt string `json:"tombstoned_at"`
		URL          string `json:"url"`
	}
	err := c.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/profiles/%s/tombstone", c.baseURL, profileID),
		map[string]any{}, manageToken, &response)
	if err != nil {
		return nil, err
	}

	shareURL := response.URL
	if shareURL == "" {
		shareURL = fmt.Sprintf("%s/p/%s", c.baseURL, profileID)
	}
	return &TombstoneResult{
		ID:           profileID,
		Status:       "tombstoned",
		URL:          shareURL,
		TombstonedAt: response.TombstonedAt,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, requestURL string, body any, bearer string, out any) error {
	logger := logging.GetLogger("service")

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrMalformedInput, "cannot encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return errors.Wrap(err, errors.ErrNetwork, "cannot build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	logger.Debug().Str("method", method).Str("url", requestURL).Msg("Service request")
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNetwork, "Network error: %s %s", method, requestURL)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrNetwork, "cannot read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf(errors.ErrService, "HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(content))).
			WithDetail("status", resp.StatusCode)
	}
	if len(content) == 0 {
		return nil
	}
	if err := json.Unmarshal(content, out); err != nil {
		return errors.Wrap(err, errors.ErrService, "Service returned invalid JSON")
	}
	return nil
}

// FallbackProfileID derives a deterministic id from the snapshot content.
// JSON encoding sorts object keys, so equal snapshots hash equal.
func FallbackProfileID(profile map[string]any) string {
	raw, err := json.Marshal(profile)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", profile))
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%x", sum)[:fallbackIDLen]
}

// ResolveProfileID accepts either a bare profile id or a share URL and
// returns the id: the last non-empty path segment of a URL, or the
// trimmed input itself.
func ResolveProfileID(target string) (string, error) {
	candidate := strings.TrimSpace(target)
	if candidate == "" {
		return "", errors.New(errors.ErrInvalidInput, "Profile identifier is required")
	}

	parsed, err := url.Parse(candidate)
	if err == nil && parsed.Scheme != "" && parsed.Host != "" {
		segments := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
		if len(segments) == 0 {
			return "", errors.New(errors.ErrInvalidInput, "Could not resolve profile ID from URL")
		}
		return segments[len(segments)-1], nil
	}
	return candidate, nil
}
