package commands

import (
	"context"

	"github.com/nbench/envprofile/pkg/config"
	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/logging"
	"github.com/nbench/envprofile/pkg/service"
	"github.com/nbench/envprofile/pkg/state"
	"github.com/nbench/envprofile/pkg/tokens"
)

// TombstoneOptions are the inputs for tombstoning a published snapshot.
type TombstoneOptions struct {
	// Target is a profile id or share URL.
	Target string
	// ManageToken overrides the stored token.
	ManageToken string
	ServiceURL  string
	StatePath   string
	Settings    config.Settings
	Client      *service.Client
}

// TombstoneResult is the tombstone output document.
type TombstoneResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url"`
}

// Tombstone marks a published snapshot inactive. The manage token
// resolves from the flag, then the local published-profile record, then
// the OS keychain; missing everywhere is a fatal configuration error.
func Tombstone(ctx context.Context, opts TombstoneOptions) (*TombstoneResult, error) {
	logger := logging.GetLogger("commands")

	profileID, err := service.ResolveProfileID(opts.Target)
	if err != nil {
		return nil, err
	}

	tracker := state.Load(opts.StatePath)
	token := opts.ManageToken
	if token == "" {
		token = tracker.ManageToken(profileID)
	}
	if token == "" {
		token = tokens.Lookup(profileID)
	}
	if token == "" {
		return nil, errors.New(errors.ErrConfigMissing,
			"missing manage token; pass --manage-token or publish from this machine first")
	}

	client := opts.Client
	if client == nil {
		serviceURL, err := config.ResolveServiceURL(opts.ServiceURL, opts.Settings)
		if err != nil {
			return nil, err
		}
		client = service.NewClient(serviceURL)
	}

	result, err := client.Tombstone(ctx, profileID, token)
	if err != nil {
		return nil, err
	}

	tracker.RecordTombstone(profileID, state.Now())
	if result.TombstonedAt != "" {
		tracker.Doc().PublishedProfiles[profileID].TombstonedAt = result.TombstonedAt
	}
	if err := tracker.Save(); err != nil {
		return nil, err
	}

	logger.Info().Str("id", profileID).Msg("Tombstoned snapshot")
	return &TombstoneResult{
		ID:     profileID,
		Status: result.Status,
		URL:    result.URL,
	}, nil
}
