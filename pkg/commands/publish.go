package commands

import (
	"context"
	"io"

	"github.com/nbench/envprofile/pkg/config"
	"github.com/nbench/envprofile/pkg/logging"
	"github.com/nbench/envprofile/pkg/service"
	"github.com/nbench/envprofile/pkg/state"
	"github.com/nbench/envprofile/pkg/tokens"
)

// PublishOptions are the inputs for publishing a snapshot.
type PublishOptions struct {
	// InputFile holds the snapshot document; stdin is read when empty.
	InputFile string
	// Stdin is the fallback payload source.
	Stdin io.Reader
	// ServiceURL overrides the configured hosting endpoint.
	ServiceURL string
	StatePath  string
	// Settings carries the loaded config file values.
	Settings config.Settings
	// Client overrides the service client, for tests.
	Client *service.Client
}

// PublishResult is the publish output document.
type PublishResult struct {
	ID                 string `json:"id"`
	URL                string `json:"url"`
	Immutable          bool   `json:"immutable"`
	NonExpiring        bool   `json:"non_expiring"`
	TombstoneSupported bool   `json:"tombstone_supported"`
}

// Publish uploads a snapshot to the hosting service and records the
// returned id, share URL, and manage token in local state and the OS
// keychain.
func Publish(ctx context.Context, opts PublishOptions) (*PublishResult, error) {
	logger := logging.GetLogger("commands")

	profile, err := LoadProfilePayload(opts.InputFile, opts.Stdin)
	if err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		serviceURL, err := config.ResolveServiceURL(opts.ServiceURL, opts.Settings)
		if err != nil {
			return nil, err
		}
		client = service.NewClient(serviceURL)
	}

	published, err := client.Publish(ctx, profile)
	if err != nil {
		return nil, err
	}

	now := state.Now()
	tracker := state.Load(opts.StatePath)
	tracker.RecordPublish(published.ID, published.URL, published.ManageToken, now)
	if published.CreatedAt != "" {
		tracker.Doc().PublishedProfiles[published.ID].CreatedAt = published.CreatedAt
	}
	if err := tracker.Save(); err != nil {
		return nil, err
	}
	tokens.Save(published.ID, published.ManageToken)

	logger.Info().Str("id", published.ID).Str("url", published.URL).Msg("Published snapshot")
	return &PublishResult{
		ID:                 published.ID,
		URL:                published.URL,
		Immutable:          true,
		NonExpiring:        true,
		TombstoneSupported: true,
	}, nil
}
