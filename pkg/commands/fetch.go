package commands

import (
	"context"

	"github.com/nbench/envprofile/pkg/config"
	"github.com/nbench/envprofile/pkg/service"
)

// FetchOptions are the inputs for retrieving a published snapshot.
type FetchOptions struct {
	// Target is a profile id or share URL.
	Target     string
	ServiceURL string
	Settings   config.Settings
	Client     *service.Client
}

// Fetch retrieves a published snapshot by id or share URL.
func Fetch(ctx context.Context, opts FetchOptions) (*service.FetchResult, error) {
	profileID, err := service.ResolveProfileID(opts.Target)
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

	return client.Fetch(ctx, profileID)
}
