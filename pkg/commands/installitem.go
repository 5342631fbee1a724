package commands

import (
	"context"
	"encoding/json"
	"io"

	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/install"
	"github.com/nbench/envprofile/pkg/paths"
	"github.com/nbench/envprofile/pkg/types"
)

// InstallItemOptions are the inputs for applying one snapshot item.
type InstallItemOptions struct {
	// ItemFile holds the item document; stdin is read when empty.
	ItemFile string
	Stdin    io.Reader
	// PluginRoot is the base directory holding the installer scripts.
	PluginRoot string
	// DryRun reports the resolved commands without running them.
	DryRun bool
	// Runner overrides script execution, for tests.
	Runner install.Runner
}

// InstallItem applies the install-then-verify sequence for one item read
// from a file or stdin.
func InstallItem(ctx context.Context, opts InstallItemOptions) (*install.Result, error) {
	payload, err := LoadItemPayload(opts.ItemFile, opts.Stdin)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "cannot decode item")
	}
	var item types.ProfileItem
	if err := json.Unmarshal(encoded, &item); err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "cannot decode item")
	}

	dispatcher := install.NewDispatcher(paths.ScriptsDir(opts.PluginRoot), opts.Runner)
	result := dispatcher.Apply(ctx, item, opts.DryRun)
	return &result, nil
}
