// Package commands implements the command layer: one Options struct and
// one function per CLI capability, independent of cobra so every command
// is callable (and testable) as a plain function.
package commands

import (
	"context"
	"path/filepath"

	"github.com/nbench/envprofile/pkg/catalog"
	"github.com/nbench/envprofile/pkg/detect"
	"github.com/nbench/envprofile/pkg/logging"
	"github.com/nbench/envprofile/pkg/paths"
	"github.com/nbench/envprofile/pkg/reconcile"
	"github.com/nbench/envprofile/pkg/state"
	"github.com/nbench/envprofile/pkg/types"
)

// DetectOptions are the inputs shared by every detection-driven command.
type DetectOptions struct {
	// Cwd is the working directory detection runs against.
	Cwd string
	// SkillsScope is the skills visibility: global, project, or both.
	SkillsScope string
	// RecsDir is the descriptor catalog directory.
	RecsDir string
	// StatePath is the saved-state file location.
	StatePath string
	// PluginRoot is the base directory holding the probe and installer
	// scripts.
	PluginRoot string
	// DetectJSONFile optionally replaces the detect probe with a
	// pre-computed JSON document.
	DetectJSONFile string
	// RepoJSONFile optionally replaces the repository analysis probe.
	RepoJSONFile string
}

// BuildMergedContext runs the full detection pipeline: probe the
// environment, load the descriptor catalog, discover MCP configs,
// skills, workflow patterns, and model preferences, then build the
// per-category catalog, the installed index, and the application
// selection against saved state.
func BuildMergedContext(ctx context.Context, opts DetectOptions) (*types.MergedContext, error) {
	logger := logging.GetLogger("commands")
	logger.Debug().Str("cwd", opts.Cwd).Str("skills_scope", opts.SkillsScope).Msg("Building merged context")

	detectPayload, err := detect.ReadDetectPayload(ctx, opts.Cwd, opts.DetectJSONFile, opts.PluginRoot)
	if err != nil {
		return nil, err
	}
	repoPayload, err := detect.ReadRepoPayload(ctx, opts.Cwd, opts.RepoJSONFile, opts.PluginRoot)
	if err != nil {
		return nil, err
	}

	home := paths.HomeDir()
	sourceOS := detect.NormalizeOS(detectPayload.OS)

	descriptors, warnings := catalog.LoadDescriptors(opts.RecsDir)
	mcpConfigs, mcpWarnings := catalog.DiscoverMCPConfigs(opts.Cwd, home)
	warnings = append(warnings, mcpWarnings...)

	built := catalog.Build(catalog.BuildInput{
		SourceOS:         sourceOS,
		Inventory:        detectPayload.Installed,
		Descriptors:      descriptors,
		MCPConfigs:       mcpConfigs,
		Skills:           catalog.DiscoverSkills(opts.SkillsScope, opts.Cwd, home),
		WorkflowPatterns: catalog.WorkflowPatterns(repoPayload, detectPayload),
		ModelPreferences: catalog.ModelPreferences(filepath.Join(home, ".claude", "settings.json")),
	})

	tracker := state.Load(opts.StatePath)
	selection := reconcile.ComputeApplicationSelection(detectPayload.Installed.Applications, tracker.Doc())

	if warnings == nil {
		warnings = []string{}
	}
	return &types.MergedContext{
		OS:                   sourceOS,
		SkillsScope:          opts.SkillsScope,
		Catalog:              built,
		ApplicationSelection: selection,
		InstalledIndex:       catalog.InstalledIndex(&built),
		Warnings:             warnings,
	}, nil
}

// Detect runs the detection pipeline and returns the merged context
// unchanged; it is the read-only half of export.
func Detect(ctx context.Context, opts DetectOptions) (*types.MergedContext, error) {
	return BuildMergedContext(ctx, opts)
}
