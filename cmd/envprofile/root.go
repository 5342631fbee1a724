package envprofile

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nbench/envprofile/internal/version"
	"github.com/nbench/envprofile/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "envprofile",
		Short: "Capture, publish and replay your assistant tooling environment",
		Long: `envprofile snapshots the MCP servers, CLI tools, skills, applications,
plugins, workflow patterns and model preferences of the current machine,
publishes the snapshot as an immutable link, and replays it elsewhere as
an ordered import plan.

All commands emit JSON on stdout so they can be driven by other tools.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand given: show help but still fail.
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v, -vv, -vvv)")

	rootCmd.AddCommand(newDetectCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newPlanImportCmd())
	rootCmd.AddCommand(newInstallItemCmd())
	rootCmd.AddCommand(newTombstoneCmd())
	rootCmd.AddCommand(newSavedAppsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			})
		},
	}
}
