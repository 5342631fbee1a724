package envprofile

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nbench/envprofile/pkg/commands"
	"github.com/nbench/envprofile/pkg/config"
	"github.com/nbench/envprofile/pkg/display"
	"github.com/nbench/envprofile/pkg/paths"
)

// detectFlags carries the detection options shared by every command that
// inspects the local machine (detect, export, plan-import).
type detectFlags struct {
	cwd            string
	skillsScope    string
	recsDir        string
	stateFile      string
	pluginRoot     string
	configFile     string
	detectJSONFile string
	repoJSONFile   string
}

func addDetectFlags(cmd *cobra.Command, f *detectFlags) {
	cmd.Flags().StringVar(&f.cwd, "cwd", "", "Working directory for detection (default current directory)")
	cmd.Flags().StringVar(&f.skillsScope, "skills-scope", "both", "Skill discovery scope: global, project or both")
	cmd.Flags().StringVar(&f.recsDir, "recs-dir", "", "Descriptor catalog directory")
	cmd.Flags().StringVar(&f.stateFile, "state-file", "", "Saved-state file path")
	cmd.Flags().StringVar(&f.pluginRoot, "plugin-root", "", "Probe and installer script root")
	cmd.Flags().StringVar(&f.configFile, "config-file", "", "Config file path")
	cmd.Flags().StringVar(&f.detectJSONFile, "detect-json-file", "", "Read detection payload from file instead of running probes")
	cmd.Flags().StringVar(&f.repoJSONFile, "repo-json-file", "", "Read repository payload from file instead of running probes")
}

// options resolves the flag set against the config file and built-in
// defaults, flag winning over file winning over default.
func (f *detectFlags) options() (commands.DetectOptions, config.Settings, error) {
	settings, err := loadSettings(f.configFile)
	if err != nil {
		return commands.DetectOptions{}, settings, err
	}

	cwd := f.cwd
	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return commands.DetectOptions{}, settings, err
		}
	}

	return commands.DetectOptions{
		Cwd:            cwd,
		SkillsScope:    f.skillsScope,
		RecsDir:        config.ResolveRecsDir(f.recsDir, settings),
		StatePath:      config.ResolveStatePath(f.stateFile, settings),
		PluginRoot:     config.ResolvePluginRoot(f.pluginRoot, settings),
		DetectJSONFile: f.detectJSONFile,
		RepoJSONFile:   f.repoJSONFile,
	}, settings, nil
}

func loadSettings(configFile string) (config.Settings, error) {
	if configFile == "" {
		configFile = paths.ConfigFilePath()
	}
	return config.Load(configFile)
}

func newDetectCmd() *cobra.Command {
	var flags detectFlags

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect environment and build profile catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := flags.options()
			if err != nil {
				return err
			}
			merged, err := commands.Detect(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, merged)
		},
	}

	addDetectFlags(cmd, &flags)
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		flags                   detectFlags
		selectedNewApps         string
		includeSavedMissingApps string
		excludeSavedApps        bool
		requiredItems           string
		profileName             string
		outputFile              string
		dryRun                  bool
		pretty                  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build profile snapshot from current setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := flags.options()
			if err != nil {
				return err
			}
			result, err := commands.Export(cmd.Context(), commands.ExportOptions{
				DetectOptions:           opts,
				SelectedNewApps:         commands.ParseCSV(selectedNewApps),
				IncludeSavedMissingApps: commands.ParseCSV(includeSavedMissingApps),
				ExcludeSavedApps:        excludeSavedApps,
				RequiredItems:           commands.ParseCSV(requiredItems),
				ProfileName:             profileName,
				OutputFile:              outputFile,
				DryRun:                  dryRun,
			})
			if err != nil {
				return err
			}
			if pretty {
				cmd.Println(display.RenderExportSummary(result))
				return nil
			}
			return printJSON(cmd, result)
		},
	}

	addDetectFlags(cmd, &flags)
	cmd.Flags().StringVar(&selectedNewApps, "selected-new-apps", "", "CSV list of newly detected apps to include")
	cmd.Flags().StringVar(&includeSavedMissingApps, "include-saved-missing-apps", "", "CSV list of previously saved missing apps to include")
	cmd.Flags().BoolVar(&excludeSavedApps, "exclude-saved-apps", false, "Do not include previously saved installed apps")
	cmd.Flags().StringVar(&requiredItems, "required-items", "", "CSV of required item IDs or names")
	cmd.Flags().StringVar(&profileName, "profile-name", "", "Name recorded in the snapshot")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Also write the export result to this file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build the snapshot without updating saved state")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Render a human-readable summary instead of JSON")
	return cmd
}

func newPublishCmd() *cobra.Command {
	var (
		inputFile  string
		serviceURL string
		stateFile  string
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish profile snapshot to link service",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configFile)
			if err != nil {
				return err
			}
			result, err := commands.Publish(cmd.Context(), commands.PublishOptions{
				InputFile:  inputFile,
				Stdin:      cmd.InOrStdin(),
				ServiceURL: serviceURL,
				StatePath:  config.ResolveStatePath(stateFile, settings),
				Settings:   settings,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&inputFile, "input-file", "", "Input JSON file (reads stdin if omitted)")
	cmd.Flags().StringVar(&serviceURL, "service-url", "", "Profile hosting service URL")
	cmd.Flags().StringVar(&stateFile, "state-file", "", "Saved-state file path")
	cmd.Flags().StringVar(&configFile, "config-file", "", "Config file path")
	return cmd
}

func newFetchCmd() *cobra.Command {
	var (
		serviceURL string
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "fetch <url-or-id>",
		Short: "Fetch profile snapshot from link service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configFile)
			if err != nil {
				return err
			}
			result, err := commands.Fetch(cmd.Context(), commands.FetchOptions{
				Target:     args[0],
				ServiceURL: serviceURL,
				Settings:   settings,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&serviceURL, "service-url", "", "Profile hosting service URL")
	cmd.Flags().StringVar(&configFile, "config-file", "", "Config file path")
	return cmd
}

func newPlanImportCmd() *cobra.Command {
	var (
		flags       detectFlags
		profileFile string
		currentOS   string
		pretty      bool
	)

	cmd := &cobra.Command{
		Use:   "plan-import",
		Short: "Plan import actions against local machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := flags.options()
			if err != nil {
				return err
			}
			plan, err := commands.PlanImport(cmd.Context(), commands.PlanImportOptions{
				DetectOptions: opts,
				ProfileFile:   profileFile,
				Stdin:         cmd.InOrStdin(),
				CurrentOS:     currentOS,
			})
			if err != nil {
				return err
			}
			if pretty {
				cmd.Println(display.RenderImportPlan(plan))
				return nil
			}
			return printJSON(cmd, plan)
		},
	}

	addDetectFlags(cmd, &flags)
	cmd.Flags().StringVar(&profileFile, "profile-file", "", "Profile JSON file (reads stdin if omitted)")
	cmd.Flags().StringVar(&currentOS, "current-os", "", "Override current OS")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Render a human-readable plan instead of JSON")
	return cmd
}

func newInstallItemCmd() *cobra.Command {
	var (
		itemFile   string
		pluginRoot string
		configFile string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "install-item",
		Short: "Install one item from import plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configFile)
			if err != nil {
				return err
			}
			result, err := commands.InstallItem(cmd.Context(), commands.InstallItemOptions{
				ItemFile:   itemFile,
				Stdin:      cmd.InOrStdin(),
				PluginRoot: config.ResolvePluginRoot(pluginRoot, settings),
				DryRun:     dryRun,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&itemFile, "item-file", "", "Item JSON file (reads stdin if omitted)")
	cmd.Flags().StringVar(&pluginRoot, "plugin-root", "", "Installer script root")
	cmd.Flags().StringVar(&configFile, "config-file", "", "Config file path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the commands without running them")
	return cmd
}

func newTombstoneCmd() *cobra.Command {
	var (
		manageToken string
		serviceURL  string
		stateFile   string
		configFile  string
	)

	cmd := &cobra.Command{
		Use:   "tombstone <url-or-id>",
		Short: "Tombstone an immutable profile link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configFile)
			if err != nil {
				return err
			}
			result, err := commands.Tombstone(cmd.Context(), commands.TombstoneOptions{
				Target:      args[0],
				ManageToken: manageToken,
				ServiceURL:  serviceURL,
				StatePath:   config.ResolveStatePath(stateFile, settings),
				Settings:    settings,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&manageToken, "manage-token", "", "Manage token from the original publish")
	cmd.Flags().StringVar(&serviceURL, "service-url", "", "Profile hosting service URL")
	cmd.Flags().StringVar(&stateFile, "state-file", "", "Saved-state file path")
	cmd.Flags().StringVar(&configFile, "config-file", "", "Config file path")
	return cmd
}

func newSavedAppsCmd() *cobra.Command {
	var (
		stateFile  string
		configFile string
		remove     string
		pretty     bool
	)

	cmd := &cobra.Command{
		Use:   "saved-apps",
		Short: "List or remove saved application selections",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configFile)
			if err != nil {
				return err
			}
			result, err := commands.SavedApps(commands.SavedAppsOptions{
				StatePath: config.ResolveStatePath(stateFile, settings),
				Remove:    commands.ParseCSV(remove),
			})
			if err != nil {
				return err
			}
			if pretty {
				cmd.Println(display.RenderSavedApps(result))
				return nil
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&stateFile, "state-file", "", "Saved-state file path")
	cmd.Flags().StringVar(&configFile, "config-file", "", "Config file path")
	cmd.Flags().StringVar(&remove, "remove", "", "CSV list of saved app names to remove")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Render a table instead of JSON")
	return cmd
}
