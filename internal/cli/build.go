package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fiddler-build/fiddler/pkg/build"
	"github.com/fiddler-build/fiddler/pkg/config"
)

// newBuildCmd creates the build command.
//
// The project root defaults to the current directory. Flags override the
// corresponding fiddler.toml values; unset flags fall back to the file.
func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [root]",
		Short: "Build autoload maps for every component",
		Long: `Build scans the project for fiddler.json manifests, merges packages from
vendor/composer/installed.json, resolves each component's transitive
dependencies, and writes an autoload map into the component's vendor
directory.

Examples:
  fiddler build                  # Build the current directory
  fiddler build ./services       # Build a subtree
  fiddler build --no-dev         # Production artifacts without dev rules`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			opts, err := mergeConfig(c, root)
			if err != nil {
				return err
			}

			logger := loggerFromContext(c.Context())
			prog := newProgress(logger)

			runner := build.NewRunner(nil, logger)
			result, err := runner.Execute(c.Context(), root, opts)
			if err != nil {
				return err
			}

			prog.done(fmt.Sprintf("Built %d components", len(result.Targets)))
			return nil
		},
	}

	cmd.Flags().Bool("optimize", false, "sort and deduplicate artifact entries")
	cmd.Flags().Bool("no-dev", false, "exclude autoload-dev rules from artifacts")
	cmd.Flags().StringSlice("exclude", nil, "directory names to skip during the scan")
	cmd.Flags().StringP("artifact", "o", "", "artifact file name (default: autoload.json)")

	return cmd
}

// mergeConfig combines command-line flags with the project's fiddler.toml.
// Flags explicitly set on the command line win; everything else falls back
// to the file, then to built-in defaults.
func mergeConfig(c *cobra.Command, root string) (build.Options, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return build.Options{}, err
	}

	opts := build.Options{
		DevMode:  !cfg.NoDev,
		Optimize: cfg.Optimize,
		Exclude:  cfg.Exclude,
		Artifact: cfg.Artifact,
	}

	flags := c.Flags()
	if flags.Changed("no-dev") {
		noDev, _ := flags.GetBool("no-dev")
		opts.DevMode = !noDev
	}
	if flags.Changed("optimize") {
		opts.Optimize, _ = flags.GetBool("optimize")
	}
	if flags.Changed("exclude") {
		opts.Exclude, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("artifact") {
		opts.Artifact, _ = flags.GetString("artifact")
	}
	return opts, nil
}
