package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/handiism/covercluster/internal/config"
)

var (
	version = "dev" // semantic version (e.g., "v1.2.3")
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	date = d
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose    bool
	configPath string
}

// Execute runs the covercluster CLI and returns an error if any command fails.
//
// The logger is attached to the command context in PersistentPreRun and is
// reachable from every command via loggerFromContext.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "covercluster",
		Short:         "covercluster paints your library as a cover mosaic",
		Long:          `covercluster reads a weighted album/artist index and packs the matching cover images onto one canvas, each sized by how many songs it stands for.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if flags.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("covercluster %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "settings file (.json or .toml)")

	root.AddCommand(newRenderCmd(flags))
	root.AddCommand(newResolveCmd(flags))
	root.AddCommand(newFetchCmd(flags))
	root.AddCommand(newScanCmd(flags))
	root.AddCommand(newConfigCmd(flags))

	return root
}

// loadSettings returns the defaults, or the settings file when --config is set.
func (f *globalFlags) loadSettings() (*config.Settings, error) {
	if f.configPath == "" {
		return config.DefaultSettings(), nil
	}
	if _, err := os.Stat(f.configPath); err != nil {
		return nil, fmt.Errorf("config %s: %w", f.configPath, err)
	}
	return config.Load(f.configPath)
}
