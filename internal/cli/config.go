package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/covercluster/internal/config"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage settings files",
	}
	cmd.AddCommand(newConfigInitCmd(g))
	return cmd
}

func newConfigInitCmd(g *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a settings file with the default values",
		Long: `Init writes every setting with its default value. The format follows the
extension: .toml for TOML, anything else for JSON. Without a path the
--config location is used, or covercluster.toml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "covercluster.toml"
			switch {
			case len(args) == 1:
				path = args[0]
			case g.configPath != "":
				path = g.configPath
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to replace it)", path)
			}
			if err := config.DefaultSettings().Save(path); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("Settings written", "path", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing file")
	return cmd
}
