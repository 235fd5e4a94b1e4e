package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/covercluster/internal/config"
	"github.com/handiism/covercluster/internal/download"
)

func newFetchCmd(g *globalFlags) *cobra.Command {
	var (
		coversDir   string
		concurrency int
		overwrite   bool
		noResize    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <manifest>",
		Short: "Download covers listed in a manifest",
		Long: `Fetch downloads every cover of a manifest into the cover directory, named so
that render finds it by exact match. Each manifest line is a name and a URL
separated by a tab; blank lines and lines starting with # are ignored.

Existing covers are kept unless --overwrite is given.`,
		Example: `  covercluster fetch covers.tsv --covers covers
  covercluster fetch covers.tsv --concurrency 8 --overwrite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := g.loadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("covers") {
				settings.CoversDir = coversDir
			}
			if cmd.Flags().Changed("concurrency") {
				settings.FetchMaxConcurrent = concurrency
			}
			if noResize {
				settings.CoverResize = false
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			covers, issues, err := download.ReadManifestFile(args[0])
			if err != nil {
				return err
			}
			for _, issue := range issues {
				logger.Warn("Manifest line skipped", "line", issue.Line, "reason", issue.Reason, "text", issue.Text)
			}
			if len(covers) == 0 {
				logger.Warn("Manifest lists no covers", "path", args[0])
				return nil
			}

			opts := settings.ToFetchOptions()
			opts.Overwrite = overwrite
			summary, err := download.NewManager(opts, eventLogger(logger)).Fetch(ctx, covers)
			if summary != nil && len(summary.Failed) > 0 {
				rows := make([][]string, 0, len(summary.Failed))
				for _, f := range summary.Failed {
					rows = append(rows, []string{f.Cover.Name, f.Err.Error()})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable([]string{"Cover", "Error"}, rows, nil, isTerminal(out)))
			}
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Fetched %d covers", len(summary.Downloaded)))
			return nil
		},
	}

	d := config.DefaultSettings()
	cmd.Flags().StringVar(&coversDir, "covers", d.CoversDir, "cover image directory")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", d.FetchMaxConcurrent, "parallel downloads")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "download covers that already exist")
	cmd.Flags().BoolVar(&noResize, "no-resize", false, "keep the original cover size")

	return cmd
}
