package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handiism/covercluster/internal/assets"
	"github.com/handiism/covercluster/internal/config"
	"github.com/handiism/covercluster/internal/index"
)

func newResolveCmd(g *globalFlags) *cobra.Command {
	var (
		indexPath   string
		coversDir   string
		kind        string
		missingOnly bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the cover file each entity resolves to",
		Long: `Resolve matches every entity of the index against the cover directory the
same way render does and prints the file and the strategy that found it.`,
		Example: `  covercluster resolve --index index.txt --covers covers
  covercluster resolve --kind all --missing-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := g.loadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("index") {
				settings.IndexPath = indexPath
			}
			if cmd.Flags().Changed("covers") {
				settings.CoversDir = coversDir
			}
			if cmd.Flags().Changed("kind") {
				settings.Kind = kind
			}
			kinds, err := settings.Kinds()
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			parsed, err := index.ParseFile(settings.IndexPath)
			if err != nil {
				return err
			}
			for _, issue := range parsed.Issues {
				logger.Warn("Index line skipped", "line", issue.Line, "reason", issue.Reason, "text", issue.Text)
			}

			resolver, err := assets.NewResolver(settings.CoversDir)
			if err != nil {
				return err
			}
			logger.Debug("Cover directory scanned", "dir", resolver.Dir(), "files", resolver.Len())

			var rows [][]string
			total, found := 0, 0
			for _, k := range kinds {
				for _, a := range resolver.ResolveAll(parsed.Catalog.Entities(k)) {
					total++
					if a.Resolved() {
						found++
						if missingOnly {
							continue
						}
					}
					file := filepath.Base(a.Path)
					if !a.Resolved() {
						file = "-"
					}
					rows = append(rows, []string{
						k.String(), a.Entity.Name, strconv.Itoa(a.Entity.Count), a.Strategy.String(), file,
					})
				}
			}

			out := cmd.OutOrStdout()
			headers := []string{"Kind", "Name", "Count", "Match", "File"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns, isTerminal(out)))
			logger.Info(fmt.Sprintf("Resolved %d of %d covers", found, total))
			return nil
		},
	}

	d := config.DefaultSettings()
	cmd.Flags().StringVarP(&indexPath, "index", "i", d.IndexPath, "index file")
	cmd.Flags().StringVar(&coversDir, "covers", d.CoversDir, "cover image directory")
	cmd.Flags().StringVarP(&kind, "kind", "k", d.Kind, "entity kind: album, artist, all")
	cmd.Flags().BoolVar(&missingOnly, "missing-only", false, "list only entities without a cover")

	return cmd
}
