package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/covercluster/internal/audio"
	"github.com/handiism/covercluster/internal/config"
	"github.com/handiism/covercluster/internal/index"
)

func newScanCmd(g *globalFlags) *cobra.Command {
	var (
		indexPath   string
		coversDir   string
		concurrency int
		noCovers    bool
		overwrite   bool
		sortByName  bool
	)

	cmd := &cobra.Command{
		Use:   "scan <library>",
		Short: "Build an index from a tagged MP3 library",
		Long: `Scan reads the ID3 tags of every .mp3 file under the library directory,
counts songs per album and per artist and writes the index file render reads.
Embedded front covers are saved into the cover directory unless --no-covers
is given.`,
		Example: `  covercluster scan ~/Music --index index.txt --covers covers
  covercluster scan ~/Music --no-covers --sort-by-name`,
		Args: cobra.ExactArgs(1),
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

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			maxSize := 0
			if settings.CoverResize {
				maxSize = settings.CoverMaxSize
			}
			scanner := audio.NewScanner(audio.ScanConfig{
				MaxConcurrent: concurrency,
				ExtractCovers: !noCovers,
				CoversDir:     settings.CoversDir,
				CoverMaxSize:  maxSize,
				Overwrite:     overwrite,
			}, eventLogger(logger))

			res, err := scanner.Scan(ctx, args[0])
			if err != nil {
				return err
			}
			if res.Untagged > 0 {
				logger.Warn("Files without usable tags", "count", res.Untagged)
			}

			if err := index.NewWriter(true, sortByName).WriteFile(ctx, settings.IndexPath, res.Catalog); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Wrote %s: %d albums, %d artists, %d songs, %d covers saved",
				settings.IndexPath, len(res.Catalog.Albums), len(res.Catalog.Artists), res.Catalog.TotalSongs, res.CoversSaved))
			return nil
		},
	}

	d := config.DefaultSettings()
	cmd.Flags().StringVarP(&indexPath, "index", "i", d.IndexPath, "index file to write")
	cmd.Flags().StringVar(&coversDir, "covers", d.CoversDir, "directory for extracted covers")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 8, "files parsed in parallel")
	cmd.Flags().BoolVar(&noCovers, "no-covers", false, "do not extract embedded covers")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace covers that already exist")
	cmd.Flags().BoolVar(&sortByName, "sort-by-name", false, "sort index sections by name instead of song count")

	return cmd
}
