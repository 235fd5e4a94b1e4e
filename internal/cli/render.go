package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/covercluster/internal/cluster"
	"github.com/handiism/covercluster/internal/config"
	cerrors "github.com/handiism/covercluster/internal/errors"
	"github.com/handiism/covercluster/internal/index"
	ioutils "github.com/handiism/covercluster/internal/io"
	"github.com/handiism/covercluster/internal/model"
)

// renderFlags holds the command-line flags for the render command. Each one
// overrides the settings file only when given.
type renderFlags struct {
	index      string
	covers     string
	output     string
	kind       string
	width      int
	height     int
	minPx      int
	maxPx      int
	align      string
	missing    string
	background string
	dryRun     bool
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	flags := renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Paint the cover mosaic",
		Long: `Render reads the index, resolves a cover for every entity of the requested
kind and packs them onto the canvas, larger covers for higher song counts.

With --kind all the album and artist mosaics are rendered in parallel, each
into the output path with a -album or -artist suffix.`,
		Example: `  covercluster render --index index.txt --covers covers -o albums.png
  covercluster render --kind artist --missing placeholder --align center -o artists.jpg
  covercluster render --kind all --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := g.loadSettings()
			if err != nil {
				return err
			}
			flags.apply(cmd, settings)
			return runRender(cmd, settings, flags.dryRun)
		},
	}

	d := config.DefaultSettings()
	cmd.Flags().StringVarP(&flags.index, "index", "i", d.IndexPath, "index file")
	cmd.Flags().StringVar(&flags.covers, "covers", d.CoversDir, "cover image directory")
	cmd.Flags().StringVarP(&flags.output, "output", "o", d.OutputPath, "output image (.png, .jpg)")
	cmd.Flags().StringVarP(&flags.kind, "kind", "k", d.Kind, "entity kind: album, artist, all")
	cmd.Flags().IntVar(&flags.width, "width", d.CanvasWidth, "canvas width in pixels")
	cmd.Flags().IntVar(&flags.height, "height", d.CanvasHeight, "canvas height in pixels")
	cmd.Flags().IntVar(&flags.minPx, "min", d.MinPx, "smallest cover side in pixels")
	cmd.Flags().IntVar(&flags.maxPx, "max", d.MaxPx, "largest cover side in pixels")
	cmd.Flags().StringVar(&flags.align, "align", d.Align, "row alignment: left, center")
	cmd.Flags().StringVar(&flags.missing, "missing", d.Missing, "missing covers: skip, placeholder")
	cmd.Flags().StringVar(&flags.background, "background", d.Background, "background color (#rrggbb or r,g,b)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the layout without writing an image")

	return cmd
}

func (f renderFlags) apply(cmd *cobra.Command, s *config.Settings) {
	set := cmd.Flags().Changed
	if set("index") {
		s.IndexPath = f.index
	}
	if set("covers") {
		s.CoversDir = f.covers
	}
	if set("output") {
		s.OutputPath = f.output
	}
	if set("kind") {
		s.Kind = f.kind
	}
	if set("width") {
		s.CanvasWidth = f.width
	}
	if set("height") {
		s.CanvasHeight = f.height
	}
	if set("min") {
		s.MinPx = f.minPx
	}
	if set("max") {
		s.MaxPx = f.maxPx
	}
	if set("align") {
		s.Align = f.align
	}
	if set("missing") {
		s.Missing = f.missing
	}
	if set("background") {
		s.Background = f.background
	}
}

func runRender(cmd *cobra.Command, settings *config.Settings, dryRun bool) error {
	ctx := cmd.Context()

	if err := settings.Validate(); err != nil {
		return err
	}
	kinds, err := settings.Kinds()
	if err != nil {
		return err
	}
	opts, err := settings.ToRenderOptions()
	if err != nil {
		return err
	}

	runID, short := newRunID()
	logger := loggerFromContext(ctx).WithPrefix(short)
	prog := newProgress(logger)

	parsed, err := index.ParseFile(settings.IndexPath)
	if err != nil {
		return err
	}
	logger.Info("Index loaded", "path", settings.IndexPath, "albums", len(parsed.Catalog.Albums),
		"artists", len(parsed.Catalog.Artists), "encoding", parsed.Catalog.Encoding)
	for _, issue := range parsed.Issues {
		logger.Warn("Index line skipped", "line", issue.Line, "reason", issue.Reason, "text", issue.Text)
	}

	multi := len(kinds) > 1
	out := cmd.OutOrStdout()
	fancy := isTerminal(out)

	if dryRun {
		for _, kind := range kinds {
			r := cluster.NewRenderer(opts, eventLogger(logger.With("kind", kind.String())))
			plan, err := r.Plan(ctx, parsed.Catalog, kind, settings.CoversDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderPlan(plan, fancy))
		}
		prog.done("Planned " + settings.Kind)
		return nil
	}

	results := make([]*cluster.Result, len(kinds))
	grp, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		req := cluster.Request{
			RunID:      runID,
			IndexPath:  settings.IndexPath,
			CoversDir:  settings.CoversDir,
			OutputPath: outputPathFor(settings.OutputPath, kind, multi),
			Kind:       kind,
		}
		kl := logger.With("kind", kind.String())
		grp.Go(func() error {
			res, err := renderLocked(gctx, kl, opts, parsed.Catalog, req)
			if err != nil {
				return fmt.Errorf("%s: %w", kind, err)
			}
			res.Diagnostics.Malformed = parsed.Issues
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	fmt.Fprintln(out, renderDiagnostics(results, fancy))
	prog.done("Rendered " + settings.Kind)
	return nil
}

// renderLocked renders one kind while holding the lock on its output path.
func renderLocked(ctx context.Context, l *log.Logger, opts cluster.Options, catalog *model.Catalog, req cluster.Request) (*cluster.Result, error) {
	if err := ioutils.EnsureDir(filepath.Dir(req.OutputPath)); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeWriteFailure, err, "create output directory")
	}
	lock, err := lockOutput(req.OutputPath)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	return cluster.NewRenderer(opts, eventLogger(l)).RenderCatalog(ctx, catalog, req)
}

// lockOutput takes the advisory lock guarding path against concurrent runs.
func lockOutput(path string) (*flock.Flock, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeOutputLocked, "%s is being written by another run", path)
	}
	return lock, nil
}

// outputPathFor inserts the kind before the extension when several kinds
// are rendered: cluster.png becomes cluster-album.png.
func outputPathFor(path string, kind model.Kind, multi bool) string {
	if !multi {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + kind.String() + ext
}

func renderDiagnostics(results []*cluster.Result, fancy bool) string {
	headers := []string{"Kind", "Placed", "Missing", "Dropped", "Broken", "Bad lines", "Output"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		c := res.Diagnostics.Counts()
		rows = append(rows, []string{
			res.Kind.String(),
			strconv.Itoa(len(res.Placements)),
			strconv.Itoa(c.Unresolved),
			strconv.Itoa(c.Dropped),
			strconv.Itoa(c.LoadFailures),
			strconv.Itoa(c.Malformed),
			res.OutputPath,
		})
	}
	return renderTable(headers, rows, aligns, fancy)
}

func renderPlan(plan *cluster.Plan, fancy bool) string {
	headers := []string{"#", plan.Kind.String(), "Count", "Size", "X", "Y", "Cover"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(plan.Placements))
	for i, p := range plan.Placements {
		cover := filepath.Base(p.Path)
		if p.Path == "" {
			cover = "(placeholder)"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.Rect.Entity.Name,
			strconv.Itoa(p.Rect.Entity.Count),
			strconv.Itoa(p.Rect.Width),
			strconv.Itoa(p.Rect.X),
			strconv.Itoa(p.Rect.Y),
			cover,
		})
	}
	return renderTable(headers, rows, aligns, fancy)
}
