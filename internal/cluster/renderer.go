package cluster

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/handiism/covercluster/internal/assets"
	"github.com/handiism/covercluster/internal/compose"
	cerrors "github.com/handiism/covercluster/internal/errors"
	"github.com/handiism/covercluster/internal/index"
	ioutils "github.com/handiism/covercluster/internal/io"
	"github.com/handiism/covercluster/internal/layout"
	"github.com/handiism/covercluster/internal/model"
)

// Request names the inputs and the output of one run.
type Request struct {
	// RunID tags the run in events and results. Empty means a new UUID.
	RunID string

	// IndexPath is the weighted index file.
	IndexPath string

	// CoversDir is the flat directory of cover images.
	CoversDir string

	// OutputPath receives the image. The extension selects PNG or JPEG.
	OutputPath string

	// Kind selects which index section is rendered.
	Kind model.Kind
}

// Plan is a fully resolved and laid out run that has not been painted yet.
type Plan struct {
	Kind       model.Kind
	Assets     []model.Asset
	Layout     layout.Layout
	Placements []model.Placement

	// Range is the count range of the whole kind, which the scaler used.
	Range layout.Range

	Diagnostics Diagnostics
}

// Result describes a finished run.
type Result struct {
	RunID       string
	Kind        model.Kind
	OutputPath  string
	Encoding    string
	Placements  []model.Placement
	Diagnostics Diagnostics
	Duration    time.Duration
}

// Renderer runs the index to image pipeline:
//
//  1. parse the index file
//  2. resolve a cover for each entity of the requested kind
//  3. size each entity by its count and pack the squares onto the canvas
//  4. paint the covers and write the output atomically
//
// Anomalies along the way are collected in Diagnostics and reported as
// warning events; only the conditions in package errors stop a run.
//
// Example:
//
//	r := cluster.NewRenderer(cluster.DefaultOptions(), func(e model.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//	res, err := r.Render(ctx, cluster.Request{
//	    IndexPath:  "index.txt",
//	    CoversDir:  "covers",
//	    OutputPath: "cluster.png",
//	    Kind:       model.KindAlbum,
//	})
type Renderer struct {
	opts       Options
	images     *ioutils.ImageService
	onProgress func(model.ProgressEvent)

	totalCovers int32
	drawnCovers int32
}

// NewRenderer creates a Renderer. onProgress may be nil.
func NewRenderer(opts Options, onProgress func(model.ProgressEvent)) *Renderer {
	return &Renderer{
		opts:       opts,
		images:     ioutils.NewImageService(opts.Resample),
		onProgress: onProgress,
	}
}

// Render parses req.IndexPath and renders the requested kind.
func (r *Renderer) Render(ctx context.Context, req Request) (*Result, error) {
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}

	r.progress(model.LevelVerbose, "Parsing index %s", req.IndexPath)
	parsed, err := index.ParseFile(req.IndexPath)
	if err != nil {
		return nil, err
	}
	r.progress(model.LevelInfo, "Read %d albums and %d artists (%s)",
		len(parsed.Catalog.Albums), len(parsed.Catalog.Artists), parsed.Catalog.Encoding)
	for _, issue := range parsed.Issues {
		r.progress(model.LevelWarning, "Index line %d skipped: %s: %q", issue.Line, issue.Reason, issue.Text)
	}

	res, err := r.RenderCatalog(ctx, parsed.Catalog, req)
	if err != nil {
		return nil, err
	}
	res.Diagnostics.Malformed = parsed.Issues
	return res, nil
}

// RenderCatalog renders an already parsed catalog. req.IndexPath is ignored.
func (r *Renderer) RenderCatalog(ctx context.Context, catalog *model.Catalog, req Request) (*Result, error) {
	start := time.Now()
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	plan, err := r.Plan(ctx, catalog, req.Kind, req.CoversDir)
	if err != nil {
		return nil, err
	}

	atomic.StoreInt32(&r.totalCovers, int32(len(plan.Placements)))
	atomic.StoreInt32(&r.drawnCovers, 0)

	copts := r.opts.Compose
	copts.OnDraw = func(p model.Placement, loaded bool) {
		atomic.AddInt32(&r.drawnCovers, 1)
		if loaded {
			r.progress(model.LevelVerbose, "Painted %s at %v", p.Rect.Entity.Name, p.Rect.Bounds())
		}
	}
	compositor := compose.New(r.images, copts)

	img, failures, err := compositor.Compose(ctx, r.opts.Canvas, plan.Placements)
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		r.progress(model.LevelWarning, "Cover for %q could not be loaded: %v", f.Entity.Name, f.Err)
	}
	plan.Diagnostics.LoadFailures = failures

	if err := compositor.Write(ctx, img, req.OutputPath); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:       runID,
		Kind:        req.Kind,
		OutputPath:  req.OutputPath,
		Encoding:    catalog.Encoding,
		Placements:  plan.Placements,
		Diagnostics: plan.Diagnostics,
		Duration:    time.Since(start),
	}
	r.progress(model.LevelSuccess, "Wrote %s with %d %s covers", req.OutputPath, len(plan.Placements), req.Kind)
	return res, nil
}

// Plan resolves and lays out the entities of kind without painting.
//
// The scaler range is taken from every entity of the kind, so a cover keeps
// its size whether or not other covers are missing. With the skip policy
// unresolved entities are left out of the layout; with the placeholder
// policy they are laid out like any other entity.
//
// Returns EMPTY_CATALOG when the kind has no entities and NOTHING_TO_RENDER
// when no rectangle could be placed.
func (r *Renderer) Plan(ctx context.Context, catalog *model.Catalog, kind model.Kind, coversDir string) (*Plan, error) {
	entities := catalog.Entities(kind)
	rng, ok := layout.CountRange(entities)
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeEmptyCatalog, "index has no %s entities", kind)
	}

	resolver, err := assets.NewResolver(coversDir)
	if err != nil {
		return nil, fmt.Errorf("index covers in %s: %w", coversDir, err)
	}
	if resolver.Len() == 0 {
		r.progress(model.LevelWarning, "Cover directory %s is missing or empty", coversDir)
	}

	plan := &Plan{Kind: kind, Range: rng}
	paths := make(map[string]string, len(entities))
	var laid []model.Entity

	for _, e := range entities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a := resolver.Resolve(e)
		plan.Assets = append(plan.Assets, a)

		if !a.Resolved() {
			plan.Diagnostics.Unresolved = append(plan.Diagnostics.Unresolved, e)
			r.progress(model.LevelWarning, "No cover for %s %q", kind, e.Name)
			if r.opts.Compose.Missing == compose.MissingSkip {
				continue
			}
		} else if a.Strategy != model.StrategyExact {
			r.progress(model.LevelVerbose, "Cover for %q found by %s match: %s", e.Name, a.Strategy, a.Path)
		}

		paths[e.Name] = a.Path
		laid = append(laid, e)
	}

	plan.Layout = layout.Shelf(r.opts.Scaler.Items(laid, rng), r.opts.Canvas, layout.Options{Align: r.opts.Align})
	for _, it := range plan.Layout.Dropped {
		plan.Diagnostics.Dropped = append(plan.Diagnostics.Dropped, it.Entity)
		r.progress(model.LevelWarning, "No room for %q (%dx%d)", it.Entity.Name, it.Width, it.Height)
	}

	if len(plan.Layout.Rects) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeNothingToRender,
			"none of %d %s entities could be placed on a %dx%d canvas",
			len(entities), kind, r.opts.Canvas.Width, r.opts.Canvas.Height)
	}

	plan.Placements = make([]model.Placement, len(plan.Layout.Rects))
	for i, rect := range plan.Layout.Rects {
		plan.Placements[i] = model.Placement{Rect: rect, Path: paths[rect.Entity.Name]}
	}

	r.progress(model.LevelInfo, "Placed %d of %d %s covers", len(plan.Placements), len(entities), kind)
	return plan, nil
}

// Progress returns how many covers have been painted out of the current
// run's total.
func (r *Renderer) Progress() (drawn, total int32) {
	return atomic.LoadInt32(&r.drawnCovers), atomic.LoadInt32(&r.totalCovers)
}

func (r *Renderer) progress(level model.ProgressLevel, format string, args ...any) {
	if r.onProgress != nil {
		r.onProgress(model.ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}
