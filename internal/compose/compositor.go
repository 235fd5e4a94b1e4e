package compose

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"golang.org/x/image/draw"

	cerrors "github.com/handiism/covercluster/internal/errors"
	ioutils "github.com/handiism/covercluster/internal/io"
	"github.com/handiism/covercluster/internal/model"
)

// MissingPolicy decides what happens to a rectangle whose cover is absent or
// cannot be decoded.
type MissingPolicy int

const (
	// MissingSkip leaves the background visible.
	MissingSkip MissingPolicy = iota

	// MissingPlaceholder fills the rectangle with Options.Placeholder.
	MissingPlaceholder
)

// String returns the name used in settings files.
func (p MissingPolicy) String() string {
	if p == MissingPlaceholder {
		return "placeholder"
	}
	return "skip"
}

// ParseMissingPolicy converts "skip" or "placeholder" to a MissingPolicy.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return MissingSkip, nil
	case "placeholder":
		return MissingPlaceholder, nil
	default:
		return MissingSkip, cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown missing policy %q (want skip or placeholder)", s)
	}
}

// Options configures a Compositor.
type Options struct {
	// Missing selects the policy for absent or broken covers.
	Missing MissingPolicy

	// Placeholder is the fill color used with MissingPlaceholder.
	Placeholder color.RGBA

	// JPEGQuality applies when the output path ends in .jpg or .jpeg.
	// Zero means ioutils.DefaultJPEGQuality.
	JPEGQuality int

	// OnDraw, if set, is called after each placement has been handled.
	// loaded is false when the cover was missing or failed to decode.
	OnDraw func(p model.Placement, loaded bool)
}

// LoadFailure records a cover that was resolved but could not be decoded.
type LoadFailure struct {
	Entity model.Entity
	Path   string
	Err    error
}

// Error implements the error interface so a failure can be logged directly.
func (f LoadFailure) Error() string {
	return fmt.Sprintf("load cover for %q from %s: %v", f.Entity.Name, f.Path, f.Err)
}

// Compositor paints covers onto a canvas and writes the result.
//
// Example:
//
//	c := compose.New(ioutils.NewImageService("catmullrom"), compose.Options{})
//	img, failures, err := c.Compose(ctx, canvas, placements)
//	if err != nil {
//	    return err
//	}
//	err = c.Write(ctx, img, "cluster.png")
type Compositor struct {
	images *ioutils.ImageService
	opts   Options
}

// New creates a Compositor that loads and scales covers with images.
func New(images *ioutils.ImageService, opts Options) *Compositor {
	return &Compositor{images: images, opts: opts}
}

// Compose allocates the canvas, fills it with the background color and
// stretches each placement's cover into its rectangle, in order.
//
// Placements without a path and covers that fail to load are skipped or
// drawn as placeholders according to Options.Missing. Load failures are
// returned alongside the image and never abort the run.
//
// Returns INVALID_CANVAS for a non-positive canvas size and ctx.Err() if the
// context is cancelled between placements.
func (c *Compositor) Compose(ctx context.Context, canvas model.Canvas, placements []model.Placement) (*image.RGBA, []LoadFailure, error) {
	if !canvas.Valid() {
		return nil, nil, cerrors.New(cerrors.ErrCodeInvalidCanvas, "canvas must be positive, got %dx%d", canvas.Width, canvas.Height)
	}

	dst := image.NewRGBA(canvas.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(canvas.Background), image.Point{}, draw.Src)

	var failures []LoadFailure
	for _, p := range placements {
		if err := ctx.Err(); err != nil {
			return nil, failures, err
		}

		r := p.Rect.Bounds()
		loaded := false
		if p.Path != "" {
			img, err := c.images.Load(ctx, p.Path)
			if err != nil {
				failures = append(failures, LoadFailure{Entity: p.Rect.Entity, Path: p.Path, Err: err})
			} else {
				c.images.DrawStretched(dst, r, img)
				loaded = true
			}
		}

		if !loaded && c.opts.Missing == MissingPlaceholder {
			draw.Draw(dst, r, image.NewUniform(c.opts.Placeholder), image.Point{}, draw.Src)
		}

		if c.opts.OnDraw != nil {
			c.opts.OnDraw(p, loaded)
		}
	}

	return dst, failures, nil
}

// Write encodes img by the extension of path and replaces path atomically.
//
// The image is encoded into a temporary file next to path, which is renamed
// over path only once encoding succeeded. On any failure the temporary file
// is removed and no file exists at path unless one was there before, in which
// case it is left untouched. Failures are reported as WRITE_FAILURE.
func (c *Compositor) Write(ctx context.Context, img image.Image, path string) error {
	format, err := ioutils.FormatForPath(path)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeWriteFailure, err, "write %s", path)
	}

	err = ioutils.WriteAtomic(ctx, path, func(w io.Writer) error {
		return c.images.Encode(w, img, format, c.opts.JPEGQuality)
	})
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeWriteFailure, err, "write %s", path)
	}
	return nil
}
