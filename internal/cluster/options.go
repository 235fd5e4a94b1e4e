package cluster

import (
	"github.com/handiism/covercluster/internal/compose"
	cerrors "github.com/handiism/covercluster/internal/errors"
	ioutils "github.com/handiism/covercluster/internal/io"
	"github.com/handiism/covercluster/internal/layout"
	"github.com/handiism/covercluster/internal/model"
)

// Options is the complete configuration of a rendering run. Nothing is read
// from the environment; callers build Options explicitly, usually through
// config.Settings.ToRenderOptions.
type Options struct {
	// Canvas is the output size and background.
	Canvas model.Canvas

	// Scaler bounds the side length of each cover.
	Scaler layout.Scaler

	// Align positions the packed rows on the canvas.
	Align layout.Align

	// Compose configures the missing-cover policy and output encoding.
	Compose compose.Options

	// Resample names the interpolation kernel used to stretch covers.
	Resample string
}

// DefaultOptions returns the standard rendering settings:
// a 1920x1080 canvas on (20,20,20) with covers between 50 and 300 pixels.
func DefaultOptions() Options {
	return Options{
		Canvas: model.Canvas{Width: 1920, Height: 1080, Background: model.DefaultBackground},
		Scaler: layout.Scaler{MinPx: 50, MaxPx: 300},
		Align:  layout.AlignLeft,
		Compose: compose.Options{
			Missing:     compose.MissingSkip,
			Placeholder: model.DefaultPlaceholder,
			JPEGQuality: ioutils.DefaultJPEGQuality,
		},
		Resample: "catmullrom",
	}
}

// Validate checks the canvas and the scale bounds.
//
// Returns INVALID_CANVAS for a non-positive canvas and INVALID_CONFIG for
// bad scale bounds or JPEG quality.
func (o Options) Validate() error {
	if !o.Canvas.Valid() {
		return cerrors.New(cerrors.ErrCodeInvalidCanvas, "canvas must be positive, got %dx%d", o.Canvas.Width, o.Canvas.Height)
	}
	if err := o.Scaler.Validate(); err != nil {
		return err
	}
	if q := o.Compose.JPEGQuality; q < 0 || q > 100 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "jpeg_quality must be within 0-100, got %d", q)
	}
	return nil
}
