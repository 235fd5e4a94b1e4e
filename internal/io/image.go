package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// Output formats understood by Encode.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 90

// ImageService provides image processing operations for cover art.
//
// ImageService is used to:
//   - Load covers from disk (JPEG, PNG, GIF or WebP)
//   - Stretch a cover into an exact rectangle of a larger canvas
//   - Resize and convert downloaded or extracted cover art before saving it
//   - Encode the finished canvas
//
// Example usage:
//
//	svc := NewImageService("catmullrom")
//
//	cover, _ := svc.Load(ctx, "covers/Abbey_Road.jpg")
//	svc.DrawStretched(canvas, image.Rect(0, 0, 300, 300), cover)
type ImageService struct {
	scaler draw.Scaler
}

// NewImageService creates a new ImageService using the named resampling
// kernel: "nearest", "bilinear", "approx-bilinear" or "catmullrom".
// Unknown or empty names select Catmull-Rom.
func NewImageService(resample string) *ImageService {
	return &ImageService{scaler: interpolator(resample)}
}

// Interpolators lists the accepted resampling kernel names.
var Interpolators = []string{"nearest", "approx-bilinear", "bilinear", "catmullrom"}

func interpolator(name string) draw.Scaler {
	switch strings.ToLower(name) {
	case "nearest":
		return draw.NearestNeighbor
	case "approx-bilinear":
		return draw.ApproxBiLinear
	case "bilinear":
		return draw.BiLinear
	default:
		return draw.CatmullRom
	}
}

// Load reads and decodes the image at path.
//
// Returns an error if the file cannot be opened or is not a decodable image.
func (s *ImageService) Load(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("decode %s: empty image", filepath.Base(path))
	}
	return img, nil
}

// DrawStretched scales src to exactly fill r on dst, ignoring the source
// aspect ratio. Pixels in r are replaced, transparency included.
func (s *ImageService) DrawStretched(dst draw.Image, r image.Rectangle, src image.Image) {
	s.scaler.Scale(dst, r, src, src.Bounds(), draw.Src, nil)
}

// Encode writes img to w in the given format.
//
// Parameters:
//   - format: FormatPNG or FormatJPEG
//   - quality: JPEG quality 1-100 (ignored for PNG, 0 means DefaultJPEGQuality)
func (s *ImageService) Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// FormatForPath picks the output format from a file extension.
//
// Returns:
//   - FormatPNG for ".png"
//   - FormatJPEG for ".jpg" and ".jpeg"
//   - an error for anything else
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported output extension %q (want .png, .jpg or .jpeg)", filepath.Ext(path))
	}
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. Images already smaller than the maximum are
// re-encoded without scaling. Returns the result as JPEG-encoded bytes.
//
// Example:
//
//	// A 1500x1000 image becomes 1000x667
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}
	width = max(width, 1)
	height = max(height, 1)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	s.scaler.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: DefaultJPEGQuality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ConvertToJPEG converts an image to JPEG format.
//
// Covers in the asset directory are always named *.jpg, so downloaded or
// extracted PNG/WebP art is converted before it is saved. JPEG input is
// re-encoded as well.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: DefaultJPEGQuality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
