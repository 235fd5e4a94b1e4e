package model

import (
	"image"
	"image/color"
)

// Default colors of a rendering run.
var (
	DefaultBackground  = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	DefaultPlaceholder = color.RGBA{R: 48, G: 48, B: 48, A: 255}
)

// Canvas describes the fixed output surface of one rendering run.
//
// Example:
//
//	canvas := Canvas{
//	    Width:      1920,
//	    Height:     1080,
//	    Background: color.RGBA{R: 20, G: 20, B: 20, A: 255},
//	}
type Canvas struct {
	// Width in pixels. Must be positive.
	Width int

	// Height in pixels. Must be positive.
	Height int

	// Background fills every pixel not covered by an image.
	Background color.RGBA
}

// Bounds returns the canvas rectangle anchored at the origin.
func (c Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

// Valid reports whether both dimensions are positive.
func (c Canvas) Valid() bool {
	return c.Width > 0 && c.Height > 0
}

// Rect is the area assigned to one entity by the layout engine.
//
// All values are pixels. Width and Height are always positive and the
// rectangle lies fully inside the canvas it was laid out on.
type Rect struct {
	Entity Entity
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds returns the rectangle as an image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Overlaps reports whether r and o share any pixel. Touching edges do not
// overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Bounds().Overlaps(o.Bounds())
}

// Within reports whether r lies fully inside the canvas.
func (r Rect) Within(c Canvas) bool {
	return r.Width > 0 && r.Height > 0 && r.Bounds().In(c.Bounds())
}

// Placement is a laid out rectangle together with the cover to paint in it.
// Path is empty for unresolved entities rendered as placeholders.
type Placement struct {
	Rect Rect
	Path string
}
