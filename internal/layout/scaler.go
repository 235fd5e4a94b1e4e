package layout

import (
	"math"

	cerrors "github.com/handiism/covercluster/internal/errors"
	"github.com/handiism/covercluster/internal/model"
)

// ScaleDimension maps count to a pixel size between minPx and maxPx.
//
// The mapping is linear over [minCount, maxCount], clamped to
// [minPx, maxPx] and rounded to the nearest integer. When every entity has
// the same count (minCount == maxCount) the integer midpoint
// (minPx+maxPx)/2 is returned.
//
// Example:
//
//	ScaleDimension(1, 1, 5, 20, 80) // 20
//	ScaleDimension(3, 1, 5, 20, 80) // 50
//	ScaleDimension(5, 1, 5, 20, 80) // 80
//	ScaleDimension(7, 7, 7, 50, 300) // 175
func ScaleDimension(count, minCount, maxCount, minPx, maxPx int) int {
	if maxCount == minCount {
		return (minPx + maxPx) / 2
	}

	ratio := float64(count-minCount) / float64(maxCount-minCount)
	size := float64(minPx) + ratio*float64(maxPx-minPx)
	size = math.Max(float64(minPx), math.Min(float64(maxPx), size))

	return int(math.Round(size))
}

// Range is the observed span of counts in an entity set.
type Range struct {
	Min int
	Max int
}

// CountRange returns the smallest and largest count among entities.
// ok is false when entities is empty.
func CountRange(entities []model.Entity) (r Range, ok bool) {
	for i, e := range entities {
		if i == 0 {
			r = Range{Min: e.Count, Max: e.Count}
			continue
		}
		r.Min = min(r.Min, e.Count)
		r.Max = max(r.Max, e.Count)
	}
	return r, len(entities) > 0
}

// Scaler bundles the pixel bounds of one rendering run.
type Scaler struct {
	MinPx int
	MaxPx int
}

// Validate reports INVALID_CONFIG when the bounds are not positive or are
// inverted.
func (s Scaler) Validate() error {
	if s.MinPx <= 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "min_px must be positive, got %d", s.MinPx)
	}
	if s.MaxPx < s.MinPx {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "max_px (%d) must not be below min_px (%d)", s.MaxPx, s.MinPx)
	}
	return nil
}

// Size returns the side length for count within r.
func (s Scaler) Size(count int, r Range) int {
	return ScaleDimension(count, r.Min, r.Max, s.MinPx, s.MaxPx)
}

// Items sizes every entity as a square. r is usually the CountRange of the
// full entity set of the kind, which may be wider than entities itself.
func (s Scaler) Items(entities []model.Entity, r Range) []Item {
	items := make([]Item, len(entities))
	for i, e := range entities {
		side := s.Size(e.Count, r)
		items[i] = Item{Entity: e, Width: side, Height: side}
	}
	return items
}
