package layout

import (
	"sort"

	"github.com/handiism/covercluster/internal/model"
)

// Align controls where packed rows end up on the canvas.
type Align int

const (
	// AlignLeft leaves rows where packing put them: flush left, starting at
	// the top edge.
	AlignLeft Align = iota

	// AlignCenter centers every row horizontally and the block of rows
	// vertically.
	AlignCenter
)

// String returns the name used in settings files.
func (a Align) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "left"
}

// Item is one rectangle to place.
type Item struct {
	Entity model.Entity
	Width  int
	Height int
}

// Options tunes Shelf.
type Options struct {
	Align Align
}

// Layout is the result of packing.
type Layout struct {
	// Rects in placement order: descending count, ties by index order.
	Rects []model.Rect

	// Dropped lists items that could not be placed inside the canvas.
	Dropped []Item
}

// row tracks the rects of one shelf for alignment.
type row struct {
	first, last int // index range into Layout.Rects, last exclusive
	width       int
	height      int
}

// Shelf packs items onto the canvas row by row.
//
// Items are sorted by descending count, ties broken by Entity.Order, and
// placed left to right. When an item would cross the right edge a new row is
// started below the tallest item of the current one. Items that are wider or
// taller than the canvas, or that would cross the bottom edge, are dropped;
// later, smaller items are still tried.
//
// The input slice is not modified.
func Shelf(items []Item, canvas model.Canvas, opts Options) Layout {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Entity.Count != sorted[j].Entity.Count {
			return sorted[i].Entity.Count > sorted[j].Entity.Count
		}
		return sorted[i].Entity.Order < sorted[j].Entity.Order
	})

	var (
		out  Layout
		rows []row
		cur  row
		x, y int
	)

	for _, it := range sorted {
		if it.Width <= 0 || it.Height <= 0 || it.Width > canvas.Width || it.Height > canvas.Height {
			out.Dropped = append(out.Dropped, it)
			continue
		}

		if x+it.Width > canvas.Width {
			if cur.last > cur.first {
				rows = append(rows, cur)
			}
			y += cur.height
			x = 0
			cur = row{first: len(out.Rects), last: len(out.Rects)}
		}

		if y+it.Height > canvas.Height {
			out.Dropped = append(out.Dropped, it)
			continue
		}

		out.Rects = append(out.Rects, model.Rect{
			Entity: it.Entity,
			X:      x,
			Y:      y,
			Width:  it.Width,
			Height: it.Height,
		})
		x += it.Width
		cur.last = len(out.Rects)
		cur.width = x
		cur.height = max(cur.height, it.Height)
	}
	if cur.last > cur.first {
		rows = append(rows, cur)
	}

	if opts.Align == AlignCenter {
		center(out.Rects, rows, canvas)
	}

	return out
}

// center shifts each row right by half its free width and the whole block
// down by half the free height. Offsets are never negative, so rects stay
// inside the canvas and keep their relative order.
func center(rects []model.Rect, rows []row, canvas model.Canvas) {
	if len(rows) == 0 {
		return
	}
	last := rows[len(rows)-1]
	blockHeight := rects[last.first].Y + last.height
	dy := (canvas.Height - blockHeight) / 2

	for _, r := range rows {
		dx := (canvas.Width - r.width) / 2
		for i := r.first; i < r.last; i++ {
			rects[i].X += dx
			rects[i].Y += dy
		}
	}
}
