// Package layout turns entity weights into pixel rectangles on a fixed canvas.
//
// Two steps are involved:
//
//   - Scaler maps a count to the side length of a square, linearly between
//     MinPx and MaxPx over the observed count range
//   - Shelf packs the squares into rows, heaviest first, and drops what does
//     not fit
//
// # Usage
//
//	scaler := layout.Scaler{MinPx: 50, MaxPx: 300}
//	rng, _ := layout.CountRange(catalog.Albums)
//	res := layout.Shelf(scaler.Items(catalog.Albums, rng), canvas, layout.Options{})
//	for _, r := range res.Rects {
//	    fmt.Println(r.Entity.Name, r.Bounds())
//	}
//
// Every rectangle Shelf returns lies inside the canvas and no two overlap.
// A heavier entity never gets a smaller square than a lighter one.
package layout
