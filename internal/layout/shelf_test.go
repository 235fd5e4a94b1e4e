package layout

import (
	"math/rand/v2"
	"testing"

	"github.com/handiism/covercluster/internal/model"
)

func TestShelf_HeavierEntityGetsLargerSquare(t *testing.T) {
	entities := []model.Entity{
		{Name: "A", Kind: model.KindAlbum, Count: 1, Order: 0},
		{Name: "B", Kind: model.KindAlbum, Count: 5, Order: 1},
	}
	canvas := model.Canvas{Width: 200, Height: 100}
	scaler := Scaler{MinPx: 20, MaxPx: 80}

	rng, _ := CountRange(entities)
	res := Shelf(scaler.Items(entities, rng), canvas, Options{})

	if len(res.Rects) != 2 || len(res.Dropped) != 0 {
		t.Fatalf("Shelf() = %+v, want two rects and nothing dropped", res)
	}
	byName := map[string]model.Rect{}
	for _, r := range res.Rects {
		byName[r.Entity.Name] = r
	}
	a, b := byName["A"], byName["B"]
	if b.Width <= a.Width || b.Height <= a.Height {
		t.Errorf("B = %dx%d, A = %dx%d, want B strictly larger", b.Width, b.Height, a.Width, a.Height)
	}
	if want := (model.Rect{Entity: entities[1], X: 0, Y: 0, Width: 80, Height: 80}); b != want {
		t.Errorf("B = %+v, want %+v", b, want)
	}
	if want := (model.Rect{Entity: entities[0], X: 80, Y: 0, Width: 20, Height: 20}); a != want {
		t.Errorf("A = %+v, want %+v", a, want)
	}
}

func TestShelf_IdenticalCountsKeepIndexOrder(t *testing.T) {
	var entities []model.Entity
	for i, name := range []string{"q", "w", "e", "r"} {
		entities = append(entities, model.Entity{Name: name, Count: 3, Order: i})
	}
	scaler := Scaler{MinPx: 20, MaxPx: 40}

	rng, _ := CountRange(entities)
	res := Shelf(scaler.Items(entities, rng), model.Canvas{Width: 60, Height: 60}, Options{})

	wantPos := [][2]int{{0, 0}, {30, 0}, {0, 30}, {30, 30}}
	if len(res.Rects) != len(wantPos) {
		t.Fatalf("got %d rects, want %d", len(res.Rects), len(wantPos))
	}
	for i, r := range res.Rects {
		if r.Entity.Order != i {
			t.Errorf("rect %d is %q, want index order", i, r.Entity.Name)
		}
		if r.Width != 30 || r.Height != 30 {
			t.Errorf("rect %d size = %dx%d, want midpoint 30x30", i, r.Width, r.Height)
		}
		if r.X != wantPos[i][0] || r.Y != wantPos[i][1] {
			t.Errorf("rect %d at (%d,%d), want (%d,%d)", i, r.X, r.Y, wantPos[i][0], wantPos[i][1])
		}
	}
}

func TestShelf_DropsWhatDoesNotFit(t *testing.T) {
	items := []Item{
		{Entity: model.Entity{Name: "huge", Count: 9, Order: 0}, Width: 120, Height: 120},
		{Entity: model.Entity{Name: "big", Count: 3, Order: 1}, Width: 60, Height: 60},
		{Entity: model.Entity{Name: "mid", Count: 2, Order: 2}, Width: 50, Height: 50},
		{Entity: model.Entity{Name: "small", Count: 1, Order: 3}, Width: 40, Height: 40},
	}
	canvas := model.Canvas{Width: 100, Height: 100}

	res := Shelf(items, canvas, Options{})

	wantRects := []struct {
		name string
		x, y int
	}{{"big", 0, 0}, {"small", 0, 60}}
	if len(res.Rects) != len(wantRects) {
		t.Fatalf("rects = %+v, want %v", res.Rects, wantRects)
	}
	for i, w := range wantRects {
		r := res.Rects[i]
		if r.Entity.Name != w.name || r.X != w.x || r.Y != w.y {
			t.Errorf("rect %d = %s at (%d,%d), want %s at (%d,%d)", i, r.Entity.Name, r.X, r.Y, w.name, w.x, w.y)
		}
	}

	var dropped []string
	for _, d := range res.Dropped {
		dropped = append(dropped, d.Entity.Name)
	}
	if len(dropped) != 2 || dropped[0] != "huge" || dropped[1] != "mid" {
		t.Errorf("dropped = %v, want [huge mid]", dropped)
	}
}

func TestShelf_DoesNotModifyInput(t *testing.T) {
	items := []Item{
		{Entity: model.Entity{Name: "light", Count: 1, Order: 0}, Width: 10, Height: 10},
		{Entity: model.Entity{Name: "heavy", Count: 2, Order: 1}, Width: 20, Height: 20},
	}
	Shelf(items, model.Canvas{Width: 50, Height: 50}, Options{})
	if items[0].Entity.Name != "light" {
		t.Error("Shelf() reordered its input")
	}
}

func TestShelf_AlignCenter(t *testing.T) {
	items := []Item{
		{Entity: model.Entity{Name: "A", Count: 2, Order: 0}, Width: 40, Height: 40},
		{Entity: model.Entity{Name: "B", Count: 1, Order: 1}, Width: 20, Height: 20},
	}
	res := Shelf(items, model.Canvas{Width: 100, Height: 100}, Options{Align: AlignCenter})

	want := [][2]int{{20, 30}, {60, 30}}
	for i, r := range res.Rects {
		if r.X != want[i][0] || r.Y != want[i][1] {
			t.Errorf("rect %s at (%d,%d), want (%d,%d)", r.Entity.Name, r.X, r.Y, want[i][0], want[i][1])
		}
	}
}

func TestShelf_NoOverlapAndContained(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 11))
	scaler := Scaler{MinPx: 8, MaxPx: 90}

	for run := 0; run < 50; run++ {
		n := 1 + rnd.IntN(80)
		entities := make([]model.Entity, n)
		for i := range entities {
			entities[i] = model.Entity{Name: string(rune('a' + i%26)), Count: rnd.IntN(40), Order: i}
		}
		canvas := model.Canvas{Width: 40 + rnd.IntN(400), Height: 40 + rnd.IntN(300)}
		align := Align(run % 2)

		rng, _ := CountRange(entities)
		res := Shelf(scaler.Items(entities, rng), canvas, Options{Align: align})

		if len(res.Rects)+len(res.Dropped) != n {
			t.Fatalf("run %d: %d placed + %d dropped != %d items", run, len(res.Rects), len(res.Dropped), n)
		}
		for i, a := range res.Rects {
			if !a.Within(canvas) {
				t.Fatalf("run %d: %+v not within %dx%d", run, a, canvas.Width, canvas.Height)
			}
			for _, b := range res.Rects[i+1:] {
				if a.Overlaps(b) {
					t.Fatalf("run %d (%s): %+v overlaps %+v", run, align, a, b)
				}
			}
		}
		for i := 1; i < len(res.Rects); i++ {
			prev, cur := res.Rects[i-1], res.Rects[i]
			if cur.Entity.Count > prev.Entity.Count {
				t.Fatalf("run %d: placement order not by descending count", run)
			}
			if cur.Width > prev.Width {
				t.Fatalf("run %d: lighter entity %v got a larger square than %v", run, cur.Entity, prev.Entity)
			}
		}
	}
}
