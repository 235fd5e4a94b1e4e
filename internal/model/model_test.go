package model

import (
	"image/color"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"album", KindAlbum, false},
		{"Albums", KindAlbum, false},
		{" artist ", KindArtist, false},
		{"ARTISTS", KindArtist, false},
		{"track", KindAlbum, true},
		{"", KindAlbum, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKind_Header(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindAlbum, "Album Index"},
		{KindArtist, "Artist Index"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.Header(); got != tt.want {
				t.Errorf("Header() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalog_Entities(t *testing.T) {
	c := &Catalog{
		Albums:  []Entity{{Name: "A", Kind: KindAlbum, Count: 1}},
		Artists: []Entity{{Name: "X", Kind: KindArtist, Count: 2}, {Name: "Y", Kind: KindArtist, Count: 3, Order: 1}},
	}

	if got := len(c.Entities(KindAlbum)); got != 1 {
		t.Errorf("album entities = %d, want 1", got)
	}
	if got := len(c.Entities(KindArtist)); got != 2 {
		t.Errorf("artist entities = %d, want 2", got)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	var nilCatalog *Catalog
	if nilCatalog.Len() != 0 || nilCatalog.Entities(KindAlbum) != nil {
		t.Error("nil catalog should be empty")
	}
}

func TestRect_Overlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"same", Rect{X: 0, Y: 0, Width: 10, Height: 10}, true},
		{"inside", Rect{X: 2, Y: 2, Width: 3, Height: 3}, true},
		{"touching right edge", Rect{X: 10, Y: 0, Width: 5, Height: 5}, false},
		{"touching bottom edge", Rect{X: 0, Y: 10, Width: 5, Height: 5}, false},
		{"corner overlap", Rect{X: 9, Y: 9, Width: 5, Height: 5}, true},
		{"far away", Rect{X: 50, Y: 50, Width: 5, Height: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_Within(t *testing.T) {
	canvas := Canvas{Width: 100, Height: 50, Background: color.RGBA{A: 255}}

	if !(Rect{X: 90, Y: 40, Width: 10, Height: 10}).Within(canvas) {
		t.Error("rect touching the bottom-right corner should be within")
	}
	if (Rect{X: 91, Y: 40, Width: 10, Height: 10}).Within(canvas) {
		t.Error("rect past the right edge should not be within")
	}
	if (Rect{X: 0, Y: 0, Width: 0, Height: 10}).Within(canvas) {
		t.Error("zero-width rect should not be within")
	}
}

func TestAsset_Resolved(t *testing.T) {
	if (Asset{}).Resolved() {
		t.Error("empty asset should not be resolved")
	}
	a := Asset{Path: "covers/A.jpg", Strategy: StrategyExact}
	if !a.Resolved() {
		t.Error("asset with path should be resolved")
	}
	if a.Strategy.String() != "exact" {
		t.Errorf("Strategy.String() = %q, want exact", a.Strategy.String())
	}
}
