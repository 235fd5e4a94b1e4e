package index

import (
	"os"
	"path/filepath"
	"testing"

	cerrors "github.com/handiism/covercluster/internal/errors"
	"github.com/handiism/covercluster/internal/model"
)

func TestParse_RoundTripNamesAndOrder(t *testing.T) {
	res, err := Parse([]byte("Album Index:\n  Albumé: 3\n  Beta: 10\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []model.Entity{
		{Name: "Albumé", Kind: model.KindAlbum, Count: 3, Order: 0},
		{Name: "Beta", Kind: model.KindAlbum, Count: 10, Order: 1},
	}
	assertEntities(t, res.Catalog.Albums, want)
	if len(res.Issues) != 0 {
		t.Errorf("unexpected issues: %+v", res.Issues)
	}
}

func TestParse_CP1252Fallback(t *testing.T) {
	data := []byte("Album Index:\r\n  Caf\xE9 del Mar: 4 songs\r\n  Na\xEFve \x96 Live: 2 songs\r\n")

	res, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Catalog.Encoding != EncodingCP1252 {
		t.Errorf("Encoding = %q, want %q", res.Catalog.Encoding, EncodingCP1252)
	}
	assertEntities(t, res.Catalog.Albums, []model.Entity{
		{Name: "Café del Mar", Kind: model.KindAlbum, Count: 4, Order: 0},
		{Name: "Naïve – Live", Kind: model.KindAlbum, Count: 2, Order: 1},
	})
}

func TestParse_Sections(t *testing.T) {
	data := []byte(`preamble that is ignored: 7

Album Index:
  Abbey Road: 12 songs
  Best Of: 1999: 4 songs

Artist Index:
  The Beatles: 15 songs
  Prince: 1 song

Total songs: 16
Trailing: 99
`)

	res, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	assertEntities(t, res.Catalog.Albums, []model.Entity{
		{Name: "Abbey Road", Kind: model.KindAlbum, Count: 12, Order: 0},
		{Name: "Best Of: 1999", Kind: model.KindAlbum, Count: 4, Order: 1},
	})
	assertEntities(t, res.Catalog.Artists, []model.Entity{
		{Name: "The Beatles", Kind: model.KindArtist, Count: 15, Order: 0},
		{Name: "Prince", Kind: model.KindArtist, Count: 1, Order: 1},
	})
	if res.Catalog.TotalSongs != 16 {
		t.Errorf("TotalSongs = %d, want 16", res.Catalog.TotalSongs)
	}
}

func TestParse_MalformedLinesAreSkipped(t *testing.T) {
	data := []byte("Album Index:\n  Good: 2\n  no count here\n  Bad: many\n  Huge: 99999999999999999999999\n  Also Good: 5\n")

	res, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	assertEntities(t, res.Catalog.Albums, []model.Entity{
		{Name: "Good", Kind: model.KindAlbum, Count: 2, Order: 0},
		{Name: "Also Good", Kind: model.KindAlbum, Count: 5, Order: 1},
	})

	wantIssues := []LineIssue{
		{Line: 3, Text: "no count here", Reason: ReasonMalformed},
		{Line: 4, Text: "Bad: many", Reason: ReasonMalformed},
		{Line: 5, Text: "Huge: 99999999999999999999999", Reason: ReasonCountRange},
	}
	if len(res.Issues) != len(wantIssues) {
		t.Fatalf("issues = %+v, want %+v", res.Issues, wantIssues)
	}
	for i, want := range wantIssues {
		if res.Issues[i] != want {
			t.Errorf("issue %d = %+v, want %+v", i, res.Issues[i], want)
		}
	}
}

func TestParse_IndentedTotalSongsIsAnEntity(t *testing.T) {
	data := []byte("Album Index:\n  Total songs: 4 songs\n  Later Album: 9 songs\n\nTotal songs: 13\n")

	res, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	assertEntities(t, res.Catalog.Albums, []model.Entity{
		{Name: "Total songs", Kind: model.KindAlbum, Count: 4, Order: 0},
		{Name: "Later Album", Kind: model.KindAlbum, Count: 9, Order: 1},
	})
	if res.Catalog.TotalSongs != 13 {
		t.Errorf("TotalSongs = %d, want 13", res.Catalog.TotalSongs)
	}
	if len(res.Issues) != 0 {
		t.Errorf("Issues = %+v, want none", res.Issues)
	}
}

func TestParse_DuplicateKeepsFirstPosition(t *testing.T) {
	res, err := Parse([]byte("Album Index:\n  A: 1\n  B: 2\n  A: 9\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	assertEntities(t, res.Catalog.Albums, []model.Entity{
		{Name: "A", Kind: model.KindAlbum, Count: 9, Order: 0},
		{Name: "B", Kind: model.KindAlbum, Count: 2, Order: 1},
	})
	if len(res.Issues) != 1 || res.Issues[0].Reason != ReasonDuplicate {
		t.Errorf("issues = %+v, want one duplicate", res.Issues)
	}
}

func TestParse_SameNameInBothSections(t *testing.T) {
	res, err := Parse([]byte("Album Index:\n  Weezer: 3\nArtist Index:\n  Weezer: 8\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(res.Catalog.Albums) != 1 || len(res.Catalog.Artists) != 1 {
		t.Fatalf("albums = %v, artists = %v", res.Catalog.Albums, res.Catalog.Artists)
	}
	if len(res.Issues) != 0 {
		t.Errorf("a name shared across kinds is not a duplicate: %+v", res.Issues)
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	if !cerrors.Is(err, cerrors.ErrCodeFileNotFound) {
		t.Fatalf("ParseFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestParseFile_ReadsWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.txt")
	if err := os.WriteFile(path, []byte("Artist Index:\n  X: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(res.Catalog.Artists) != 1 || res.Catalog.Artists[0].Name != "X" {
		t.Errorf("artists = %+v", res.Catalog.Artists)
	}
}

func assertEntities(t *testing.T, got, want []model.Entity) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entities %+v, want %d %+v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entity %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
