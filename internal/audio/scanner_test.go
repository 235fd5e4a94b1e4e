package audio

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	"github.com/handiism/covercluster/internal/index"
	"github.com/handiism/covercluster/internal/model"
)

func TestScanner_Scan(t *testing.T) {
	lib := t.TempDir()
	cover := pngBytes(t, 32, 32)

	writeMP3(t, filepath.Join(lib, "a", "01.mp3"), "The Beatles", "Abbey Road", cover)
	writeMP3(t, filepath.Join(lib, "a", "02.mp3"), "The Beatles", "Abbey Road", nil)
	writeMP3(t, filepath.Join(lib, "b", "03.MP3"), "The Beatles", "Revolver", nil)
	writeMP3(t, filepath.Join(lib, "b", "04.mp3"), "Nirvana", "Nevermind", cover)
	writeFile(t, filepath.Join(lib, "noise.mp3"), []byte("no tag at all"))
	writeFile(t, filepath.Join(lib, "readme.txt"), []byte("ignored"))

	coversDir := filepath.Join(t.TempDir(), "covers")
	scanner := NewScanner(ScanConfig{
		MaxConcurrent: 2,
		ExtractCovers: true,
		CoversDir:     coversDir,
		CoverMaxSize:  16,
	}, nil)

	res, err := scanner.Scan(context.Background(), lib)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if res.Files != 5 || res.Untagged != 1 || res.Catalog.TotalSongs != 4 {
		t.Errorf("Files = %d, Untagged = %d, TotalSongs = %d; want 5, 1, 4",
			res.Files, res.Untagged, res.Catalog.TotalSongs)
	}

	wantAlbums := []model.Entity{
		{Name: "Abbey Road", Kind: model.KindAlbum, Count: 2, Order: 0},
		{Name: "Nevermind", Kind: model.KindAlbum, Count: 1, Order: 1},
		{Name: "Revolver", Kind: model.KindAlbum, Count: 1, Order: 2},
	}
	wantArtists := []model.Entity{
		{Name: "The Beatles", Kind: model.KindArtist, Count: 3, Order: 0},
		{Name: "Nirvana", Kind: model.KindArtist, Count: 1, Order: 1},
	}
	assertEntities(t, res.Catalog.Albums, wantAlbums)
	assertEntities(t, res.Catalog.Artists, wantArtists)

	if res.CoversSaved != 4 {
		t.Errorf("CoversSaved = %d, want 4", res.CoversSaved)
	}
	for _, name := range []string{"Abbey_Road.jpg", "Nevermind.jpg", "The_Beatles.jpg", "Nirvana.jpg"} {
		data, err := os.ReadFile(filepath.Join(coversDir, name))
		if err != nil {
			t.Errorf("cover %s: %v", name, err)
			continue
		}
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			t.Errorf("cover %s is not a JPEG: %v", name, err)
			continue
		}
		if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
			t.Errorf("cover %s is %dx%d, want 16x16", name, b.Dx(), b.Dy())
		}
	}
	if _, err := os.Stat(filepath.Join(coversDir, "Revolver.jpg")); !os.IsNotExist(err) {
		t.Error("Revolver has no embedded art but a cover was written")
	}

	if done, total := scanner.GetProgress(); done != 5 || total != 5 {
		t.Errorf("GetProgress() = %d/%d, want 5/5", done, total)
	}

	// The catalog survives the trip through the index file format.
	indexPath := filepath.Join(t.TempDir(), "index.txt")
	if err := index.NewWriter(true, false).WriteFile(context.Background(), indexPath, res.Catalog); err != nil {
		t.Fatalf("write index: %v", err)
	}
	parsed, err := index.ParseFile(indexPath)
	if err != nil {
		t.Fatalf("parse index: %v", err)
	}
	assertEntities(t, parsed.Catalog.Albums, wantAlbums)
	assertEntities(t, parsed.Catalog.Artists, wantArtists)
	if parsed.Catalog.TotalSongs != 4 {
		t.Errorf("parsed TotalSongs = %d, want 4", parsed.Catalog.TotalSongs)
	}
}

func TestScanner_KeepsExistingCovers(t *testing.T) {
	lib := t.TempDir()
	writeMP3(t, filepath.Join(lib, "01.mp3"), "Nirvana", "Nevermind", pngBytes(t, 8, 8))

	coversDir := t.TempDir()
	writeFile(t, filepath.Join(coversDir, "Nevermind.jpg"), []byte("curated"))

	res, err := NewScanner(ScanConfig{ExtractCovers: true, CoversDir: coversDir}, nil).Scan(context.Background(), lib)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if res.CoversSaved != 1 {
		t.Errorf("CoversSaved = %d, want 1 (artist only)", res.CoversSaved)
	}
	if got, _ := os.ReadFile(filepath.Join(coversDir, "Nevermind.jpg")); string(got) != "curated" {
		t.Error("existing cover was replaced")
	}
}

func TestScanner_ReadTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01.mp3")
	writeMP3(t, path, "Nirvana", "Nevermind", pngBytes(t, 8, 8))

	tests := []struct {
		name      string
		extract   bool
		wantCover bool
	}{
		{"tags only", false, false},
		{"with covers", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(ScanConfig{ExtractCovers: tt.extract}, nil)
			got, err := s.readTags(path)
			if err != nil {
				t.Fatalf("readTags() error = %v", err)
			}
			if got.artist != "Nirvana" || got.album != "Nevermind" {
				t.Errorf("readTags() = (%q, %q), want (Nirvana, Nevermind)", got.artist, got.album)
			}
			if (len(got.cover) > 0) != tt.wantCover {
				t.Errorf("cover present = %v, want %v", len(got.cover) > 0, tt.wantCover)
			}
		})
	}
}

func TestScanner_MissingRoot(t *testing.T) {
	_, err := NewScanner(ScanConfig{}, nil).Scan(context.Background(), filepath.Join(t.TempDir(), "none"))
	if err == nil {
		t.Fatal("Scan() error = nil, want error for missing root")
	}
}

func writeMP3(t *testing.T, path, artist, album string, cover []byte) {
	t.Helper()
	tag := id3v2.NewEmptyTag()
	tag.SetArtist(artist)
	tag.SetAlbum(album)
	if cover != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/png",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	buf.Write(make([]byte, 128)) // stand-in for audio frames
	writeFile(t, path, buf.Bytes())
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func assertEntities(t *testing.T, got, want []model.Entity) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entity %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
