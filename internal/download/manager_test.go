package download

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	cerrors "github.com/handiism/covercluster/internal/errors"
)

func TestParseManifest(t *testing.T) {
	input := "# covers\n" +
		"Abbey Road\thttps://img.example/abbey.jpg\r\n" +
		"\n" +
		"no tab here\n" +
		"\thttps://img.example/anon.jpg\n" +
		"Bad URL\tftp://img.example/x.jpg\n" +
		"  Albumé: Live \t http://img.example/live.png \n"

	covers, issues, err := ParseManifest(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	want := []Cover{
		{Name: "Abbey Road", URL: "https://img.example/abbey.jpg"},
		{Name: "Albumé: Live", URL: "http://img.example/live.png"},
	}
	if len(covers) != len(want) {
		t.Fatalf("covers = %+v, want %+v", covers, want)
	}
	for i := range want {
		if covers[i] != want[i] {
			t.Errorf("cover %d = %+v, want %+v", i, covers[i], want[i])
		}
	}

	var lines []int
	for _, is := range issues {
		lines = append(lines, is.Line)
	}
	if len(lines) != 3 || lines[0] != 4 || lines[1] != 5 || lines[2] != 6 {
		t.Errorf("issue lines = %v, want [4 5 6]", lines)
	}
}

func TestReadManifestFile_NotFound(t *testing.T) {
	_, _, err := ReadManifestFile(filepath.Join(t.TempDir(), "none.tsv"))
	if !cerrors.Is(err, cerrors.ErrCodeFileNotFound) {
		t.Fatalf("ReadManifestFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestManager_Fetch(t *testing.T) {
	cover := pngBytes(t, 40, 20)
	var flakyHits, missingHits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Write(cover)
		case "/flaky.png":
			if atomic.AddInt32(&flakyHits, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write(cover)
		case "/text":
			w.Write([]byte("<html>not an image</html>"))
		default:
			atomic.AddInt32(&missingHits, 1)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Existing.jpg"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.CoversDir = dir
	opts.RetryCooldown = 0
	opts.MaxSize = 10

	m := NewManager(opts, nil)
	summary, err := m.Fetch(context.Background(), []Cover{
		{Name: "Abbey Road", URL: srv.URL + "/ok.png"},
		{Name: "Flaky", URL: srv.URL + "/flaky.png"},
		{Name: "Missing", URL: srv.URL + "/missing.png"},
		{Name: "Text", URL: srv.URL + "/text"},
		{Name: "Existing", URL: srv.URL + "/ok.png"},
		{Name: "Abbey-Road", URL: srv.URL + "/ok.png"},
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if got := names(summary.Downloaded); !sameSet(got, "Abbey Road", "Flaky") {
		t.Errorf("Downloaded = %v", got)
	}
	if got := names(summary.Skipped); !sameSet(got, "Existing", "Abbey-Road") {
		t.Errorf("Skipped = %v", got)
	}
	var failed []Cover
	for _, f := range summary.Failed {
		failed = append(failed, f.Cover)
	}
	if got := names(failed); !sameSet(got, "Missing", "Text") {
		t.Errorf("Failed = %v", got)
	}

	if n := atomic.LoadInt32(&missingHits); n != 1 {
		t.Errorf("404 requested %d times, want 1 (no retry)", n)
	}
	if done, total := m.GetProgress(); done != 6 || total != 6 {
		t.Errorf("GetProgress() = %d/%d, want 6/6", done, total)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Abbey_Road.jpg"))
	if err != nil {
		t.Fatalf("read saved cover: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("saved cover is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
		t.Errorf("saved cover is %dx%d, want 10x5", b.Dx(), b.Dy())
	}

	if kept, _ := os.ReadFile(filepath.Join(dir, "Existing.jpg")); string(kept) != "keep" {
		t.Error("existing cover was overwritten")
	}
}

func TestManager_FetchAllFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	opts := DefaultOptions()
	opts.CoversDir = t.TempDir()

	_, err := NewManager(opts, nil).Fetch(context.Background(), []Cover{{Name: "A", URL: srv.URL + "/a.jpg"}})
	if !cerrors.Is(err, cerrors.ErrCodeNetwork) {
		t.Fatalf("Fetch() error = %v, want NETWORK_ERROR", err)
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

func names(covers []Cover) []string {
	out := make([]string, len(covers))
	for i, c := range covers {
		out[i] = c.Name
	}
	return out
}

func sameSet(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	set := map[string]bool{}
	for _, g := range got {
		set[g] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
