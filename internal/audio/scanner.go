package audio

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bogem/id3v2"
	"golang.org/x/sync/errgroup"

	ioutils "github.com/handiism/covercluster/internal/io"
	"github.com/handiism/covercluster/internal/model"
)

// ScanConfig controls what a Scanner reads and writes.
//
// Example:
//
//	cfg := ScanConfig{
//	    MaxConcurrent: 8,
//	    ExtractCovers: true,
//	    CoversDir:     "covers",
//	    CoverMaxSize:  640,
//	}
type ScanConfig struct {
	// MaxConcurrent limits how many files are parsed at once.
	MaxConcurrent int

	// ExtractCovers saves the first embedded front cover of every album,
	// and of every artist, into CoversDir.
	ExtractCovers bool

	// CoversDir receives <Sanitize(name)>.jpg files.
	CoversDir string

	// CoverMaxSize bounds both sides of saved covers. Zero keeps the
	// original size.
	CoverMaxSize int

	// Overwrite replaces covers that already exist in CoversDir.
	Overwrite bool
}

// ScanResult is what a library scan produced.
type ScanResult struct {
	// Catalog holds one entity per album and per artist, sorted by
	// descending track count and then by name.
	Catalog *model.Catalog

	// Files is the number of .mp3 files visited.
	Files int

	// Untagged counts files without a readable tag.
	Untagged int

	// CoversSaved counts cover files written.
	CoversSaved int
}

// Scanner builds an index from a local MP3 library.
//
// Scanner uses the id3v2 library to read:
//   - Artist (TPE1) and Album (TALB) to count tracks per entity
//   - Attached pictures (APIC) to extract cover art
//
// Example:
//
//	scanner := NewScanner(ScanConfig{ExtractCovers: true, CoversDir: "covers"}, nil)
//	res, err := scanner.Scan(ctx, "/music")
//	if err != nil {
//	    return err
//	}
//	err = index.NewWriter(true, false).WriteFile(ctx, "index.txt", res.Catalog)
type Scanner struct {
	config       ScanConfig
	imageService *ioutils.ImageService
	onProgress   func(model.ProgressEvent)

	totalFiles   int32
	scannedFiles int32
}

// NewScanner creates a new Scanner. onProgress may be nil and may be called
// from several goroutines at once.
func NewScanner(config ScanConfig, onProgress func(model.ProgressEvent)) *Scanner {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	return &Scanner{
		config:       config,
		imageService: ioutils.NewImageService("catmullrom"),
		onProgress:   onProgress,
	}
}

// trackTags is what one file contributes.
type trackTags struct {
	artist string
	album  string
	cover  []byte
}

// Scan walks root, reads the tag of every .mp3 file and counts tracks per
// album and per artist.
func (s *Scanner) Scan(ctx context.Context, root string) (*ScanResult, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".mp3") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	atomic.StoreInt32(&s.totalFiles, int32(len(files)))
	atomic.StoreInt32(&s.scannedFiles, 0)
	s.progress(model.LevelInfo, "Found %d MP3 files under %s", len(files), root)

	tags := make([]*trackTags, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrent)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := s.readTags(path)
			atomic.AddInt32(&s.scannedFiles, 1)
			if err != nil {
				s.progress(model.LevelWarning, "Error reading tags of %s: %v", path, err)
				return nil // Continue with other files
			}
			tags[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &ScanResult{Files: len(files)}
	albums := newTally()
	artists := newTally()
	for _, t := range tags {
		if t == nil || (t.album == "" && t.artist == "") {
			res.Untagged++
			continue
		}
		albums.add(t.album, t.cover)
		artists.add(t.artist, t.cover)
	}

	res.Catalog = &model.Catalog{
		Albums:     albums.entities(model.KindAlbum),
		Artists:    artists.entities(model.KindArtist),
		TotalSongs: len(files) - res.Untagged,
	}

	if s.config.ExtractCovers {
		saved, err := s.saveCovers(ctx, albums, artists)
		if err != nil {
			return nil, err
		}
		res.CoversSaved = saved
	}

	s.progress(model.LevelSuccess, "Scanned %d files: %d albums, %d artists",
		res.Files, len(res.Catalog.Albums), len(res.Catalog.Artists))
	return res, nil
}

// GetProgress returns how many files have been parsed out of the total.
func (s *Scanner) GetProgress() (scanned, total int32) {
	return atomic.LoadInt32(&s.scannedFiles), atomic.LoadInt32(&s.totalFiles)
}

func (s *Scanner) readTags(path string) (*trackTags, error) {
	frames := []string{"Artist", "Album/Movie/Show title"}
	if s.config.ExtractCovers {
		frames = append(frames, "Attached picture")
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: frames})
	if err != nil {
		return nil, err
	}
	defer tag.Close()

	t := &trackTags{
		artist: strings.TrimSpace(tag.Artist()),
		album:  strings.TrimSpace(tag.Album()),
	}
	if s.config.ExtractCovers {
		t.cover = frontCover(tag)
	}
	return t, nil
}

// frontCover returns the front cover picture, or the first picture of any
// type when no front cover is tagged.
func frontCover(tag *id3v2.Tag) []byte {
	var first []byte
	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if pic.PictureType == id3v2.PTFrontCover {
			return pic.Picture
		}
		if first == nil {
			first = pic.Picture
		}
	}
	return first
}

func (s *Scanner) saveCovers(ctx context.Context, tallies ...*tally) (int, error) {
	if err := ioutils.EnsureDir(s.config.CoversDir); err != nil {
		return 0, err
	}

	var (
		saved int
		mu    sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrent)

	written := make(map[string]bool)
	for _, t := range tallies {
		for _, name := range t.order {
			art := t.covers[name]
			file := ioutils.CoverFileName(name)
			if art == nil || written[file] {
				continue
			}
			written[file] = true

			g.Go(func() error {
				ok, err := s.saveCover(gctx, name, filepath.Join(s.config.CoversDir, file), art)
				if err != nil {
					s.progress(model.LevelWarning, "Error saving cover for %s: %v", name, err)
					return nil
				}
				if ok {
					mu.Lock()
					saved++
					mu.Unlock()
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return saved, err
	}
	return saved, ctx.Err()
}

func (s *Scanner) saveCover(ctx context.Context, name, dest string, art []byte) (bool, error) {
	if !s.config.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			s.progress(model.LevelVerbose, "Skipping existing cover: %s", filepath.Base(dest))
			return false, nil
		}
	}

	var err error
	if s.config.CoverMaxSize > 0 {
		art, err = s.imageService.ResizeImage(ctx, art, s.config.CoverMaxSize, s.config.CoverMaxSize)
	} else {
		art, err = s.imageService.ConvertToJPEG(ctx, art)
	}
	if err != nil {
		return false, fmt.Errorf("embedded picture: %w", err)
	}

	if err := ioutils.WriteFile(ctx, dest, art); err != nil {
		return false, err
	}
	s.progress(model.LevelVerbose, "Saved cover for %s", name)
	return true, nil
}

func (s *Scanner) progress(level model.ProgressLevel, format string, args ...any) {
	if s.onProgress != nil {
		s.onProgress(model.ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}

// tally counts tracks per name and keeps the first cover seen for each.
type tally struct {
	counts map[string]int
	covers map[string][]byte
	order  []string
}

func newTally() *tally {
	return &tally{counts: map[string]int{}, covers: map[string][]byte{}}
}

func (t *tally) add(name string, cover []byte) {
	if name == "" {
		return
	}
	if _, ok := t.counts[name]; !ok {
		t.order = append(t.order, name)
	}
	t.counts[name]++
	if t.covers[name] == nil && cover != nil {
		t.covers[name] = cover
	}
}

func (t *tally) entities(kind model.Kind) []model.Entity {
	names := make([]string, len(t.order))
	copy(names, t.order)
	sort.SliceStable(names, func(i, j int) bool {
		if t.counts[names[i]] != t.counts[names[j]] {
			return t.counts[names[i]] > t.counts[names[j]]
		}
		return names[i] < names[j]
	})

	out := make([]model.Entity, len(names))
	for i, name := range names {
		out[i] = model.Entity{Name: name, Kind: kind, Count: t.counts[name], Order: i}
	}
	return out
}
