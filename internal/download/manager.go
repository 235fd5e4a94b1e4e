package download

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	cerrors "github.com/handiism/covercluster/internal/errors"
	"github.com/handiism/covercluster/internal/http"
	ioutils "github.com/handiism/covercluster/internal/io"
	"github.com/handiism/covercluster/internal/model"
)

// Options configures a Manager.
type Options struct {
	// CoversDir receives one <Sanitize(name)>.jpg per cover.
	CoversDir string

	// MaxConcurrent limits parallel downloads.
	MaxConcurrent int

	// MaxRetries is the number of attempts per cover.
	MaxRetries int

	// RetryCooldown is the first wait between attempts, in seconds. Each
	// further wait is multiplied by RetryExponent.
	RetryCooldown float64
	RetryExponent float64

	// Resize shrinks covers larger than MaxSize on either side.
	Resize  bool
	MaxSize int

	// Overwrite downloads covers that already exist.
	Overwrite bool

	UserAgent string
	Timeout   time.Duration
}

// DefaultOptions returns four parallel downloads with seven attempts each.
func DefaultOptions() Options {
	return Options{
		CoversDir:     "covers",
		MaxConcurrent: 4,
		MaxRetries:    7,
		RetryCooldown: 0.2,
		RetryExponent: 4.0,
		Resize:        true,
		MaxSize:       640,
		Timeout:       60 * time.Second,
	}
}

// Failure records a cover that could not be fetched.
type Failure struct {
	Cover Cover
	Err   error
}

// Summary is the outcome of a Fetch.
type Summary struct {
	Downloaded []Cover
	Skipped    []Cover
	Failed     []Failure
}

// Manager downloads cover art into the asset directory.
//
// Each cover is saved as JPEG under the name the resolver looks up first,
// ioutils.CoverFileName(name), so fetched covers resolve by exact match.
type Manager struct {
	opts         Options
	httpClient   *http.Client
	imageService *ioutils.ImageService

	totalFiles      int32
	downloadedFiles int32

	onProgress func(model.ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new download Manager. onProgress may be called from
// several goroutines at once.
func NewManager(opts Options, onProgress func(model.ProgressEvent)) *Manager {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	return &Manager{
		opts:         opts,
		httpClient:   http.NewClient(opts.UserAgent, opts.Timeout),
		imageService: ioutils.NewImageService("catmullrom"),
		onProgress:   onProgress,
	}
}

// Fetch downloads every cover concurrently.
//
// Individual failures are collected in the Summary and do not stop other
// downloads. Fetch returns NETWORK_ERROR only when every attempted download
// failed, and ctx.Err() when cancelled.
func (m *Manager) Fetch(ctx context.Context, covers []Cover) (*Summary, error) {
	if err := ioutils.EnsureDir(m.opts.CoversDir); err != nil {
		return nil, err
	}

	summary := &Summary{}
	atomic.StoreInt32(&m.totalFiles, int32(len(covers)))
	atomic.StoreInt32(&m.downloadedFiles, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.MaxConcurrent)

	seen := make(map[string]string, len(covers))
	for _, cover := range covers {
		fileName := ioutils.CoverFileName(cover.Name)
		if prev, dup := seen[fileName]; dup {
			m.progress(model.LevelWarning, "Skipping %q: same cover file %s as %q", cover.Name, fileName, prev)
			m.record(summary, func(s *Summary) { s.Skipped = append(s.Skipped, cover) })
			atomic.AddInt32(&m.downloadedFiles, 1)
			continue
		}
		seen[fileName] = cover.Name

		dest := filepath.Join(m.opts.CoversDir, fileName)
		g.Go(func() error {
			skipped, err := m.fetchCover(gctx, cover, dest)
			atomic.AddInt32(&m.downloadedFiles, 1)
			switch {
			case err != nil:
				m.progress(model.LevelError, "Error downloading %s: %v", cover.Name, err)
				m.record(summary, func(s *Summary) { s.Failed = append(s.Failed, Failure{Cover: cover, Err: err}) })
			case skipped:
				m.record(summary, func(s *Summary) { s.Skipped = append(s.Skipped, cover) })
			default:
				m.record(summary, func(s *Summary) { s.Downloaded = append(s.Downloaded, cover) })
			}
			return nil // Continue with other covers
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if len(summary.Failed) > 0 && len(summary.Downloaded) == 0 {
		return summary, cerrors.Wrap(cerrors.ErrCodeNetwork, summary.Failed[0].Err, "all %d downloads failed", len(summary.Failed))
	}

	m.progress(model.LevelSuccess, "Fetched %d covers (%d skipped, %d failed)",
		len(summary.Downloaded), len(summary.Skipped), len(summary.Failed))
	return summary, nil
}

// GetProgress returns how many covers have been handled out of the total.
func (m *Manager) GetProgress() (filesDone, filesTotal int32) {
	return atomic.LoadInt32(&m.downloadedFiles), atomic.LoadInt32(&m.totalFiles)
}

func (m *Manager) fetchCover(ctx context.Context, cover Cover, dest string) (skipped bool, err error) {
	if !m.opts.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			m.progress(model.LevelVerbose, "Skipping existing: %s", filepath.Base(dest))
			return true, nil
		}
	}

	var artwork []byte
	for tries := 0; tries < m.opts.MaxRetries; tries++ {
		artwork, err = m.httpClient.Get(ctx, cover.URL)
		if err == nil || !retryable(err) || ctx.Err() != nil {
			break
		}
		if tries+1 < m.opts.MaxRetries {
			m.progress(model.LevelWarning, "Retry %d/%d for %s", tries+1, m.opts.MaxRetries, cover.Name)
			m.waitForRetry(ctx, tries)
		}
	}
	if err != nil {
		return false, err
	}

	if m.opts.Resize && m.opts.MaxSize > 0 {
		artwork, err = m.imageService.ResizeImage(ctx, artwork, m.opts.MaxSize, m.opts.MaxSize)
	} else {
		artwork, err = m.imageService.ConvertToJPEG(ctx, artwork)
	}
	if err != nil {
		return false, fmt.Errorf("not an image: %w", err)
	}

	if err := ioutils.WriteFile(ctx, dest, artwork); err != nil {
		return false, err
	}

	m.progress(model.LevelVerbose, "Downloaded: %s", filepath.Base(dest))
	return false, nil
}

// retryable reports whether another attempt may succeed. Client errors
// such as 404 are final.
func retryable(err error) bool {
	var se *http.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.opts.RetryCooldown * math.Pow(m.opts.RetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) record(s *Summary, update func(*Summary)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	update(s)
}

func (m *Manager) progress(level model.ProgressLevel, format string, args ...any) {
	if m.onProgress != nil {
		m.onProgress(model.ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}
