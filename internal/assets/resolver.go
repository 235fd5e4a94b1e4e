package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	ioutils "github.com/handiism/covercluster/internal/io"
	"github.com/handiism/covercluster/internal/model"
)

// Resolver maps entities to files in a pre-indexed cover directory.
//
// A Resolver is read-only after construction and safe for concurrent use.
type Resolver struct {
	dir   string
	files map[string]struct{}

	// covers holds the .jpg/.jpeg file names in lexical order together with
	// their folded sanitized stems, for the last resolution step.
	covers []cover
}

type cover struct {
	name   string
	folded string
}

// NewResolver lists dir and returns a Resolver over its regular files.
// Symlinks count when they point at a regular file.
//
// A directory that does not exist yields an empty Resolver. Any other listing
// error is returned.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{
		dir:   dir,
		files: make(map[string]struct{}),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r, nil
		}
		return nil, err
	}

	fold := cases.Fold()
	// os.ReadDir returns entries sorted by file name.
	for _, e := range entries {
		name := e.Name()
		if !isRegular(dir, e) {
			continue
		}
		r.files[name] = struct{}{}

		ext := filepath.Ext(name)
		switch strings.ToLower(ext) {
		case ".jpg", ".jpeg":
			stem := strings.TrimSuffix(name, ext)
			r.covers = append(r.covers, cover{name: name, folded: fold.String(ioutils.Sanitize(stem))})
		}
	}

	return r, nil
}

// isRegular reports whether e is a regular file or a symlink to one.
func isRegular(dir string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}

// Dir returns the directory the resolver indexed.
func (r *Resolver) Dir() string {
	return r.dir
}

// Len returns the number of indexed files.
func (r *Resolver) Len() int {
	return len(r.files)
}

// Resolve finds the cover for e.
//
// The returned Asset has an empty Path and StrategyNone when nothing matched.
func (r *Resolver) Resolve(e model.Entity) model.Asset {
	if name, ok := r.exact(e.Name); ok {
		return r.asset(e, name, model.StrategyExact)
	}
	if name, ok := r.normalized(e.Name); ok {
		return r.asset(e, name, model.StrategyNormalized)
	}
	if name, ok := r.folded(e.Name); ok {
		return r.asset(e, name, model.StrategyFolded)
	}
	return model.Asset{Entity: e, Strategy: model.StrategyNone}
}

// ResolveAll resolves entities in order.
func (r *Resolver) ResolveAll(entities []model.Entity) []model.Asset {
	out := make([]model.Asset, len(entities))
	for i, e := range entities {
		out[i] = r.Resolve(e)
	}
	return out
}

func (r *Resolver) asset(e model.Entity, name string, s model.Strategy) model.Asset {
	return model.Asset{Entity: e, Path: filepath.Join(r.dir, name), Strategy: s}
}

func (r *Resolver) exact(name string) (string, bool) {
	return r.lookup(ioutils.Sanitize(name))
}

func (r *Resolver) normalized(name string) (string, bool) {
	nfc := norm.NFC.String(name)
	nfd := norm.NFD.String(name)

	for _, stem := range []string{
		ioutils.Sanitize(nfc),
		ioutils.Sanitize(nfd),
		ioutils.SanitizeUnicode(nfc),
		ioutils.SanitizeUnicode(nfd),
	} {
		if file, ok := r.lookup(stem); ok {
			return file, true
		}
	}
	return "", false
}

func (r *Resolver) folded(name string) (string, bool) {
	// A Caser is stateful; each call gets its own.
	want := cases.Fold().String(ioutils.Sanitize(name))
	for _, c := range r.covers {
		if c.folded == want {
			return c.name, true
		}
	}
	return "", false
}

func (r *Resolver) lookup(stem string) (string, bool) {
	file := stem + ioutils.CoverExt
	_, ok := r.files[file]
	return file, ok
}
