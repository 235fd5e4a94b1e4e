// Package ioutils provides file system utilities for covercluster.
//
// This package contains functions for:
//   - Cover name sanitization (the name-to-file mapping of the asset directory)
//   - Atomic file writing
//   - Directory creation
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// CoverExt is the extension of cover files in the asset directory.
const CoverExt = ".jpg"

// Sanitize maps an entity name to the stem of its cover file.
//
// Every rune outside [A-Za-z0-9] is replaced with a single underscore. The
// mapping is lossy and many names collide on the same result, so it can only
// be used forwards. It is idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
//
// Example:
//
//	Sanitize("AC/DC: Live")  // Returns "AC_DC__Live"
//	Sanitize("Albumé")       // Returns "Album_"
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// SanitizeUnicode is the older cover naming scheme that keeps any Unicode
// letter or number and replaces everything else with an underscore. Covers
// saved by earlier crawls use it, so the resolver tries it as a fallback.
//
// Example:
//
//	SanitizeUnicode("Albumé: Live") // Returns "Albumé__Live"
func SanitizeUnicode(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r != unicode.ReplacementChar && (unicode.IsLetter(r) || unicode.IsNumber(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// CoverFileName returns the cover file name for an entity name.
//
// Example:
//
//	CoverFileName("Abbey Road") // Returns "Abbey_Road.jpg"
func CoverFileName(name string) string {
	return Sanitize(name) + CoverExt
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// WriteFile writes data to path atomically.
//
// See WriteAtomic for the guarantees.
//
// Example:
//
//	err := WriteFile(ctx, "/data/index.txt", []byte("Album Index:\n"))
func WriteFile(ctx context.Context, path string, data []byte) error {
	return WriteAtomic(ctx, path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteAtomic streams content produced by write into path.
//
// The content goes to a temporary file in the destination directory which is
// renamed over path only after write returned nil and the file was flushed.
// On any failure the temporary file is removed and path is left untouched, so
// a reader never observes a partially written file.
//
// Parameters:
//   - ctx: Checked before the rename; a cancelled context aborts the write
//   - path: Final destination (its directory must exist)
//   - write: Callback producing the content
func WriteAtomic(ctx context.Context, path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
