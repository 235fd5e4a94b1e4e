// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Mapping entity names to cover file names
//   - Atomic file writing
//   - Directory creation
//   - Cover decoding, stretching, resizing and encoding
//
// # Cover Names
//
// Covers in the asset directory are named by Sanitize, which replaces every
// character outside [A-Za-z0-9] with an underscore:
//
//	name := ioutils.CoverFileName("Abbey Road") // "Abbey_Road.jpg"
//
// SanitizeUnicode is the looser scheme older crawls used; it keeps accented
// letters.
//
// # Atomic Writes
//
// WriteAtomic streams to a temporary file next to the destination and renames
// it into place on success, so no partially written file is ever visible:
//
//	err := ioutils.WriteAtomic(ctx, "cluster.png", func(w io.Writer) error {
//	    return png.Encode(w, canvas)
//	})
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService("catmullrom")
//
//	cover, _ := svc.Load(ctx, "covers/Abbey_Road.jpg")
//	svc.DrawStretched(canvas, rect, cover)
//
//	// Resize downloaded art to fit within 500x500 and convert to JPEG
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
