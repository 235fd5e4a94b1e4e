// Package audio reads a local MP3 library and turns it into the inputs of a
// cluster render: an index of track counts and a directory of covers.
//
// # Scanning
//
// Use the Scanner to read ID3 tags:
//
//	scanner := audio.NewScanner(audio.ScanConfig{
//	    ExtractCovers: true,
//	    CoversDir:     "covers",
//	}, nil)
//	res, err := scanner.Scan(ctx, "/music")
//
// The scanner counts:
//   - tracks per album (TALB)
//   - tracks per artist (TPE1)
//
// and, with ExtractCovers, saves the first embedded front cover (APIC) of
// each album and artist as <sanitized name>.jpg. Covers that already exist
// are left alone unless Overwrite is set.
//
// # Writing the Index
//
// The resulting catalog is written with the index package:
//
//	err = index.NewWriter(true, false).WriteFile(ctx, "index.txt", res.Catalog)
package audio
