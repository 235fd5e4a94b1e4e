// Package index reads and writes the weighted catalog file that drives a
// cluster render.
//
// # File Format
//
// The index has an album section and an artist section, each a list of
// "<name>: <count>" lines, optionally followed by a total:
//
//	Album Index:
//	  Abbey Road: 12 songs
//	  Best Of: 1999: 4 songs
//
//	Artist Index:
//	  The Beatles: 12 songs
//
//	Total songs: 16
//
// Names may contain ": "; a line is split at the last colon before the
// trailing count.
//
// # Encodings
//
// Index files come from different machines and editors. Decode tries UTF-8,
// then Windows-1252, then Latin-1, and reports which one succeeded:
//
//	res, err := index.ParseFile("index.txt")
//	if err != nil {
//	    return err // FILE_NOT_FOUND or DECODE_FAILURE
//	}
//	fmt.Println(res.Catalog.Encoding, len(res.Catalog.Albums))
//
// # Malformed Lines
//
// Lines that do not parse are skipped and collected in Result.Issues; they
// never abort the parse.
//
// # Writing
//
// Writer produces the same format, which is how the scan tool hands its
// counts to the renderer:
//
//	err := index.NewWriter(true, true).WriteFile(ctx, "index.txt", catalog)
package index
