package model

import (
	"fmt"
	"strings"
)

// Kind identifies which index section an entity was read from.
type Kind int

const (
	// KindAlbum marks entities listed under the "Album Index" header.
	KindAlbum Kind = iota

	// KindArtist marks entities listed under the "Artist Index" header.
	KindArtist
)

// String returns the lowercase kind name used in flags and file names.
func (k Kind) String() string {
	switch k {
	case KindAlbum:
		return "album"
	case KindArtist:
		return "artist"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Header returns the literal section marker that introduces this kind in an
// index file, without the trailing colon.
//
// Returns:
//   - "Album Index" for KindAlbum
//   - "Artist Index" for KindArtist
func (k Kind) Header() string {
	switch k {
	case KindArtist:
		return "Artist Index"
	default:
		return "Album Index"
	}
}

// ParseKind converts a user supplied kind name to a Kind.
//
// Both singular and plural forms are accepted, case-insensitively:
//
//	ParseKind("albums") // KindAlbum
//	ParseKind("Artist") // KindArtist
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "album", "albums":
		return KindAlbum, nil
	case "artist", "artists":
		return KindArtist, nil
	default:
		return KindAlbum, fmt.Errorf("unknown entity kind %q (want album or artist)", s)
	}
}

// Entity is one weighted record extracted from the index.
//
// Entity carries everything the pipeline needs downstream:
//   - Name for asset resolution
//   - Count as the weight that drives the on-canvas size
//   - Order for deterministic tie-breaking between equal counts
//
// Example:
//
//	e := Entity{Name: "Abbey Road", Kind: KindAlbum, Count: 12, Order: 0}
type Entity struct {
	// Name is the album or artist name exactly as it appears in the index.
	Name string

	// Kind is the section the entity was listed under.
	Kind Kind

	// Count is the non-negative weight (number of songs).
	Count int

	// Order is the zero-based position of the entity within its section.
	Order int
}

// String returns "name (count)" for log and diagnostic output.
func (e Entity) String() string {
	return fmt.Sprintf("%s (%d)", e.Name, e.Count)
}

// Catalog holds both entity sections of one index file.
//
// A Catalog is built once by the index parser and is not modified afterwards.
type Catalog struct {
	// Albums in file order.
	Albums []Entity

	// Artists in file order.
	Artists []Entity

	// TotalSongs is the value of the "Total songs:" trailer, or 0 if absent.
	TotalSongs int

	// Encoding names the charset the index was decoded with.
	Encoding string
}

// Entities returns the entities of the given kind.
func (c *Catalog) Entities(kind Kind) []Entity {
	if c == nil {
		return nil
	}
	if kind == KindArtist {
		return c.Artists
	}
	return c.Albums
}

// Len returns the number of entities across both sections.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Albums) + len(c.Artists)
}

// Strategy records which resolution step located an asset.
type Strategy int

const (
	// StrategyNone means no file matched.
	StrategyNone Strategy = iota

	// StrategyExact matched the sanitized name directly.
	StrategyExact

	// StrategyNormalized matched after NFC/NFD normalization.
	StrategyNormalized

	// StrategyFolded matched by a case-insensitive directory scan.
	StrategyFolded
)

// String returns the strategy name used in tables and logs.
func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyNormalized:
		return "normalized"
	case StrategyFolded:
		return "folded"
	default:
		return "none"
	}
}

// Asset is an entity paired with the cover image found for it.
//
// Path is empty when no file matched after every strategy was tried.
type Asset struct {
	Entity   Entity
	Path     string
	Strategy Strategy
}

// Resolved reports whether a cover file was found.
func (a Asset) Resolved() bool {
	return a.Path != ""
}
