package index

import (
	"context"
	"fmt"
	"sort"
	"strings"

	ioutils "github.com/handiism/covercluster/internal/io"
	"github.com/handiism/covercluster/internal/model"
)

// Writer renders a Catalog in the index text format that Parse reads.
//
// The output looks like:
//
//	Album Index:
//	  Abbey Road: 12 songs
//	  Revolver: 3 songs
//
//	Artist Index:
//	  The Beatles: 15 songs
//
//	Total songs: 15
//
// Example:
//
//	w := NewWriter(true, true)
//	err := w.WriteFile(ctx, "index.txt", catalog)
type Writer struct {
	songSuffix bool // append " songs" after each count
	sortByName bool // sort entities by name instead of catalog order
}

// NewWriter creates a new Writer.
//
// Parameters:
//   - songSuffix: whether counts are followed by "songs", as the crawler writes them
//   - sortByName: whether each section is sorted by name instead of catalog order
func NewWriter(songSuffix, sortByName bool) *Writer {
	return &Writer{
		songSuffix: songSuffix,
		sortByName: sortByName,
	}
}

// Format returns the index text for a catalog. Sections without entities are
// omitted; the "Total songs" trailer is written when TotalSongs is positive.
func (w *Writer) Format(c *model.Catalog) string {
	var sb strings.Builder

	for _, kind := range []model.Kind{model.KindAlbum, model.KindArtist} {
		entities := c.Entities(kind)
		if len(entities) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(kind.Header() + ":\n")
		for _, e := range w.ordered(entities) {
			sb.WriteString(fmt.Sprintf("  %s: %d", flattenName(e.Name), e.Count))
			if w.songSuffix {
				sb.WriteString(" songs")
			}
			sb.WriteString("\n")
		}
	}

	if c.TotalSongs > 0 {
		sb.WriteString(fmt.Sprintf("\nTotal songs: %d\n", c.TotalSongs))
	}

	return sb.String()
}

// WriteFile formats the catalog and writes it atomically to path.
func (w *Writer) WriteFile(ctx context.Context, path string, c *model.Catalog) error {
	return ioutils.WriteFile(ctx, path, []byte(w.Format(c)))
}

func (w *Writer) ordered(entities []model.Entity) []model.Entity {
	if !w.sortByName {
		return entities
	}
	sorted := make([]model.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// flattenName keeps a name on one line so it survives a round trip.
func flattenName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
