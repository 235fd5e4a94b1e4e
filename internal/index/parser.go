package index

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	cerrors "github.com/handiism/covercluster/internal/errors"
	"github.com/handiism/covercluster/internal/model"
)

// Reasons attached to a LineIssue.
const (
	ReasonMalformed  = "does not match <name>: <count>"
	ReasonCountRange = "count out of range"
	ReasonDuplicate  = "duplicate name, later count kept"
)

// totalPrefix starts the trailer line that closes the last section.
const totalPrefix = "Total songs:"

// entryPattern splits an entity line at the last colon followed by the
// trailing integer. The optional "songs" suffix is what the crawler writes.
var entryPattern = regexp.MustCompile(`^(.+):\s*(\d+)(?:\s*(?i:songs?))?$`)

// LineIssue describes an index line that was skipped or adjusted.
type LineIssue struct {
	// Line is the 1-based line number in the decoded text.
	Line int

	// Text is the trimmed line content.
	Text string

	// Reason explains why the line was skipped or adjusted.
	Reason string
}

// Result is the outcome of parsing one index file.
type Result struct {
	// Catalog holds the parsed entities of both sections in file order.
	Catalog *model.Catalog

	// Issues lists malformed and duplicate lines. They never abort a parse.
	Issues []LineIssue
}

// ParseFile reads and parses the index at path.
//
// Returns FILE_NOT_FOUND if path does not exist and DECODE_FAILURE if the
// content cannot be decoded.
func ParseFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "index file %s", path)
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes data and extracts the "Album Index" and "Artist Index"
// sections.
//
// Parsing rules:
//   - A line reading "Album Index" or "Artist Index" (colon optional) opens a section
//   - An unindented "Total songs: N" line closes the current section and records N
//   - Blank lines and lines outside any section are ignored
//   - Entity lines look like "<name>: <count>" with an optional "songs" suffix
//   - A line that does not match is skipped and reported as a LineIssue
//   - A repeated name keeps its first position and takes the later count
//
// Example:
//
//	res, err := Parse([]byte("Album Index:\n  Abbey Road: 12 songs\n\nTotal songs: 12\n"))
//	// res.Catalog.Albums[0] == {Name: "Abbey Road", Kind: KindAlbum, Count: 12}
func Parse(data []byte) (*Result, error) {
	text, encoding, err := Decode(data)
	if err != nil {
		return nil, err
	}

	p := &parser{
		catalog: &model.Catalog{Encoding: encoding},
		seen: map[model.Kind]map[string]int{
			model.KindAlbum:  {},
			model.KindArtist: {},
		},
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for i, raw := range strings.Split(text, "\n") {
		p.line(i+1, raw)
	}

	return &Result{Catalog: p.catalog, Issues: p.issues}, nil
}

type parser struct {
	catalog *model.Catalog
	issues  []LineIssue
	section *model.Kind
	seen    map[model.Kind]map[string]int
}

func (p *parser) line(n int, raw string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}

	if kind, ok := sectionHeader(text); ok {
		p.section = &kind
		return
	}

	if isTrailer(raw) {
		if total, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(text, totalPrefix))); err == nil {
			p.catalog.TotalSongs = total
		}
		p.section = nil
		return
	}

	if p.section == nil {
		return
	}

	m := entryPattern.FindStringSubmatch(text)
	if m == nil {
		p.issue(n, text, ReasonMalformed)
		return
	}
	name := strings.TrimSpace(m[1])
	count, err := strconv.Atoi(m[2])
	if err != nil {
		p.issue(n, text, ReasonCountRange)
		return
	}

	p.add(n, text, model.Entity{Name: name, Kind: *p.section, Count: count})
}

func (p *parser) add(n int, text string, e model.Entity) {
	list := &p.catalog.Albums
	if e.Kind == model.KindArtist {
		list = &p.catalog.Artists
	}

	if pos, dup := p.seen[e.Kind][e.Name]; dup {
		(*list)[pos].Count = e.Count
		p.issue(n, text, ReasonDuplicate)
		return
	}

	e.Order = len(*list)
	p.seen[e.Kind][e.Name] = e.Order
	*list = append(*list, e)
}

func (p *parser) issue(n int, text, reason string) {
	p.issues = append(p.issues, LineIssue{Line: n, Text: text, Reason: reason})
}

// isTrailer reports whether raw is the "Total songs:" line. Only an
// unindented line counts; an indented one is an entity named "Total songs".
func isTrailer(raw string) bool {
	return strings.HasPrefix(raw, totalPrefix)
}

// sectionHeader reports whether text is a section marker.
func sectionHeader(text string) (model.Kind, bool) {
	header := strings.TrimSpace(strings.TrimSuffix(text, ":"))
	for _, kind := range []model.Kind{model.KindAlbum, model.KindArtist} {
		if header == kind.Header() {
			return kind, true
		}
	}
	return 0, false
}
