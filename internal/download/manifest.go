package download

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"

	cerrors "github.com/handiism/covercluster/internal/errors"
)

// Cover is one manifest entry: an entity name and where its art lives.
type Cover struct {
	Name string
	URL  string
}

// ManifestIssue describes a manifest line that was skipped.
type ManifestIssue struct {
	Line   int
	Text   string
	Reason string
}

// ReadManifestFile opens path and parses it with ParseManifest.
func ReadManifestFile(path string) ([]Cover, []ManifestIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, nil, err
	}
	defer f.Close()
	return ParseManifest(f)
}

// ParseManifest reads a cover manifest.
//
// Each line holds a name and an http(s) URL separated by a tab. Blank lines
// and lines starting with '#' are ignored:
//
//	# name<TAB>url
//	Abbey Road	https://i.scdn.co/image/ab67616d0000b273dc30583ba717007b00cceb25
//
// Lines without a tab, with an empty name or with an invalid URL are
// returned as issues.
func ParseManifest(r io.Reader) ([]Cover, []ManifestIssue, error) {
	var (
		covers []Cover
		issues []ManifestIssue
	)

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		name, rawURL, ok := strings.Cut(line, "\t")
		name = strings.TrimSpace(name)
		rawURL = strings.TrimSpace(rawURL)
		if !ok || name == "" {
			issues = append(issues, ManifestIssue{Line: n, Text: trimmed, Reason: "want <name><TAB><url>"})
			continue
		}
		if err := checkURL(rawURL); err != nil {
			issues = append(issues, ManifestIssue{Line: n, Text: trimmed, Reason: err.Error()})
			continue
		}

		covers = append(covers, Cover{Name: name, URL: rawURL})
	}

	return covers, issues, scanner.Err()
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("not an http(s) url: %q", raw)
	}
	return nil
}
