package cluster

import (
	"github.com/handiism/covercluster/internal/compose"
	"github.com/handiism/covercluster/internal/index"
	"github.com/handiism/covercluster/internal/model"
)

// Diagnostics collects every anomaly a run recovered from.
type Diagnostics struct {
	// Malformed lists index lines that were skipped or merged.
	Malformed []index.LineIssue

	// Unresolved lists entities without a cover file.
	Unresolved []model.Entity

	// Dropped lists entities the layout could not fit on the canvas.
	Dropped []model.Entity

	// LoadFailures lists covers that were found but could not be decoded.
	LoadFailures []compose.LoadFailure
}

// Counts summarizes Diagnostics.
type Counts struct {
	Malformed    int
	Unresolved   int
	Dropped      int
	LoadFailures int
}

// Counts returns the number of entries per category.
func (d Diagnostics) Counts() Counts {
	return Counts{
		Malformed:    len(d.Malformed),
		Unresolved:   len(d.Unresolved),
		Dropped:      len(d.Dropped),
		LoadFailures: len(d.LoadFailures),
	}
}

// Empty reports whether the run was clean.
func (d Diagnostics) Empty() bool {
	return d.Counts() == Counts{}
}
