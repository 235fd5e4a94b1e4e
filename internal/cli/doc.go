// Package cli implements the covercluster command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Library
// packages never log; their progress events are adapted to the logger
// carried in the command context.
//
// # Commands
//
// The commands are:
//   - render: paint the cover mosaic for albums, artists or both
//   - resolve: show which cover file every entity resolves to
//   - fetch: download covers listed in a manifest
//   - scan: build an index (and covers) from a tagged MP3 library
//   - config init: write a settings file with the defaults
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// shows the per-cover events of a run.
//
// # Example
//
//	import "github.com/handiism/covercluster/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
