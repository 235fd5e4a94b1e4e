// Package cluster renders a weighted catalog into a single cover mosaic.
//
// A Renderer ties the pipeline together: index parsing, cover resolution,
// size scaling, shelf layout and compositing. It is configured explicitly
// through Options and reports through a progress callback, in the same way
// as the download manager.
//
// # Basic Usage
//
//	r := cluster.NewRenderer(cluster.DefaultOptions(), func(e model.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//
//	res, err := r.Render(ctx, cluster.Request{
//	    IndexPath:  "index.txt",
//	    CoversDir:  "covers",
//	    OutputPath: "cluster.png",
//	    Kind:       model.KindAlbum,
//	})
//	if err != nil {
//	    log.Fatal(err) // DECODE_FAILURE, EMPTY_CATALOG, NOTHING_TO_RENDER, ...
//	}
//	fmt.Printf("%+v\n", res.Diagnostics.Counts())
//
// # Diagnostics
//
// Malformed index lines, entities without covers, entities that did not fit
// and covers that failed to decode never fail a run. They are returned in
// Result.Diagnostics and emitted as LevelWarning events.
//
// # Concurrency
//
// One Render call is sequential. A Renderer may be polled with Progress from
// another goroutine while it runs. Two runs must not share an output path;
// the CLI guards against that with a lock file.
package cluster
