// Package download fetches cover art into the asset directory that the
// cluster renderer reads.
//
// # Manager
//
// The Manager coordinates the download process:
//
//  1. Read a manifest of names and cover URLs
//  2. Skip covers that already exist
//  3. Download covers concurrently, retrying temporary failures
//  4. Resize and convert each cover to JPEG
//  5. Save it atomically as <sanitized name>.jpg
//
// # Basic Usage
//
//	covers, issues, err := download.ReadManifestFile("covers.tsv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	manager := download.NewManager(download.DefaultOptions(), func(event model.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	summary, err := manager.Fetch(ctx, covers)
//
// # Retry Logic
//
// Network errors and 5xx/429 responses are retried with exponential backoff:
// the n-th wait is RetryCooldown * RetryExponent^n seconds. Other HTTP errors
// fail the cover immediately.
package download
