// Package http provides the HTTP client used to fetch cover images.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Classification of failed responses
//
// # Basic Usage
//
//	client := http.NewClient("", 30*time.Second)
//
//	data, err := client.Get(ctx, coverURL)
//	var se *http.StatusError
//	if errors.As(err, &se) && !se.Temporary() {
//	    // 404 and friends are not worth retrying
//	}
package http
