package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "covercluster"

// Client wraps the HTTP operations the cover fetcher needs.
//
// Client provides:
//   - A configurable User-Agent header
//   - Timeout handling
//   - Typed status errors that tell temporary failures from final ones
//
// Example usage:
//
//	client := NewClient("", 30*time.Second)
//	data, err := client.Get(ctx, "https://example.com/cover.jpg")
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// An empty userAgent selects DefaultUserAgent and a non-positive timeout
// selects 60 seconds.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// StatusError is returned when the server answers with anything but 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %s", e.URL, e.Status)
}

// Temporary reports whether retrying the request can help: server errors
// and rate limiting are temporary, other client errors are not.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusRequestTimeout
}

// Get performs a GET request and returns the response body.
//
// Returns a *StatusError if the response status is not 200 OK.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return io.ReadAll(resp.Body)
}
