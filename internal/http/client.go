package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/time/rate"
)

// Header names the RapidAPI gateway expects on every API call.
const (
	HeaderAPIKey  = "x-rapidapi-key"
	HeaderAPIHost = "x-rapidapi-host"
)

var (
	// ErrInvalidHeader is returned when a credential cannot be sent as a header value.
	ErrInvalidHeader = errors.New("http: invalid header value")

	// ErrDecode is wrapped around JSON decoding failures.
	ErrDecode = errors.New("http: malformed response body")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// maxPrealloc caps the buffer size taken from Content-Length.
const maxPrealloc = 256 << 20

// Options configures the HTTP client.
type Options struct {
	// Timeout bounds each call, including reading the body.
	// Zero disables the timeout.
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string

	// RequestsPerSecond paces JSON API calls. Zero or less means unlimited.
	RequestsPerSecond float64
}

// DefaultOptions returns options with a 60 second timeout and no pacing.
func DefaultOptions() Options {
	return Options{
		Timeout:   60 * time.Second,
		UserAgent: "EbookPackager",
	}
}

// Client wraps HTTP operations for the book search API.
//
// Client provides:
//   - A per-call timeout
//   - Configured User-Agent header
//   - Optional pacing of API calls through a token bucket
//   - In-memory downloads with progress tracking
//
// Example usage:
//
//	client := NewClient(DefaultOptions())
//
//	var urls []string
//	err := client.GetJSON(ctx, resolveURL, header, &urls)
//
//	data, err := client.DownloadBytes(ctx, urls[0], nil)
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a new HTTP client from opts.
func NewClient(opts Options) *Client {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// APIHeader builds the credential headers for an API call.
//
// Returns ErrInvalidHeader if either value contains bytes that are not
// allowed in an HTTP header field (control characters, newlines).
func APIHeader(apiKey, apiHost string) (http.Header, error) {
	if !httpguts.ValidHeaderFieldValue(apiKey) {
		return nil, fmt.Errorf("%w: API key", ErrInvalidHeader)
	}
	if !httpguts.ValidHeaderFieldValue(apiHost) {
		return nil, fmt.Errorf("%w: API host", ErrInvalidHeader)
	}

	header := make(http.Header)
	header.Set(HeaderAPIKey, apiKey)
	header.Set(HeaderAPIHost, apiHost)
	return header, nil
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: &buf,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with the size of that write
	// and the running total.
	OnUpdate func(n, written int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(int64(n), pw.Written)
	}
	return n, err
}

// GetJSON performs a paced GET request and decodes the JSON body into target.
//
// Returns:
//   - the transport error if the call fails
//   - *StatusError if the response status is not 2xx
//   - an error wrapping ErrDecode if the body is not valid JSON for target
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.do(ctx, url, header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// onProgress, when non-nil, is called as chunks arrive with the chunk size
// and the running total. Downloads are not paced; they usually go to a
// different host than the API.
func (c *Client) DownloadBytes(ctx context.Context, url string, onProgress func(n, written int64)) ([]byte, error) {
	resp, err := c.do(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if resp.ContentLength > 0 && resp.ContentLength < maxPrealloc {
		buf.Grow(int(resp.ContentLength))
	}

	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Client) do(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		req.Header[key] = values
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}
	return resp, nil
}
