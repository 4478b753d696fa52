// Package http provides an HTTP client configured for the book search API.
//
// The Client in this package handles:
//   - RapidAPI credential headers (validated before use)
//   - JSON decoding with typed status and decode errors
//   - In-memory file downloads with progress tracking
//   - Per-call timeouts and optional request pacing
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	header, err := http.APIHeader(apiKey, apiHost)
//	var resp dto.SearchResponse
//	err = client.GetJSON(ctx, searchURL, header, &resp)
//
// # Errors
//
// Non-2xx responses are reported as *StatusError so callers can inspect
// the code:
//
//	var se *http.StatusError
//	if errors.As(err, &se) && se.Code == 429 {
//	    // throttled by the remote service
//	}
package http
