package annas

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/handiism/ebook-packager/internal/config"
	"github.com/handiism/ebook-packager/internal/http"
)

// ErrNoDownloadURLs is returned when the resolve call yields an empty list.
var ErrNoDownloadURLs = errors.New("API did not return any final download URLs")

// Fetcher downloads the file behind a retrieval reference.
//
// Retrieval is two calls: /download?md5={ref} returns a JSON list of
// mirror URLs, then the first URL is fetched. Later URLs are never tried.
type Fetcher struct {
	client   *http.Client
	endpoint string
	creds    config.Credentials
}

// NewFetcher creates a Fetcher for the API rooted at endpoint.
func NewFetcher(client *http.Client, endpoint string, creds config.Credentials) *Fetcher {
	return &Fetcher{
		client:   client,
		endpoint: endpoint,
		creds:    creds,
	}
}

// Fetch resolves ref and downloads the file.
//
// onProgress is passed through to the byte download and may be nil.
// The returned error describes which step failed.
func (f *Fetcher) Fetch(ctx context.Context, ref string, onProgress func(n, written int64)) ([]byte, error) {
	header, err := http.APIHeader(f.creds.APIKey, f.creds.APIHost)
	if err != nil {
		return nil, err
	}

	var urls []string
	if err := f.client.GetJSON(ctx, f.resolveURL(ref), header, &urls); err != nil {
		var se *http.StatusError
		switch {
		case errors.As(err, &se):
			return nil, fmt.Errorf("download link request failed: %w", err)
		case errors.Is(err, http.ErrDecode):
			return nil, fmt.Errorf("failed to parse download links: %w", err)
		default:
			return nil, fmt.Errorf("failed to get download link: %w", err)
		}
	}
	if len(urls) == 0 {
		return nil, ErrNoDownloadURLs
	}

	data, err := f.client.DownloadBytes(ctx, urls[0], onProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}

func (f *Fetcher) resolveURL(ref string) string {
	return f.endpoint + "/download?md5=" + url.QueryEscape(ref)
}
