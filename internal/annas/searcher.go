package annas

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/handiism/ebook-packager/internal/annas/dto"
	"github.com/handiism/ebook-packager/internal/config"
	"github.com/handiism/ebook-packager/internal/http"
	"github.com/handiism/ebook-packager/internal/model"
)

// errMissingBooks is reported when the search body has no "books" key.
var errMissingBooks = errors.New(`search response has no "books" list`)

// SearchParams are the fixed filters sent with every search.
type SearchParams struct {
	Extension string
	Language  string
	Sort      string
	Limit     int
}

// SearchParamsFromSettings extracts the search filters from settings.
func SearchParamsFromSettings(s *config.Settings) SearchParams {
	return SearchParams{
		Extension: s.SearchExtension,
		Language:  s.SearchLanguage,
		Sort:      s.SearchSort,
		Limit:     s.SearchLimit,
	}
}

// Searcher looks up one book per call against the /search endpoint.
//
// Example usage:
//
//	searcher := annas.NewSearcher(client, settings.Endpoint(), creds, annas.SearchParamsFromSettings(settings))
//	outcome := searcher.Search(ctx, model.BookRequest{Title: "Dune", Author: "Frank Herbert", Year: "1965"})
//	if outcome.Status == model.StatusFound {
//	    fmt.Println(outcome.RetrievalRef)
//	}
type Searcher struct {
	client   *http.Client
	endpoint string
	creds    config.Credentials
	params   SearchParams
}

// NewSearcher creates a Searcher for the API rooted at endpoint.
func NewSearcher(client *http.Client, endpoint string, creds config.Credentials, params SearchParams) *Searcher {
	return &Searcher{
		client:   client,
		endpoint: endpoint,
		creds:    creds,
		params:   params,
	}
}

// Search issues a single search call for book and classifies the result.
//
// Search never returns an error; every failure is reported through the
// outcome status:
//   - StatusInvalidCredential: the key or host is not a valid header value (no call made)
//   - StatusSearchError: transport failure or non-2xx status
//   - StatusParseError: the body is not a search response
//   - StatusNotFound: no candidate passed Match
//   - StatusFound: RetrievalRef holds the matched content identifier
func (s *Searcher) Search(ctx context.Context, book model.BookRequest) model.Outcome {
	outcome := model.NewOutcome(book)

	header, err := http.APIHeader(s.creds.APIKey, s.creds.APIHost)
	if err != nil {
		outcome.Fail(model.StatusInvalidCredential, err)
		return outcome
	}

	var resp dto.SearchResponse
	if err := s.client.GetJSON(ctx, s.searchURL(book), header, &resp); err != nil {
		if errors.Is(err, http.ErrDecode) {
			outcome.Fail(model.StatusParseError, err)
		} else {
			outcome.Fail(model.StatusSearchError, err)
		}
		return outcome
	}
	if resp.Books == nil {
		outcome.Fail(model.StatusParseError, errMissingBooks)
		return outcome
	}

	if match, ok := Match(book, resp.Candidates()); ok {
		outcome.Found(match.ContentID)
	}
	return outcome
}

func (s *Searcher) searchURL(book model.BookRequest) string {
	query := url.Values{}
	query.Set("q", book.Query())
	query.Set("ext", s.params.Extension)
	query.Set("sort", s.params.Sort)
	query.Set("lang", s.params.Language)
	query.Set("limit", strconv.Itoa(s.params.Limit))
	return s.endpoint + "/search?" + query.Encode()
}
