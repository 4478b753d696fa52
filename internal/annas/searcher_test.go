package annas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/handiism/ebook-packager/internal/config"
	apphttp "github.com/handiism/ebook-packager/internal/http"
	"github.com/handiism/ebook-packager/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = SearchParams{Extension: "epub", Language: "en", Sort: "mostRelevant", Limit: 10}

func newTestSearcher(t *testing.T, handler http.HandlerFunc, creds config.Credentials) (*Searcher, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := apphttp.NewClient(apphttp.DefaultOptions())
	return NewSearcher(client, srv.URL, creds, testParams), &calls
}

var (
	goodCreds = config.Credentials{APIKey: "key", APIHost: "api.test"}
	dune      = model.BookRequest{Title: "Dune", Author: "Frank Herbert", Year: "1965"}
)

func TestSearcher_Found(t *testing.T) {
	searcher, _ := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Dune Frank Herbert 1965", q.Get("q"))
		assert.Equal(t, "epub", q.Get("ext"))
		assert.Equal(t, "mostRelevant", q.Get("sort"))
		assert.Equal(t, "en", q.Get("lang"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "key", r.Header.Get(apphttp.HeaderAPIKey))
		assert.Equal(t, "api.test", r.Header.Get(apphttp.HeaderAPIHost))

		fmt.Fprint(w, `{"books":[{"title":"Dune","author":"Frank Herbert","md5":"abc","year":"1965"}]}`)
	}, goodCreds)

	outcome := searcher.Search(context.Background(), dune)
	assert.Equal(t, model.StatusFound, outcome.Status)
	assert.Equal(t, "abc", outcome.RetrievalRef)
	assert.Equal(t, dune, outcome.Book)
}

func TestSearcher_Statuses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    model.Status
	}{
		{
			name: "zero candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"books":[]}`)
			},
			want: model.StatusNotFound,
		},
		{
			name: "no heuristic match",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"books":[{"title":"Dune","author":"Nobody","md5":"x","year":"1965"}]}`)
			},
			want: model.StatusNotFound,
		},
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			want: model.StatusSearchError,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>oops</html>`)
			},
			want: model.StatusParseError,
		},
		{
			name: "missing books key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"results":[]}`)
			},
			want: model.StatusParseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher, _ := newTestSearcher(t, tt.handler, goodCreds)
			outcome := searcher.Search(context.Background(), dune)
			assert.Equal(t, tt.want, outcome.Status)
			assert.Empty(t, outcome.RetrievalRef)
		})
	}
}

func TestSearcher_StatusCarriedInError(t *testing.T) {
	searcher, _ := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, goodCreds)

	outcome := searcher.Search(context.Background(), dune)
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "502")
}

func TestSearcher_InvalidCredentialMakesNoCall(t *testing.T) {
	searcher, calls := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"books":[]}`)
	}, config.Credentials{APIKey: "bad\x7fkey", APIHost: "api.test"})

	outcome := searcher.Search(context.Background(), dune)
	assert.Equal(t, model.StatusInvalidCredential, outcome.Status)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestSearcher_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	searcher := NewSearcher(apphttp.NewClient(apphttp.DefaultOptions()), endpoint, goodCreds, testParams)
	outcome := searcher.Search(context.Background(), dune)
	assert.Equal(t, model.StatusSearchError, outcome.Status)
}
