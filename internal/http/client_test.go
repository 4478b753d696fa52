package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIHeader(t *testing.T) {
	header, err := APIHeader("key-123", "api.example.test")
	require.NoError(t, err)
	assert.Equal(t, "key-123", header.Get(HeaderAPIKey))
	assert.Equal(t, "api.example.test", header.Get(HeaderAPIHost))

	_, err = APIHeader("bad\nkey", "api.example.test")
	assert.ErrorIs(t, err, ErrInvalidHeader)

	_, err = APIHeader("key", "host\r\nInjected: yes")
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "key", r.Header.Get(HeaderAPIKey))
			assert.Equal(t, "TestAgent", r.Header.Get("User-Agent"))
			fmt.Fprint(w, `["a","b"]`)
		case "/bad":
			fmt.Fprint(w, `{"not":"a list"}`)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	client := NewClient(Options{Timeout: 5 * time.Second, UserAgent: "TestAgent"})
	header, err := APIHeader("key", "host")
	require.NoError(t, err)

	t.Run("decodes body", func(t *testing.T) {
		var out []string
		require.NoError(t, client.GetJSON(context.Background(), srv.URL+"/ok", header, &out))
		assert.Equal(t, []string{"a", "b"}, out)
	})

	t.Run("decode error", func(t *testing.T) {
		var out []string
		err := client.GetJSON(context.Background(), srv.URL+"/bad", header, &out)
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("status error", func(t *testing.T) {
		var out []string
		err := client.GetJSON(context.Background(), srv.URL+"/down", header, &out)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusServiceUnavailable, se.Code)
		assert.Equal(t, "HTTP 503: Service Unavailable", se.Error())
	})
}

func TestDownloadBytes(t *testing.T) {
	payload := strings.Repeat("epub", 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	client := NewClient(DefaultOptions())

	var seen int64
	data, err := client.DownloadBytes(context.Background(), srv.URL+"/file", func(n, written int64) {
		seen += n
		assert.Equal(t, seen, written)
	})
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
	assert.Equal(t, int64(len(payload)), seen)

	_, err = client.DownloadBytes(context.Background(), srv.URL+"/missing", nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient(Options{Timeout: 50 * time.Millisecond})
	_, err := client.DownloadBytes(context.Background(), srv.URL, nil)
	assert.Error(t, err)
}

func TestProgressWriter(t *testing.T) {
	var sb strings.Builder
	var updates []int64
	pw := &ProgressWriter{
		Writer:   &sb,
		OnUpdate: func(_, written int64) { updates = append(updates, written) },
	}

	_, _ = pw.Write([]byte("abc"))
	_, _ = pw.Write([]byte("de"))

	assert.Equal(t, "abcde", sb.String())
	assert.Equal(t, []int64{3, 5}, updates)
	assert.Equal(t, int64(5), pw.Written)
}
