package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptLocator(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
		wantOK   bool
	}{
		{"default", "\n", "ebook-package.zip", true},
		{"eof is default", "", "ebook-package.zip", true},
		{"custom path", "  /tmp/books.zip \n", "/tmp/books.zip", true},
		{"cancel", "n\n", "", false},
		{"cancel upper", "NO\n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			locator := promptLocator(strings.NewReader(tt.input), &out, "ebook-package.zip")

			path, ok, err := locator.ChooseDestination(context.Background(), 3)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Contains(t, out.String(), "Found 3 book(s)")
		})
	}
}

func TestReadBooks_Args(t *testing.T) {
	books, err := readBooks("", []string{"Dune; Frank Herbert; 1965", "Emma; Jane Austen; 1815"})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Emma", books[1].Title)

	_, err = readBooks("", []string{"# only a comment"})
	assert.Error(t, err)
}
