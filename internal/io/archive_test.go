package ioutils

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/ebook-packager/internal/model"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	members := make(map[string]string)
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		members[f.Name] = string(body)
	}
	return members
}

func TestArchiver_Write(t *testing.T) {
	entries := []model.ArchiveEntry{
		model.NewArchiveEntry(model.BookRequest{Title: "Dune", Author: "Frank Herbert", Year: "1965"}, []byte("dune")),
		model.NewArchiveEntry(model.BookRequest{Title: "Emma", Author: "Jane Austen", Year: "1815"}, []byte("emma")),
	}

	var buf bytes.Buffer
	result, err := NewArchiver(flate.BestCompression).Write(&buf, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Written())
	assert.Equal(t, 0, result.Failed())

	members := readZip(t, buf.Bytes())
	assert.Equal(t, map[string]string{
		"Frank Herbert - 1965 - Dune.epub": "dune",
		"Jane Austen - 1815 - Emma.epub":   "emma",
	}, members)
}

func TestArchiver_EmptyArchiveIsValid(t *testing.T) {
	var buf bytes.Buffer
	result, err := NewArchiver(flate.DefaultCompression).Write(&buf, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Written())
	assert.Empty(t, readZip(t, buf.Bytes()))
}

func TestArchiver_CollidingNamesAreSuffixed(t *testing.T) {
	book := model.BookRequest{Title: "Dune", Author: "Frank Herbert", Year: "1965"}
	slashed := model.BookRequest{Title: "Dune", Author: "Frank/Herbert", Year: "1965"}
	piped := model.BookRequest{Title: "Dune", Author: "Frank|Herbert", Year: "1965"}
	entries := []model.ArchiveEntry{
		model.NewArchiveEntry(book, []byte("first")),
		model.NewArchiveEntry(book, []byte("second")),
		model.NewArchiveEntry(slashed, []byte("third")),
		model.NewArchiveEntry(piped, []byte("fourth")),
	}

	var buf bytes.Buffer
	result, err := NewArchiver(flate.DefaultCompression).Write(&buf, entries)
	require.NoError(t, err)

	names := []string{}
	for _, e := range result.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		"Frank Herbert - 1965 - Dune.epub",
		"Frank Herbert - 1965 - Dune (2).epub",
		"Frank-Herbert - 1965 - Dune.epub",
		"Frank-Herbert - 1965 - Dune (2).epub",
	}, names)
	assert.Len(t, readZip(t, buf.Bytes()), 4)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestArchiver_WriteFailures(t *testing.T) {
	noise := make([]byte, 256<<10)
	_, _ = rand.Read(noise)
	entries := []model.ArchiveEntry{
		{FileName: "a.epub", Payload: noise},
		{FileName: "b.epub", Payload: noise},
	}

	result, err := NewArchiver(flate.DefaultCompression).Write(failingWriter{}, entries)
	assert.Error(t, err)
	assert.Len(t, result.Entries, 2)
	assert.GreaterOrEqual(t, result.Failed(), 1)
}

func TestArchiver_WriteFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out", "books.zip")
	entries := []model.ArchiveEntry{{FileName: "x.epub", Payload: []byte("payload")}}

	result, err := NewArchiver(flate.DefaultCompression).WriteFile(dest, entries)
	require.NoError(t, err)
	assert.Equal(t, dest, result.Path)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x.epub": "payload"}, readZip(t, data))
}

func TestArchiver_WriteFileCreateFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := NewArchiver(flate.DefaultCompression).WriteFile(filepath.Join(blocker, "books.zip"), nil)
	assert.Error(t, err)
}

func TestUniqueName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "a.epub", uniqueName(used, "a.epub"))
	assert.Equal(t, "a (2).epub", uniqueName(used, "a.epub"))
	assert.Equal(t, "a (3).epub", uniqueName(used, "a.epub"))
	assert.Equal(t, "noext", uniqueName(used, "noext"))
	assert.Equal(t, "noext (2)", uniqueName(used, "noext"))
}
