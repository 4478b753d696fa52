package ioutils

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/handiism/ebook-packager/internal/model"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// EntryResult reports how one archive entry was written.
type EntryResult struct {
	// Name is the member name used in the archive, after collision handling.
	Name string

	// Err is non-nil when the member could not be created or written.
	Err error
}

// ArchiveResult summarizes a finished archive.
type ArchiveResult struct {
	Path    string
	Entries []EntryResult
}

// Written returns the number of entries stored successfully.
func (r ArchiveResult) Written() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of entries that could not be stored.
func (r ArchiveResult) Failed() int {
	return len(r.Entries) - r.Written()
}

// Archiver writes archive entries into a flat, deflate-compressed zip.
//
// Entries are written sequentially in the order given. A failure on one
// entry is recorded and the remaining entries are still attempted. When
// two entries share a name the later one gets a " (2)", " (3)", ... suffix
// before the extension so nothing is overwritten.
//
// Example:
//
//	archiver := NewArchiver(flate.DefaultCompression)
//	result, err := archiver.WriteFile("/tmp/books.zip", entries)
//	fmt.Printf("%d stored, %d failed\n", result.Written(), result.Failed())
type Archiver struct {
	level int
	now   func() time.Time
}

// NewArchiver creates an Archiver using the given flate compression level.
// Levels outside flate's range fall back to the default level.
func NewArchiver(level int) *Archiver {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = flate.DefaultCompression
	}
	return &Archiver{level: level, now: time.Now}
}

// WriteFile creates dest and writes the archive to it.
//
// Failing to create dest or to finalize the archive is returned as an
// error; per-entry failures are only reported in the result.
func (a *Archiver) WriteFile(dest string, entries []model.ArchiveEntry) (ArchiveResult, error) {
	file, err := CreateFile(dest)
	if err != nil {
		return ArchiveResult{Path: dest}, fmt.Errorf("failed to create zip file: %w", err)
	}

	result, err := a.Write(file, entries)
	result.Path = dest
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to finalize zip file: %w", closeErr)
	}
	return result, err
}

// Write streams the archive to w.
func (a *Archiver) Write(w io.Writer, entries []model.ArchiveEntry) (ArchiveResult, error) {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, a.level)
	})

	var result ArchiveResult
	used := make(map[string]bool, len(entries))
	modified := a.now()

	for _, entry := range entries {
		name := uniqueName(used, entry.FileName)
		result.Entries = append(result.Entries, EntryResult{
			Name: name,
			Err:  a.writeEntry(zw, name, entry.Payload, modified),
		})
	}

	if err := zw.Close(); err != nil {
		return result, fmt.Errorf("failed to finalize zip file: %w", err)
	}
	return result, nil
}

func (a *Archiver) writeEntry(zw *zip.Writer, name string, payload []byte, modified time.Time) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("failed to create zip entry: %w", err)
	}
	if _, err := fw.Write(payload); err != nil {
		return fmt.Errorf("failed to write zip entry: %w", err)
	}
	return nil
}

// uniqueName returns name, or name with a numeric suffix if it is taken.
func uniqueName(used map[string]bool, name string) string {
	candidate := name
	if used[candidate] {
		ext := ""
		base := name
		if i := strings.LastIndex(name, "."); i > 0 {
			base, ext = name[:i], name[i:]
		}
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
		}
	}
	used[candidate] = true
	return candidate
}
