package model

import (
	"fmt"
	"strings"
	"unicode"
)

// EntryExtension is the extension given to every archive member.
const EntryExtension = ".epub"

// ArchiveEntry is a downloaded payload ready to be written to the archive.
type ArchiveEntry struct {
	FileName string
	Payload  []byte
}

// NewArchiveEntry names payload after book using EntryFileName.
func NewArchiveEntry(book BookRequest, payload []byte) ArchiveEntry {
	return ArchiveEntry{
		FileName: EntryFileName(book),
		Payload:  payload,
	}
}

// EntryFileName returns "{author} - {year} - {title}.epub" with every part
// sanitized.
//
// Example:
//
//	EntryFileName(BookRequest{"Dune", "Frank Herbert", "1965"}) // "Frank Herbert - 1965 - Dune.epub"
func EntryFileName(book BookRequest) string {
	return fmt.Sprintf("%s - %s - %s%s",
		SanitizeFileName(book.Author),
		SanitizeFileName(book.Year),
		SanitizeFileName(book.Title),
		EntryExtension,
	)
}

// SanitizeFileName replaces characters that are invalid in file names.
//
// Each of / \ : * ? " < > | and every control character becomes '-'.
// Leading and trailing whitespace is then trimmed. The function is
// idempotent.
//
// Example:
//
//	SanitizeFileName("O'Brien/Author") // "O'Brien-Author"
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if unicode.IsControl(r) {
			return '-'
		}
		return r
	}, name)

	return strings.TrimSpace(name)
}
