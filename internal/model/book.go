package model

import (
	"fmt"
	"strings"
)

// BookRequest identifies a book the user wants to retrieve.
//
// Requests are immutable once parsed. Year is kept as a string because the
// search API reports it as free text and matching compares it verbatim.
type BookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   string `json:"year"`
}

// Query returns the free-text search query for the request.
func (b BookRequest) Query() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", b.Title, b.Author, b.Year))
}

// String formats the request the way it appears in summaries.
//
// Example:
//
//	BookRequest{"Dune", "Frank Herbert", "1965"}.String() // "Dune by Frank Herbert (1965)"
func (b BookRequest) String() string {
	return fmt.Sprintf("%s by %s (%s)", b.Title, b.Author, b.Year)
}

// ParseBookList parses a batch of book requests from text.
//
// Each non-empty line holds "Title; Author; Year". Lines starting with '#'
// are comments. Fields are trimmed; the year may be omitted.
//
// Returns an error naming the first line that has fewer than two fields.
func ParseBookList(input string) ([]BookRequest, error) {
	var books []BookRequest
	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		book, err := ParseBookLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		books = append(books, book)
	}
	return books, nil
}

// ParseBookLine parses a single "Title; Author; Year" entry.
func ParseBookLine(line string) (BookRequest, error) {
	parts := strings.SplitN(line, ";", 3)
	if len(parts) < 2 {
		return BookRequest{}, fmt.Errorf("expected \"Title; Author; Year\", got %q", line)
	}

	book := BookRequest{
		Title:  strings.TrimSpace(parts[0]),
		Author: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		book.Year = strings.TrimSpace(parts[2])
	}
	if book.Title == "" || book.Author == "" {
		return BookRequest{}, fmt.Errorf("title and author are required in %q", line)
	}
	return book, nil
}
