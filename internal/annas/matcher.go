package annas

import (
	"strings"

	"github.com/handiism/ebook-packager/internal/model"
)

// Match picks the candidate that best fits book.
//
// This is triage, not relevance ranking. Three tiers are tried in order,
// each scanning candidates in response order and returning the first hit:
//
//  1. author contains, title contains, year equal
//  2. author contains, title contains
//  3. author contains
//
// Comparisons of author and title are case-insensitive substring checks.
// The second return value is false when no tier matches.
func Match(book model.BookRequest, candidates []model.Candidate) (model.Candidate, bool) {
	author := strings.ToLower(book.Author)
	title := strings.ToLower(book.Title)

	authorOK := func(c model.Candidate) bool {
		return strings.Contains(strings.ToLower(c.Author), author)
	}
	titleOK := func(c model.Candidate) bool {
		return strings.Contains(strings.ToLower(c.Title), title)
	}

	tiers := []func(model.Candidate) bool{
		func(c model.Candidate) bool { return authorOK(c) && titleOK(c) && c.Year == book.Year },
		func(c model.Candidate) bool { return authorOK(c) && titleOK(c) },
		authorOK,
	}

	for _, accept := range tiers {
		for _, c := range candidates {
			if accept(c) {
				return c, true
			}
		}
	}
	return model.Candidate{}, false
}
