package dto

import "github.com/handiism/ebook-packager/internal/model"

// SearchResponse is the body returned by the /search endpoint.
//
// Books is nil when the key is absent, which callers treat as a malformed
// response rather than an empty result.
type SearchResponse struct {
	Books []JSONBook `json:"books"`
}

// JSONBook is one search result.
type JSONBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	MD5    string `json:"md5"`
	Year   string `json:"year"`
	Source string `json:"source,omitempty"`
}

// ToCandidate converts JSONBook to a model.Candidate.
func (jb JSONBook) ToCandidate() model.Candidate {
	return model.Candidate{
		Title:     jb.Title,
		Author:    jb.Author,
		Year:      jb.Year,
		ContentID: jb.MD5,
		Source:    jb.Source,
	}
}

// Candidates converts every result, preserving response order.
func (r *SearchResponse) Candidates() []model.Candidate {
	candidates := make([]model.Candidate, len(r.Books))
	for i, book := range r.Books {
		candidates[i] = book.ToCandidate()
	}
	return candidates
}
