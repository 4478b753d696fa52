package download

import (
	"errors"
	"testing"

	"github.com/handiism/ebook-packager/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestReport_CountsKeepsWriteFailuresFound(t *testing.T) {
	written := model.NewOutcome(model.BookRequest{Title: "Dune", Author: "Frank Herbert", Year: "1965"})
	written.Found("md5-dune")
	unwritten := model.NewOutcome(model.BookRequest{Title: "Emma", Author: "Jane Austen", Year: "1815"})
	unwritten.Found("md5-emma")
	unwritten.Err = errors.New("disk full")

	report := &Report{
		State:     StateSaved,
		Outcomes:  []model.Outcome{written, unwritten},
		Succeeded: 1,
		Failed:    1,
	}

	assert.Equal(t, map[model.Status]int{model.StatusFound: 2}, report.Counts())
	assert.Contains(t, report.Summary(), "Emma by Jane Austen (1815): Found: disk full")
}
