package download

import (
	"fmt"
	"strings"

	"github.com/handiism/ebook-packager/internal/model"
)

// ReportState is how a batch ended.
type ReportState int

const (
	// StateNothingToDownload means no book matched; no prompt, no archive.
	StateNothingToDownload ReportState = iota
	// StateCancelled means the user declined to choose a save location.
	StateCancelled
	// StateSaved means the archive was written.
	StateSaved
)

// Report is the result of one batch.
//
// Outcomes has one element per submitted book, in submission order.
type Report struct {
	State       ReportState
	Outcomes    []model.Outcome
	ArchivePath string
	Entries     []string
	Succeeded   int
	Failed      int
}

// Summary renders the report as the text shown to the user.
func (r *Report) Summary() string {
	var b strings.Builder

	switch r.State {
	case StateNothingToDownload:
		b.WriteString("No books found to download.\n\nSearch Results:\n")
		for _, o := range r.Outcomes {
			writeOutcomeLine(&b, o)
		}
		return b.String()

	case StateCancelled:
		return "Save operation was cancelled."
	}

	if r.Failed > 0 {
		fmt.Fprintf(&b, "Package saved to %q\n\n", r.ArchivePath)
		fmt.Fprintf(&b, "✓ %d books downloaded successfully\n", r.Succeeded)
		fmt.Fprintf(&b, "✗ %d books failed to download", r.Failed)
	} else {
		fmt.Fprintf(&b, "✓ Successfully saved %d books to %q", r.Succeeded, r.ArchivePath)
	}

	var missing []model.Outcome
	for _, o := range r.Outcomes {
		if o.Status != model.StatusFound || o.Err != nil {
			missing = append(missing, o)
		}
	}
	if len(missing) > 0 {
		b.WriteString("\n\nNot included:\n")
		for _, o := range missing {
			writeOutcomeLine(&b, o)
		}
	}

	return b.String()
}

// Counts returns how many outcomes ended in each status. A book that was
// retrieved but could not be written to the archive keeps StatusFound with
// Err set, so it is counted as Found here and in Failed on the report.
func (r *Report) Counts() map[model.Status]int {
	counts := make(map[model.Status]int)
	for _, o := range r.Outcomes {
		counts[o.Status]++
	}
	return counts
}

func writeOutcomeLine(b *strings.Builder, o model.Outcome) {
	fmt.Fprintf(b, "• %s: %s\n", o.Book, o.Detail())
}
