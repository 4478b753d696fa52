// Package model defines the core data structures used throughout
// the ebook-packager application.
//
// # BookRequest
//
// BookRequest is one line of the user's batch. Identity is positional:
// two identical requests are two independent items.
//
//	books, err := model.ParseBookList("Dune; Frank Herbert; 1965\n")
//
// # Outcome
//
// Every request yields exactly one Outcome. Failures are carried as data
// in Outcome.Status and Outcome.Err rather than returned as errors:
//
//	out := model.NewOutcome(book)
//	out.Fail(model.StatusSearchError, err)
//
// # Archive entries
//
// ArchiveEntry pairs a computed file name with a downloaded payload.
// Names follow the "{author} - {year} - {title}.epub" pattern, each part
// passed through SanitizeFileName:
//
//	entry := model.NewArchiveEntry(book, payload)
//	fmt.Println(entry.FileName) // "Frank Herbert - 1965 - Dune.epub"
package model
