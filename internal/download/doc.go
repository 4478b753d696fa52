// Package download provides the batch pipeline that turns a list of book
// requests into a single zip archive.
//
// # Manager
//
// The Manager coordinates the entire process:
//
//  1. Search every book concurrently
//  2. Keep the outcomes whose status is Found
//  3. Ask the SaveLocator where to write the archive
//  4. Download every matched book concurrently
//  5. Write the successful downloads, in input order, to the archive
//
// Each phase waits for all of its items before the next one starts.
// A batch with no match ends after step 2; a declined save prompt ends
// after step 3 without downloading anything.
//
// # Basic Usage
//
//	manager := download.NewManager(settings, creds, download.FixedLocation("books.zip"), func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	report, err := manager.Process(ctx, books)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Summary())
//
// # Concurrency
//
// The Manager uses configurable concurrency limits:
//   - MaxConcurrentSearches: how many searches run in parallel
//   - MaxConcurrentDownloads: how many downloads run in parallel
//
// A limit of zero or less removes the cap. The archive itself has a single
// writer and is filled sequentially.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent.
// The callback is invoked from worker goroutines and must be safe for
// concurrent use. Counters are also available through GetProgress.
//
// # Failures
//
// Failed searches and downloads are not retried. They are recorded on the
// item's outcome and listed in Report.Summary.
package download
