// Package annas talks to the Anna's Archive search API published on
// RapidAPI and turns its responses into per-book outcomes.
//
// The package has three parts:
//
//  1. Match, a pure heuristic that picks one candidate per request
//  2. Searcher, which runs one /search call per book
//  3. Fetcher, which resolves a content identifier and downloads the file
//
// # Searching
//
//	searcher := annas.NewSearcher(client, endpoint, creds, params)
//	outcome := searcher.Search(ctx, book)
//
// Errors never escape Search; they are recorded on the outcome.
//
// # Fetching
//
//	fetcher := annas.NewFetcher(client, endpoint, creds)
//	data, err := fetcher.Fetch(ctx, outcome.RetrievalRef, nil)
//
// # API Format
//
// The search endpoint answers with {"books": [{"title", "author", "md5",
// "year"}, ...]}. The download endpoint answers with a JSON array of URL
// strings; only the first one is used.
package annas
