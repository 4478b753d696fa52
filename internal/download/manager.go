package download

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/handiism/ebook-packager/internal/annas"
	"github.com/handiism/ebook-packager/internal/config"
	"github.com/handiism/ebook-packager/internal/http"
	ioutils "github.com/handiism/ebook-packager/internal/io"
	"github.com/handiism/ebook-packager/internal/model"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyBatch is returned when Process is called without any book.
var ErrEmptyBatch = errors.New("no books provided for processing")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Phase is the pipeline step currently running.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseSearching
	PhaseAwaitingDestination
	PhaseDownloading
	PhaseArchiving
	PhaseDone
)

// Progress is a snapshot of the pipeline counters.
type Progress struct {
	Phase         Phase
	Searched      int32
	ToSearch      int32
	Downloaded    int32
	ToDownload    int32
	ReceivedBytes int64
}

// SaveLocator asks where the archive should be written.
//
// It is called once per batch, only when at least one book matched.
// Returning ok=false means the user declined to save.
type SaveLocator interface {
	ChooseDestination(ctx context.Context, matched int) (path string, ok bool, err error)
}

// SaveLocatorFunc adapts a function to SaveLocator.
type SaveLocatorFunc func(ctx context.Context, matched int) (string, bool, error)

// ChooseDestination calls f.
func (f SaveLocatorFunc) ChooseDestination(ctx context.Context, matched int) (string, bool, error) {
	return f(ctx, matched)
}

// FixedLocation is a SaveLocator that always answers with the same path.
type FixedLocation string

// ChooseDestination returns the fixed path.
func (l FixedLocation) ChooseDestination(context.Context, int) (string, bool, error) {
	return string(l), true, nil
}

// Manager coordinates a batch: search, match, download and archive.
type Manager struct {
	settings *config.Settings
	creds    config.Credentials
	locator  SaveLocator
	searcher *annas.Searcher
	fetcher  *annas.Fetcher
	archiver *ioutils.Archiver

	phase         atomic.Int32
	searched      atomic.Int32
	toSearch      atomic.Int32
	downloaded    atomic.Int32
	toDownload    atomic.Int32
	receivedBytes atomic.Int64

	onProgress func(ProgressEvent)
}

// NewManager creates a new Manager.
//
// creds are used for every call of the batch; locator is consulted after
// the search phase. onProgress may be nil.
func NewManager(settings *config.Settings, creds config.Credentials, locator SaveLocator, onProgress func(ProgressEvent)) *Manager {
	client := http.NewClient(http.Options{
		Timeout:           settings.RequestTimeout(),
		UserAgent:         settings.UserAgent,
		RequestsPerSecond: settings.RequestsPerSecond,
	})
	endpoint := settings.Endpoint()

	return &Manager{
		settings:   settings,
		creds:      creds,
		locator:    locator,
		searcher:   annas.NewSearcher(client, endpoint, creds, annas.SearchParamsFromSettings(settings)),
		fetcher:    annas.NewFetcher(client, endpoint, creds),
		archiver:   ioutils.NewArchiver(settings.CompressionLevel),
		onProgress: onProgress,
	}
}

// Process runs the whole pipeline for books.
//
// The only errors returned are batch-level ones: an empty batch, a missing
// API key, a failing save prompt, or an archive that could not be created
// or finalized. Everything that goes wrong for a single book is recorded
// in the report.
func (m *Manager) Process(ctx context.Context, books []model.BookRequest) (*Report, error) {
	if len(books) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := m.creds.Validate(); err != nil {
		return nil, err
	}
	defer m.setPhase(PhaseDone)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Processing %d books...", len(books)), Level: LevelInfo})
	outcomes := m.Search(ctx, books)

	matched := foundIndexes(outcomes)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d books to download", len(matched)), Level: LevelInfo})
	if len(matched) == 0 {
		return &Report{State: StateNothingToDownload, Outcomes: outcomes}, nil
	}

	m.setPhase(PhaseAwaitingDestination)
	dest, ok, err := m.locator.ChooseDestination(ctx, len(matched))
	if err != nil {
		return nil, fmt.Errorf("choose save location: %w", err)
	}
	if !ok {
		m.progress(ProgressEvent{Message: "Save operation was cancelled", Level: LevelWarning})
		return &Report{State: StateCancelled, Outcomes: outcomes}, nil
	}

	payloads := m.downloadAll(ctx, outcomes, matched)

	m.setPhase(PhaseArchiving)
	var entries []model.ArchiveEntry
	var entryIndexes []int
	for _, i := range matched {
		if outcomes[i].Status != model.StatusFound {
			continue
		}
		entries = append(entries, model.NewArchiveEntry(outcomes[i].Book, payloads[i]))
		entryIndexes = append(entryIndexes, i)
	}

	result, err := m.archiver.WriteFile(dest, entries)
	if err != nil {
		m.progress(ProgressEvent{Message: err.Error(), Level: LevelError})
		return nil, err
	}

	report := &Report{
		State:       StateSaved,
		Outcomes:    outcomes,
		ArchivePath: result.Path,
		Failed:      len(matched) - len(entries),
	}
	for k, entry := range result.Entries {
		i := entryIndexes[k]
		if entry.Err != nil {
			report.Failed++
			outcomes[i].Err = entry.Err
			m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to add %q to zip: %v", outcomes[i].Book.Title, entry.Err), Level: LevelError})
			continue
		}
		report.Succeeded++
		report.Entries = append(report.Entries, entry.Name)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Added to zip: %s", entry.Name), Level: LevelSuccess})
	}

	return report, nil
}

// Search runs the search phase and returns one outcome per book, in input
// order. It returns once every search has completed.
func (m *Manager) Search(ctx context.Context, books []model.BookRequest) []model.Outcome {
	m.setPhase(PhaseSearching)
	m.searched.Store(0)
	m.toSearch.Store(int32(len(books)))

	outcomes := make([]model.Outcome, len(books))

	var g errgroup.Group
	g.SetLimit(concurrencyLimit(m.settings.MaxConcurrentSearches))
	for i, book := range books {
		g.Go(func() error {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Searching: %s", book), Level: LevelVerbose})
			outcomes[i] = m.searcher.Search(ctx, book)
			m.searched.Add(1)

			if outcomes[i].Status == model.StatusFound {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Found: %s", book), Level: LevelVerbose})
			} else {
				m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %s", book, outcomes[i].Detail()), Level: statusLevel(outcomes[i].Status)})
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// GetProgress returns current pipeline progress.
func (m *Manager) GetProgress() Progress {
	return Progress{
		Phase:         Phase(m.phase.Load()),
		Searched:      m.searched.Load(),
		ToSearch:      m.toSearch.Load(),
		Downloaded:    m.downloaded.Load(),
		ToDownload:    m.toDownload.Load(),
		ReceivedBytes: m.receivedBytes.Load(),
	}
}

// downloadAll fetches every matched outcome. Failed items get
// StatusDownloadError and a nil payload.
func (m *Manager) downloadAll(ctx context.Context, outcomes []model.Outcome, matched []int) [][]byte {
	m.setPhase(PhaseDownloading)
	m.downloaded.Store(0)
	m.toDownload.Store(int32(len(matched)))

	payloads := make([][]byte, len(outcomes))

	var g errgroup.Group
	g.SetLimit(concurrencyLimit(m.settings.MaxConcurrentDownloads))
	for _, i := range matched {
		g.Go(func() error {
			book := outcomes[i].Book
			m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading: %s by %s", book.Title, book.Author), Level: LevelInfo})

			data, err := m.fetcher.Fetch(ctx, outcomes[i].RetrievalRef, func(n, _ int64) {
				m.receivedBytes.Add(n)
			})
			m.downloaded.Add(1)
			if err != nil {
				outcomes[i].Fail(model.StatusDownloadError, err)
				m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to download book %q: %v", book.Title, err), Level: LevelError})
				return nil
			}

			payloads[i] = data
			m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s (%d bytes)", book.Title, len(data)), Level: LevelVerbose})
			return nil
		})
	}
	_ = g.Wait()

	return payloads
}

func (m *Manager) setPhase(p Phase) {
	m.phase.Store(int32(p))
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

func foundIndexes(outcomes []model.Outcome) []int {
	var idx []int
	for i, o := range outcomes {
		if o.Status == model.StatusFound {
			idx = append(idx, i)
		}
	}
	return idx
}

// concurrencyLimit maps a configured limit to errgroup's convention,
// where a negative value means unbounded.
func concurrencyLimit(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}

func statusLevel(s model.Status) ProgressLevel {
	if s.IsError() {
		return LevelError
	}
	return LevelWarning
}
