package model

// Status is the per-item result of the pipeline.
type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	StatusInvalidCredential
	StatusSearchError
	StatusParseError
	StatusDownloadError
)

// String returns the label shown in summaries.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "Found"
	case StatusNotFound:
		return "Not Found"
	case StatusInvalidCredential:
		return "Invalid API Key"
	case StatusSearchError:
		return "Search Error"
	case StatusParseError:
		return "Parse Error"
	case StatusDownloadError:
		return "Download Error"
	default:
		return "Unknown"
	}
}

// IsError reports whether the status is one of the failure kinds.
func (s Status) IsError() bool {
	return s != StatusFound && s != StatusNotFound
}

// Candidate is a single search result returned by the remote API.
//
// ContentID is the opaque identifier (an MD5 hash on Anna's Archive) used
// to resolve the download location of the file.
type Candidate struct {
	Title     string
	Author    string
	Year      string
	ContentID string
	Source    string
}

// Outcome records what happened to one BookRequest.
//
// RetrievalRef is set only when Status is StatusFound. Err holds a human
// readable cause for the error statuses.
type Outcome struct {
	Book         BookRequest
	Status       Status
	RetrievalRef string
	Err          error
}

// NewOutcome returns a NotFound outcome for book, the state every item
// starts in before a match is recorded.
func NewOutcome(book BookRequest) Outcome {
	return Outcome{Book: book, Status: StatusNotFound}
}

// Found marks the outcome as matched with the given retrieval reference.
func (o *Outcome) Found(ref string) {
	o.Status = StatusFound
	o.RetrievalRef = ref
	o.Err = nil
}

// Fail records a failure status and its cause.
func (o *Outcome) Fail(status Status, err error) {
	o.Status = status
	o.Err = err
}

// Detail returns the status label with the cause appended when present.
func (o Outcome) Detail() string {
	if o.Err != nil {
		return o.Status.String() + ": " + o.Err.Error()
	}
	return o.Status.String()
}
