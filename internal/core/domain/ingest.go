package domain

// IngestState is a step of the ingestion state machine.
type IngestState string

// Ingestion states in pipeline order.
const (
	IngestReceived      IngestState = "received"
	IngestHashCheck     IngestState = "hash_check"
	IngestDuplicateSkip IngestState = "duplicate_skip"
	IngestReindexNeeded IngestState = "reindex_needed"
	IngestNew           IngestState = "new"
	IngestExtract       IngestState = "extract"
	IngestChunk         IngestState = "chunk"
	IngestEmbed         IngestState = "embed"
	IngestStore         IngestState = "store"
	IngestDone          IngestState = "done"
	IngestFailed        IngestState = "failed"
)

// IsTerminal reports whether no further transition follows the state.
func (s IngestState) IsTerminal() bool {
	return s == IngestDone || s == IngestDuplicateSkip || s == IngestFailed
}

// String returns the string representation.
func (s IngestState) String() string {
	return string(s)
}

// IngestRequest carries one uploaded file.
type IngestRequest struct {
	// Filename is the uploaded file name; its extension selects the extractor.
	Filename string

	// Content is the raw uploaded bytes.
	Content []byte
}

// IngestResult is the outcome of a successful or short-circuited ingestion.
type IngestResult struct {
	DocumentID  string      `json:"document_id"`
	Filename    string      `json:"filename"`
	TotalChunks int         `json:"total_chunks,omitempty"`
	SampleChunk string      `json:"sample_chunk,omitempty"`
	Duplicate   bool        `json:"-"`
	Reindexed   bool        `json:"-"`
	State       IngestState `json:"-"`
}

// DuplicateMessage is reported when identical content was already ingested.
const DuplicateMessage = "already ingested"

// DuplicateResponse is the wire shape reported for duplicate uploads.
type DuplicateResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
}

// Response returns the wire shape of the result: a DuplicateResponse for
// duplicates, the result itself otherwise.
func (r *IngestResult) Response() any {
	if r.Duplicate {
		return DuplicateResponse{
			Message:    DuplicateMessage,
			DocumentID: r.DocumentID,
			Filename:   r.Filename,
		}
	}
	return r
}
