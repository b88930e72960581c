package domain

// QueryResult is one ranked chunk returned by semantic retrieval.
type QueryResult struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// QueryResponse is the outcome of a semantic query.
// Results are ordered by ascending score (most relevant first).
type QueryResponse struct {
	Query   string        `json:"query"`
	TopK    int           `json:"top_k"`
	Results []QueryResult `json:"results"`
}

// CompletenessReport classifies topics as covered or missing for a document.
type CompletenessReport struct {
	DocumentID string   `json:"document_id"`
	Covered    []string `json:"covered"`
	Missing    []string `json:"missing"`
	Coverage   float64  `json:"coverage"`
}

// Answer is a generated response grounded in retrieved chunks.
type Answer struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
