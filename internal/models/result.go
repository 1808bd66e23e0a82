package models

// Reference is one of the top retrieved candidates attached to a result for
// attribution and as optional context for the generation fallback.
type Reference struct {
	Question   string   `json:"question"`
	Source     string   `json:"source"`
	Confidence float64  `json:"confidence"`
	Categories []string `json:"categories,omitempty"`
	Rank       int      `json:"rank"`
}

// RetrievalResult is the outcome of one retrieval call. When
// DeferToGeneration is true, Answer is empty and the caller is expected to
// invoke the external generation service with the normalized query, resolved
// context, and References.
type RetrievalResult struct {
	Answer            string      `json:"answer"`
	Score             float64     `json:"score"`
	Method            string      `json:"method"`
	Source            string      `json:"source"`
	References        []Reference `json:"references,omitempty"`
	DeferToGeneration bool        `json:"defer_to_generation"`

	// Handoff context for the generation fallback.
	NormalizedQuery string   `json:"normalized_query,omitempty"`
	Department      string   `json:"department,omitempty"`
	Categories      []string `json:"categories,omitempty"`
}

// QueryResponse is the shape of the /api/v1/query response, shared with the
// CLI client.
type QueryResponse struct {
	Answer     string      `json:"answer"`
	Score      float64     `json:"score"`
	Method     string      `json:"method"`
	Source     string      `json:"source,omitempty"`
	Department string      `json:"department,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	References []Reference `json:"references,omitempty"`
	Generated  bool        `json:"generated"`
}
