// Package models defines core data structures for records, feedback, and retrieval results.
package models

import "strings"

// Priority controls tie-breaking between equally scored records. It never
// affects correctness, only ordering.
type Priority int

const (
	// PriorityNormal is the default priority for loaded records.
	PriorityNormal Priority = iota
	// PriorityHigh marks records from curated collections.
	PriorityHigh
	// PriorityCritical marks records that must win ties (e.g. fee summaries).
	PriorityCritical
)

// String returns a string representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// ParsePriority maps a collection/record priority tag to a Priority.
// Unknown tags fall back to normal.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return PriorityCritical
	case "high":
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// Record is one retrievable question/answer unit with metadata.
// Records are immutable after load; the corpus index owns the collection.
type Record struct {
	Question           string   `json:"question"`
	Answer             string   `json:"answer"`
	Keywords           []string `json:"keywords,omitempty"`
	Categories         []string `json:"categories,omitempty"`
	Department         string   `json:"department,omitempty"`
	QuestionVariations []string `json:"question_variations,omitempty"`
	ConfidenceScore    float64  `json:"confidence_score,omitempty"`
	Priority           Priority `json:"-"`
	PriorityTag        string   `json:"priority,omitempty"`
	Source             string   `json:"-"`
}

// InstructionPair is one entry of the flat instruction/response collection
// searched by the secondary searcher. It carries no department or category
// metadata.
type InstructionPair struct {
	Instruction string `json:"instruction"`
	Response    string `json:"output"`
	Source      string `json:"-"`
}

// Collection is a named, priority-tagged group of records supplied to the
// corpus index at load time. Load order is significant: earlier collections
// win collisions at equal priority.
type Collection struct {
	SourceID string
	Priority Priority
	Records  []*Record
}
