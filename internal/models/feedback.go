package models

import (
	"fmt"
	"strings"
	"time"
)

// Verdict is a user judgment on a served answer.
type Verdict string

const (
	// VerdictAccepted marks an answer the user liked.
	VerdictAccepted Verdict = "accepted"
	// VerdictRejected marks an answer the user disliked. Rejection is
	// monotonic: once recorded it is never reversed.
	VerdictRejected Verdict = "rejected"
)

// ParseVerdict parses a verdict string, accepting the like/dislike aliases
// used by older clients.
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accepted", "like":
		return VerdictAccepted, nil
	case "rejected", "dislike":
		return VerdictRejected, nil
	default:
		return "", fmt.Errorf("invalid verdict %q", s)
	}
}

// FeedbackEntry is one persisted user judgment.
type FeedbackEntry struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Verdict   Verdict   `json:"verdict"`
	Timestamp time.Time `json:"timestamp"`
}

// LearningStats summarizes the feedback ledger.
type LearningStats struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}
