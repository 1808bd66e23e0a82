// Package ranking scores corpus entries against a query by fusing five
// independent signals into one ranking score.
package ranking

import (
	"strings"

	"github.com/campushq/askuni/internal/corpus"
	"github.com/campushq/askuni/internal/resolver"
	"github.com/campushq/askuni/internal/textproc"
)

// Query holds the analyzed, per-request form of a raw query: normalized
// tokens, extracted keywords and phrases, resolved context, and the
// transformed query vector. It is created per request and discarded after.
type Query struct {
	Raw      string
	Tokens   []string
	Key      string
	Set      map[string]bool
	Keywords []string
	Phrases  []string
	Context  resolver.Context
	Vector   corpus.Vector
}

// NewQuery analyzes a raw query against a fitted index. Returns nil when the
// query normalizes to nothing.
func NewQuery(raw string, idx *corpus.Index) *Query {
	tokens := textproc.Normalize(raw)
	if len(tokens) == 0 {
		return nil
	}
	return &Query{
		Raw:      raw,
		Tokens:   tokens,
		Key:      strings.Join(tokens, " "),
		Set:      textproc.TokenSet(tokens),
		Keywords: textproc.ExtractKeywords(tokens),
		Phrases:  textproc.QueryPhrases(tokens),
		Context:  resolver.Resolve(tokens),
		Vector:   idx.QueryVector(tokens),
	}
}
