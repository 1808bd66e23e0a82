package ranking

import (
	"sort"

	"github.com/campushq/askuni/internal/corpus"
	"github.com/campushq/askuni/pkg/utils"
)

// Candidate holds a corpus entry with its fused score.
type Candidate struct {
	Entry     *corpus.Entry
	Score     float64
	Exact     bool
	Breakdown Breakdown
}

// Ranker fuses the five partial signals into one ranking score per entry.
type Ranker struct {
	weights *Weights
}

// NewRanker creates a Ranker with the given weights; nil means defaults.
func NewRanker(weights *Weights) *Ranker {
	if weights == nil {
		weights = DefaultWeights()
	}
	weights.ApplyDefaults()
	return &Ranker{weights: weights}
}

// Weights returns the active fusion configuration.
func (r *Ranker) Weights() *Weights {
	return r.weights
}

// Score computes the fused score for one entry. Exact matches short-circuit
// weighted fusion entirely: they are pinned at the exact threshold (or 1.0
// for identical normalized strings) so partial signals can never outrank
// them. The fused score is clamped to [0,1]; additive department
// bonus/penalty may push the raw sum outside that range transiently.
func (r *Ranker) Score(q *Query, entry *corpus.Entry) Candidate {
	if exact := r.exactMatchScore(q, entry); exact > 0 {
		return Candidate{Entry: entry, Score: exact, Exact: true}
	}

	b := Breakdown{
		Vector:     corpus.VectorSimilarity(q.Vector, entry),
		Keyword:    keywordScore(q, entry),
		Variation:  variationScore(q, entry),
		Phrase:     phraseScore(q, entry),
		Department: r.departmentScore(q, entry),
	}

	score := b.Vector*r.weights.VectorWeight +
		b.Keyword*r.weights.KeywordWeight +
		b.Variation*r.weights.VariationWeight +
		b.Phrase*r.weights.PhraseWeight +
		b.Department

	return Candidate{Entry: entry, Score: utils.Clamp01(score), Breakdown: b}
}

// Rank scores every entry and returns candidates sorted by score descending.
// Ties break by priority (critical > high > normal), then by load order
// (earliest wins). Exact matches score at or near 1.0 and so sort first,
// but the rest of the list is kept: the caller may need to fall back to
// the next candidate when feedback excludes the top one.
func (r *Ranker) Rank(q *Query, entries []*corpus.Entry) []Candidate {
	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		c := r.Score(q, entry)
		if c.Score > 0 {
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		pi, pj := candidates[i].Entry.Record.Priority, candidates[j].Entry.Record.Priority
		if pi != pj {
			return pi > pj
		}
		return candidates[i].Entry.LoadOrder < candidates[j].Entry.LoadOrder
	})
	return candidates
}

// Usable filters candidates below the minimum confidence floor.
func (r *Ranker) Usable(candidates []Candidate) []Candidate {
	usable := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= r.weights.MinScore {
			usable = append(usable, c)
		}
	}
	return usable
}

// TopN returns the first n candidates.
func TopN(candidates []Candidate, n int) []Candidate {
	if n >= len(candidates) {
		return candidates
	}
	return candidates[:n]
}
