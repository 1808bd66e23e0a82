package ranking

import (
	"strings"

	"github.com/campushq/askuni/internal/corpus"
	"github.com/campushq/askuni/internal/textproc"
)

// Breakdown provides the per-signal scores behind a fused score, for
// debugging and result attribution.
type Breakdown struct {
	Vector     float64 `json:"vector"`
	Keyword    float64 `json:"keyword"`
	Variation  float64 `json:"variation"`
	Phrase     float64 `json:"phrase"`
	Department float64 `json:"department"`
}

// keywordScore is |query_keywords ∩ record_keywords| / max(1, |query_keywords|).
func keywordScore(q *Query, entry *corpus.Entry) float64 {
	if len(q.Keywords) == 0 || len(entry.KeywordSet) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range q.Keywords {
		if entry.KeywordSet[kw] {
			matched++
		}
	}
	return float64(matched) / float64(len(q.Keywords))
}

// variationScore is the max Jaccard similarity between the query tokens and
// any of the record's question variations.
func variationScore(q *Query, entry *corpus.Entry) float64 {
	var best float64
	for _, set := range entry.VariationSets {
		if sim := textproc.Jaccard(q.Set, set); sim > best {
			best = sim
		}
	}
	return best
}

// phraseScore is the fraction of extracted query phrases that appear
// verbatim in the record's question or answer.
func phraseScore(q *Query, entry *corpus.Entry) float64 {
	if len(q.Phrases) == 0 {
		return 0
	}
	matched := 0
	for _, phrase := range q.Phrases {
		if strings.Contains(entry.QuestionLower, phrase) || strings.Contains(entry.AnswerLower, phrase) {
			matched++
		}
	}
	return float64(matched) / float64(len(q.Phrases))
}

// departmentScore is +bonus when the resolved department matches the
// record's, -penalty when both are non-empty and differ, and 0 when either
// side is unresolved.
func (r *Ranker) departmentScore(q *Query, entry *corpus.Entry) float64 {
	dept := q.Context.Department
	recDept := strings.ToLower(entry.Record.Department)
	if dept == "" || recDept == "" {
		return 0
	}
	if dept == recDept {
		return r.weights.DepartmentBonus
	}
	return -r.weights.DepartmentPenalty
}

// exactMatchScore returns the short-circuit score for near-exact question or
// variation matches: 1.0 for byte-identical normalized strings, the exact
// threshold (0.98) for Jaccard above the threshold, and 0 otherwise.
func (r *Ranker) exactMatchScore(q *Query, entry *corpus.Entry) float64 {
	if q.Key == entry.QuestionKey {
		return 1.0
	}
	for _, key := range entry.VariationKeys {
		if q.Key == key {
			return 1.0
		}
	}
	if textproc.Jaccard(q.Set, entry.QuestionSet) > r.weights.ExactMatchThreshold {
		return r.weights.ExactMatchThreshold
	}
	for _, set := range entry.VariationSets {
		if textproc.Jaccard(q.Set, set) > r.weights.ExactMatchThreshold {
			return r.weights.ExactMatchThreshold
		}
	}
	return 0
}
