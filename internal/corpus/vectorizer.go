package corpus

import (
	"math"
	"sort"
	"strings"
)

// Vectorizer defaults, tuned for the current corpus size.
const (
	defaultMaxFeatures = 5000
	defaultMaxDocFreq  = 0.95
	// maxDF pruning only kicks in once the corpus is large enough for a
	// document-frequency ratio to be meaningful; on tiny corpora every term
	// would exceed the cutoff.
	minDocsForPruning = 10
	maxNGram          = 3
)

// Vector is an L2-normalized sparse TF-IDF vector keyed by vocabulary
// index. The dot product of two normalized vectors is their cosine
// similarity.
type Vector map[int]float64

// dot returns the inner product of two sparse vectors.
func (v Vector) dot(other Vector) float64 {
	if len(other) < len(v) {
		v, other = other, v
	}
	var sum float64
	for i, a := range v {
		if b, ok := other[i]; ok {
			sum += a * b
		}
	}
	return sum
}

// Vectorizer is a fitted TF-IDF model over token sequences using 1- to
// 3-gram terms, a bounded vocabulary, and document-frequency pruning.
type Vectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	maxFeatures int
	maxDocFreq  float64
}

// NewVectorizer creates an unfitted vectorizer with default bounds.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		maxFeatures: defaultMaxFeatures,
		maxDocFreq:  defaultMaxDocFreq,
	}
}

// VocabularySize returns the number of terms in the fitted vocabulary.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocabulary)
}

// Fit builds the vocabulary and IDF statistics from the given documents,
// then returns one normalized vector per document. Fit is re-runnable; a
// second call discards the previous model entirely.
func (v *Vectorizer) Fit(docs [][]string) []Vector {
	total := len(docs)
	docFreq := make(map[string]int)
	termCounts := make([]map[string]int, total)

	for i, tokens := range docs {
		counts := make(map[string]int)
		for _, term := range ngrams(tokens, maxNGram) {
			counts[term]++
		}
		termCounts[i] = counts
		for term := range counts {
			docFreq[term]++
		}
	}

	// Prune terms appearing in almost every document, then cap the
	// vocabulary by document frequency.
	type termDF struct {
		term string
		df   int
	}
	kept := make([]termDF, 0, len(docFreq))
	for term, df := range docFreq {
		if total >= minDocsForPruning && float64(df)/float64(total) > v.maxDocFreq {
			continue
		}
		kept = append(kept, termDF{term, df})
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].df != kept[j].df {
			return kept[i].df > kept[j].df
		}
		return kept[i].term < kept[j].term
	})
	if len(kept) > v.maxFeatures {
		kept = kept[:v.maxFeatures]
	}

	v.vocabulary = make(map[string]int, len(kept))
	v.idf = make([]float64, len(kept))
	for i, td := range kept {
		v.vocabulary[td.term] = i
		// Smoothed IDF so terms present in every document still carry a
		// small positive weight.
		v.idf[i] = math.Log(float64(1+total)/float64(1+td.df)) + 1
	}

	vectors := make([]Vector, total)
	for i, counts := range termCounts {
		vectors[i] = v.vectorize(counts)
	}
	return vectors
}

// Transform maps a token sequence through the fitted model. Terms outside
// the vocabulary are ignored; a query with no known terms yields an empty
// vector.
func (v *Vectorizer) Transform(tokens []string) Vector {
	counts := make(map[string]int)
	for _, term := range ngrams(tokens, maxNGram) {
		counts[term]++
	}
	return v.vectorize(counts)
}

func (v *Vectorizer) vectorize(counts map[string]int) Vector {
	vec := make(Vector)
	var norm float64
	for term, count := range counts {
		idx, ok := v.vocabulary[term]
		if !ok {
			continue
		}
		w := float64(count) * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// ngrams returns all 1..maxN grams of the token sequence as space-joined
// terms.
func ngrams(tokens []string, maxN int) []string {
	var terms []string
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
