// Package corpus owns the loaded record collection and the fitted TF-IDF
// vector model used for cosine-similarity scoring.
package corpus

import (
	"errors"
	"strings"

	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/textproc"
)

// ErrEmptyCorpus is returned by Fit when no records have been loaded.
// A system with zero records cannot safely serve queries, so this is fatal
// at startup.
var ErrEmptyCorpus = errors.New("corpus: no records loaded")

// Entry is one indexed record with its precomputed normalized forms and,
// after Fit, its document vector. Entries are immutable once built.
type Entry struct {
	Record *models.Record

	// QuestionTokens is the normalized token sequence of the question.
	QuestionTokens []string
	// QuestionKey is the space-joined normalized question, used for exact
	// matching and as the collision key at load time.
	QuestionKey string
	// QuestionSet is QuestionTokens as a set.
	QuestionSet map[string]bool
	// VariationKeys / VariationSets are the normalized question variations.
	VariationKeys []string
	VariationSets []map[string]bool
	// KeywordSet is the record's normalized keyword tokens.
	KeywordSet map[string]bool
	// QuestionLower / AnswerLower are lowercased raw texts for verbatim
	// phrase matching.
	QuestionLower string
	AnswerLower   string
	// LoadOrder is the stable position of this entry; earlier entries win
	// ties.
	LoadOrder int

	vector Vector
}

// Index holds all loaded records plus the fitted vector model. Built once
// at startup and read-only afterward; rebuilds construct a fresh Index.
type Index struct {
	entries    []*Entry
	byKey      map[string]int
	vectorizer *Vectorizer
	fitted     bool
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		byKey:      make(map[string]int),
		vectorizer: NewVectorizer(),
	}
}

// Load merges all collections into the index. On a normalized-question
// collision the entry from the higher-priority collection is kept; at equal
// priority the first loaded wins, so loading is deterministic for a given
// collection order. Records with an empty normalized question or answer are
// skipped. The collision map lives on the Index, so further Load calls keep
// merging instead of duplicating already-indexed questions.
func (idx *Index) Load(collections []models.Collection) {
	for _, coll := range collections {
		for _, rec := range coll.Records {
			if rec == nil {
				continue
			}
			if rec.Source == "" {
				rec.Source = coll.SourceID
			}
			if rec.Priority == models.PriorityNormal && coll.Priority > rec.Priority {
				rec.Priority = coll.Priority
			}

			entry := buildEntry(rec, len(idx.entries))
			if entry == nil {
				continue
			}

			if existing, ok := idx.byKey[entry.QuestionKey]; ok {
				if rec.Priority > idx.entries[existing].Record.Priority {
					entry.LoadOrder = idx.entries[existing].LoadOrder
					idx.entries[existing] = entry
				}
				continue
			}
			idx.byKey[entry.QuestionKey] = len(idx.entries)
			idx.entries = append(idx.entries, entry)
		}
	}
	idx.fitted = false
}

func buildEntry(rec *models.Record, loadOrder int) *Entry {
	questionTokens := textproc.Normalize(rec.Question)
	answer := strings.TrimSpace(rec.Answer)
	if len(questionTokens) == 0 || answer == "" {
		return nil
	}

	entry := &Entry{
		Record:         rec,
		QuestionTokens: questionTokens,
		QuestionKey:    strings.Join(questionTokens, " "),
		QuestionSet:    textproc.TokenSet(questionTokens),
		QuestionLower:  strings.ToLower(rec.Question),
		AnswerLower:    strings.ToLower(rec.Answer),
		LoadOrder:      loadOrder,
	}

	for _, variation := range rec.QuestionVariations {
		tokens := textproc.Normalize(variation)
		if len(tokens) == 0 {
			continue
		}
		entry.VariationKeys = append(entry.VariationKeys, strings.Join(tokens, " "))
		entry.VariationSets = append(entry.VariationSets, textproc.TokenSet(tokens))
	}

	entry.KeywordSet = make(map[string]bool)
	for _, kw := range rec.Keywords {
		for _, tok := range textproc.Normalize(kw) {
			entry.KeywordSet[tok] = true
		}
	}
	// Records without explicit keywords fall back to domain keywords found
	// in the question text.
	if len(entry.KeywordSet) == 0 {
		for _, kw := range textproc.ExtractKeywords(questionTokens) {
			entry.KeywordSet[kw] = true
		}
	}
	return entry
}

// Fit builds the vector model over all question texts and stores one vector
// per entry. It is re-runnable after further Load calls.
func (idx *Index) Fit() error {
	if len(idx.entries) == 0 {
		return ErrEmptyCorpus
	}
	docs := make([][]string, len(idx.entries))
	for i, e := range idx.entries {
		docs[i] = e.QuestionTokens
	}
	vectors := idx.vectorizer.Fit(docs)
	for i, e := range idx.entries {
		e.vector = vectors[i]
	}
	idx.fitted = true
	return nil
}

// Fitted reports whether the vector model has been built for the current
// entries.
func (idx *Index) Fitted() bool {
	return idx.fitted
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns all indexed entries in load order. Callers must not
// mutate the returned slice.
func (idx *Index) Entries() []*Entry {
	return idx.entries
}

// VocabularySize returns the fitted vocabulary size.
func (idx *Index) VocabularySize() int {
	return idx.vectorizer.VocabularySize()
}

// QueryVector transforms normalized query tokens through the fitted model.
func (idx *Index) QueryVector(tokens []string) Vector {
	return idx.vectorizer.Transform(tokens)
}

// VectorSimilarity returns the cosine similarity between a query vector and
// an entry's precomputed document vector, in [0,1].
func VectorSimilarity(queryVec Vector, entry *Entry) float64 {
	sim := queryVec.dot(entry.vector)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
