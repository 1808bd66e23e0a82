// Package retrieval is the public entry point of the engine: it normalizes
// a query, resolves context, runs the corpus index and the secondary
// searcher, applies the feedback exclusion rule, and returns the best
// surviving candidate.
package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/campushq/askuni/internal/corpus"
	"github.com/campushq/askuni/internal/feedback"
	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/ranking"
	"github.com/campushq/askuni/internal/secondary"
)

// Method names reported in results.
const (
	MethodExactMatch    = "exact_question_match"
	MethodMultiStrategy = "multi_strategy_match"
	MethodInstruction   = "instruction_match"
	MethodDefer         = "defer_to_generation"
)

// SourceLoader supplies the record collections and instruction pairs for a
// (re)build. It is called once at startup and again on every Rebuild.
type SourceLoader func() ([]models.Collection, []*models.InstructionPair, error)

// engineState is the immutable index pair a request reads. Rebuild swaps
// the whole state atomically so in-flight requests keep a consistent view.
type engineState struct {
	index     *corpus.Index
	secondary *secondary.Searcher
}

// Orchestrator coordinates one retrieval pipeline over shared, read-mostly
// state. Retrieval is lock-free; only Rebuild replaces state.
type Orchestrator struct {
	load    SourceLoader
	ranker  *ranking.Ranker
	ledger  *feedback.Ledger
	logger  *zap.Logger
	maxRefs int

	state atomic.Pointer[engineState]
}

// New builds an orchestrator and performs the initial load and fit. A
// corpus with zero records is fatal here: the system cannot safely serve
// queries without data.
func New(load SourceLoader, weights *ranking.Weights, ledger *feedback.Ledger, maxRefs int, logger *zap.Logger) (*Orchestrator, error) {
	if maxRefs <= 0 {
		maxRefs = 3
	}
	o := &Orchestrator{
		load:    load,
		ranker:  ranking.NewRanker(weights),
		ledger:  ledger,
		logger:  logger,
		maxRefs: maxRefs,
	}
	if err := o.Rebuild(); err != nil {
		return nil, err
	}
	return o, nil
}

// Rebuild reloads all collections, refits the vector model, and swaps the
// new state in atomically. On failure the previous state stays live.
func (o *Orchestrator) Rebuild() error {
	collections, pairs, err := o.load()
	if err != nil {
		return err
	}

	idx := corpus.NewIndex()
	idx.Load(collections)
	if err := idx.Fit(); err != nil {
		return err
	}

	searcher, err := secondary.NewSearcher(pairs)
	if err != nil {
		return err
	}

	old := o.state.Swap(&engineState{index: idx, secondary: searcher})
	if old != nil && old.secondary != nil {
		_ = old.secondary.Close()
	}
	o.logger.Info("corpus rebuilt",
		zap.Int("records", idx.Len()),
		zap.Int("vocabulary", idx.VocabularySize()),
		zap.Int("instruction_pairs", searcher.Len()))
	return nil
}

// Ledger returns the feedback ledger backing this orchestrator.
func (o *Orchestrator) Ledger() *feedback.Ledger {
	return o.ledger
}

// CorpusSize returns the number of indexed records.
func (o *Orchestrator) CorpusSize() int {
	return o.state.Load().index.Len()
}

// SecondarySize returns the number of indexed instruction pairs.
func (o *Orchestrator) SecondarySize() int {
	return o.state.Load().secondary.Len()
}

// SubmitFeedback records a user judgment and returns updated stats.
func (o *Orchestrator) SubmitFeedback(question, answer string, verdict models.Verdict) models.LearningStats {
	stats := o.ledger.Record(question, answer, verdict)
	o.logger.Info("feedback recorded",
		zap.String("verdict", string(verdict)),
		zap.Int("total", stats.Total))
	return stats
}

// finalist is one candidate surviving scoring, from either search path.
type finalist struct {
	answer     string
	score      float64
	method     string
	source     string
	fromCorpus bool
}

// Retrieve answers a raw query. Per-query conditions never surface as
// errors: a malformed query or an unconfident result comes back as a
// structured defer-to-generation signal.
func (o *Orchestrator) Retrieve(ctx context.Context, raw string) *models.RetrievalResult {
	if strings.TrimSpace(raw) == "" {
		return &models.RetrievalResult{Method: MethodDefer, DeferToGeneration: true}
	}

	state := o.state.Load()
	q := ranking.NewQuery(raw, state.index)
	if q == nil {
		// Nothing left after normalization (punctuation-only, all
		// stopwords, ...).
		return &models.RetrievalResult{Method: MethodDefer, DeferToGeneration: true}
	}

	candidates := o.ranker.Rank(q, state.index.Entries())

	match, err := state.secondary.Search(ctx, q.Tokens)
	if err != nil {
		o.logger.Warn("secondary search failed", zap.Error(err))
		match = nil
	}

	references := o.references(candidates, match)
	result := &models.RetrievalResult{
		Method:            MethodDefer,
		References:        references,
		NormalizedQuery:   q.Key,
		Department:        q.Context.Department,
		Categories:        q.Context.Categories,
		DeferToGeneration: true,
	}

	for _, f := range o.finalists(candidates, match) {
		if o.ledger.IsBlocked(f.answer) {
			o.logger.Debug("candidate blocked by feedback",
				zap.String("source", f.source),
				zap.Float64("score", f.score))
			continue
		}
		result.Answer = f.answer
		result.Score = f.score
		result.Method = f.method
		result.Source = f.source
		result.DeferToGeneration = false
		return result
	}

	// No candidate cleared the floor or all survivors were blocked.
	return result
}

// finalists merges the usable primary candidates with the secondary match
// in preference order: higher score first, corpus winning ties.
func (o *Orchestrator) finalists(candidates []ranking.Candidate, match *secondary.Match) []finalist {
	usable := o.ranker.Usable(candidates)
	out := make([]finalist, 0, len(usable)+1)
	for _, c := range usable {
		method := MethodMultiStrategy
		if c.Exact {
			method = MethodExactMatch
		}
		out = append(out, finalist{
			answer:     c.Entry.Record.Answer,
			score:      c.Score,
			method:     method,
			source:     c.Entry.Record.Source,
			fromCorpus: true,
		})
	}
	if match != nil && match.Score >= o.ranker.Weights().MinScore {
		out = append(out, finalist{
			answer: match.Response,
			score:  match.Score,
			method: MethodInstruction,
			source: match.Source,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].fromCorpus && !out[j].fromCorpus
	})
	return out
}

// references collects the top retrieved candidates for attribution and as
// optional context for the generation fallback. Unlike finalists, they are
// not floored: a deferred query still hands its best guesses over.
func (o *Orchestrator) references(candidates []ranking.Candidate, match *secondary.Match) []models.Reference {
	refs := make([]models.Reference, 0, o.maxRefs)
	for _, c := range ranking.TopN(candidates, o.maxRefs) {
		refs = append(refs, models.Reference{
			Question:   c.Entry.Record.Question,
			Source:     c.Entry.Record.Source,
			Confidence: c.Score,
			Categories: c.Entry.Record.Categories,
		})
	}
	if match != nil && len(refs) < o.maxRefs {
		refs = append(refs, models.Reference{
			Question:   match.Instruction,
			Source:     match.Source,
			Confidence: match.Score,
		})
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Confidence > refs[j].Confidence })
	if len(refs) > o.maxRefs {
		refs = refs[:o.maxRefs]
	}
	for i := range refs {
		refs[i].Rank = i + 1
	}
	return refs
}

// Close releases index resources.
func (o *Orchestrator) Close() error {
	state := o.state.Load()
	if state != nil && state.secondary != nil {
		return state.secondary.Close()
	}
	return nil
}
