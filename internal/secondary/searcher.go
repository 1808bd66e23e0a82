// Package secondary provides a lighter-weight matcher over the flat
// instruction/response collection, used as a fallback signal beside the
// main corpus index.
package secondary

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/textproc"
)

// defaultShortlist is how many bleve candidates are re-scored with the full
// weighted formula. The custom score needs shared words, so anything bleve
// cannot find would score zero anyway.
const defaultShortlist = 50

// minScore is the minimum combined score for a pair to count as a candidate.
const minScore = 0.15

// Signal weights for the combined score.
const (
	jaccardWeight = 0.40
	orderWeight   = 0.20
	keyTermWeight = 0.25
	phraseWeight  = 0.15
)

// Match is the secondary searcher's top candidate for a query.
type Match struct {
	Instruction string
	Response    string
	Source      string
	Score       float64
}

type indexedPair struct {
	pair   *models.InstructionPair
	tokens []string
	set    map[string]bool
	// joined is the space-joined normalized instruction; phrase matching
	// runs on normalized forms on both sides.
	joined string
}

// Searcher matches queries against instruction/response pairs. A bleve
// in-memory index over the normalized instruction text shortlists
// candidates; the shortlist is then re-scored with the weighted formula.
type Searcher struct {
	pairs     []indexedPair
	index     bleve.Index
	shortlist int
}

// bleveDoc is what gets indexed per pair: the normalized instruction, so
// bleve and the re-scorer agree on lemmatized token forms.
type bleveDoc struct {
	Text string `json:"text"`
}

// NewSearcher indexes the given pairs. Pairs whose instruction or response
// normalizes to nothing are skipped.
func NewSearcher(pairs []*models.InstructionPair) (*Searcher, error) {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name
	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("create secondary index: %w", err)
	}

	s := &Searcher{index: index, shortlist: defaultShortlist}
	batch := index.NewBatch()
	for _, pair := range pairs {
		tokens := textproc.Normalize(pair.Instruction)
		if len(tokens) == 0 || strings.TrimSpace(pair.Response) == "" {
			continue
		}
		id := strconv.Itoa(len(s.pairs))
		joined := strings.Join(tokens, " ")
		s.pairs = append(s.pairs, indexedPair{
			pair:   pair,
			tokens: tokens,
			set:    textproc.TokenSet(tokens),
			joined: joined,
		})
		if err := batch.Index(id, bleveDoc{Text: joined}); err != nil {
			return nil, fmt.Errorf("index instruction pair: %w", err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("commit secondary index: %w", err)
	}
	return s, nil
}

// Len returns the number of indexed pairs.
func (s *Searcher) Len() int {
	return len(s.pairs)
}

// Close releases the in-memory index.
func (s *Searcher) Close() error {
	return s.index.Close()
}

// Search returns the best-scoring pair for the normalized query tokens, or
// nil when nothing clears the minimum score.
func (s *Searcher) Search(ctx context.Context, tokens []string) (*Match, error) {
	if len(tokens) == 0 || len(s.pairs) == 0 {
		return nil, nil
	}

	query := bleve.NewMatchQuery(strings.Join(tokens, " "))
	query.SetField("text")
	req := bleve.NewSearchRequest(query)
	req.Size = s.shortlist
	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("secondary shortlist: %w", err)
	}

	queryKeywords := textproc.ExtractKeywords(tokens)
	queryPhrases := textproc.QueryPhrases(tokens)
	querySet := textproc.TokenSet(tokens)

	var best *Match
	for _, hit := range res.Hits {
		idx, err := strconv.Atoi(hit.ID)
		if err != nil || idx < 0 || idx >= len(s.pairs) {
			continue
		}
		ip := s.pairs[idx]
		score := s.score(tokens, querySet, queryKeywords, queryPhrases, ip)
		if score < minScore {
			continue
		}
		if best == nil || score > best.Score {
			best = &Match{
				Instruction: ip.pair.Instruction,
				Response:    ip.pair.Response,
				Source:      ip.pair.Source,
				Score:       score,
			}
		}
	}
	return best, nil
}

// score combines the four secondary signals: Jaccard word overlap, word
// order closeness, key-term match ratio, and exact-phrase match ratio.
func (s *Searcher) score(tokens []string, querySet map[string]bool, queryKeywords, queryPhrases []string, ip indexedPair) float64 {
	jaccard := textproc.Jaccard(querySet, ip.set)

	// Average positional closeness of shared words: a shared word
	// contributes more the closer its relative position in the instruction
	// is to its relative position in the query.
	var orderSum float64
	for i, tok := range tokens {
		pos := indexOf(ip.tokens, tok)
		if pos < 0 {
			continue
		}
		diff := float64(i)/float64(len(tokens)) - float64(pos)/float64(len(ip.tokens))
		if diff < 0 {
			diff = -diff
		}
		orderSum += 1 - diff
	}
	order := orderSum / float64(len(tokens))

	var keyTerm float64
	if len(queryKeywords) > 0 {
		shared := 0
		for _, kw := range queryKeywords {
			if ip.set[kw] {
				shared++
			}
		}
		keyTerm = float64(shared) / float64(len(queryKeywords))
	}

	var phrase float64
	if len(queryPhrases) > 0 {
		matched := 0
		for _, p := range queryPhrases {
			if strings.Contains(ip.joined, p) {
				matched++
			}
		}
		phrase = float64(matched) / float64(len(queryPhrases))
	}

	return jaccard*jaccardWeight + order*orderWeight + keyTerm*keyTermWeight + phrase*phraseWeight
}

func indexOf(tokens []string, tok string) int {
	for i, t := range tokens {
		if t == tok {
			return i
		}
	}
	return -1
}
