package benchmark

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/campushq/askuni/internal/corpus"
	"github.com/campushq/askuni/internal/feedback"
	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/ranking"
	"github.com/campushq/askuni/internal/retrieval"
	"github.com/campushq/askuni/internal/textproc"
)

var departments = []string{"cse", "eee", "bba", "llb", "english"}

func syntheticCollections(n int) []models.Collection {
	records := make([]*models.Record, 0, n)
	for i := 0; i < n; i++ {
		dept := departments[i%len(departments)]
		records = append(records, &models.Record{
			Question:   fmt.Sprintf("What is the %s fee for semester %d?", dept, i),
			Answer:     fmt.Sprintf("The %s fee for semester %d is %d BDT.", dept, i, 50000+i),
			Department: dept,
			Categories: []string{"fees"},
		})
	}
	return []models.Collection{{SourceID: "dataset_bench", Records: records}}
}

func fittedIndex(b *testing.B, n int) *corpus.Index {
	b.Helper()
	idx := corpus.NewIndex()
	idx.Load(syntheticCollections(n))
	if err := idx.Fit(); err != nil {
		b.Fatal(err)
	}
	return idx
}

func BenchmarkNormalize(b *testing.B) {
	const text = "What are the admission requirements and tuition fees for the CSE department?"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = textproc.Normalize(text)
	}
}

func BenchmarkRank(b *testing.B) {
	for _, size := range []int{100, 1000} {
		b.Run(fmt.Sprintf("corpus-%d", size), func(b *testing.B) {
			idx := fittedIndex(b, size)
			ranker := ranking.NewRanker(nil)
			q := ranking.NewQuery("what is the cse fee for semester 42", idx)
			if q == nil {
				b.Fatal("query normalized to nothing")
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = ranker.Rank(q, idx.Entries())
			}
		})
	}
}

func BenchmarkRetrieve(b *testing.B) {
	logger := zap.NewNop()
	ledger := feedback.Open(filepath.Join(b.TempDir(), "feedback.db"), logger)
	defer ledger.Close()

	orch, err := retrieval.New(func() ([]models.Collection, []*models.InstructionPair, error) {
		return syntheticCollections(1000), nil, nil
	}, nil, ledger, 3, logger)
	if err != nil {
		b.Fatal(err)
	}
	defer orch.Close()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = orch.Retrieve(ctx, "what is the eee fee for semester 11")
	}
}
