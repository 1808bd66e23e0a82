package corpus

import (
	"testing"

	"github.com/campushq/askuni/internal/models"
)

func record(question, answer string) *models.Record {
	return &models.Record{Question: question, Answer: answer}
}

func TestIndexLoadSkipsMalformed(t *testing.T) {
	idx := NewIndex()
	idx.Load([]models.Collection{{
		SourceID: "dataset_test",
		Records: []*models.Record{
			record("What is the semester fee?", "70000 BDT per semester."),
			record("", "orphan answer"),
			record("???", "question normalizes to nothing"),
			record("Where is the campus?", "   "),
			nil,
		},
	}})
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}
	if got := idx.Entries()[0].Record.Source; got != "dataset_test" {
		t.Errorf("Source = %q, want dataset_test", got)
	}
}

func TestIndexPriorityMerge(t *testing.T) {
	base := models.Collection{
		SourceID: "dataset_base",
		Records: []*models.Record{
			record("What is the CSE semester fee?", "old answer"),
			record("Where is the library?", "Building A, ground floor."),
		},
	}
	critical := models.Collection{
		SourceID: "dataset_critical",
		Priority: models.PriorityCritical,
		Records: []*models.Record{
			record("What is the CSE semester fee?", "70000 BDT per semester."),
		},
	}

	idx := NewIndex()
	idx.Load([]models.Collection{base, critical})
	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (collision merged)", idx.Len())
	}

	var merged *Entry
	for _, e := range idx.Entries() {
		if e.QuestionKey == "cse semester fee" {
			merged = e
		}
	}
	if merged == nil {
		t.Fatal("merged entry not found")
	}
	if merged.Record.Answer != "70000 BDT per semester." {
		t.Errorf("Answer = %q, want the critical collection's answer", merged.Record.Answer)
	}
	if merged.Record.Priority != models.PriorityCritical {
		t.Errorf("Priority = %v, want critical", merged.Record.Priority)
	}
	if merged.LoadOrder != 0 {
		t.Errorf("LoadOrder = %d, want the original slot 0", merged.LoadOrder)
	}
}

func TestIndexSequentialLoadsMerge(t *testing.T) {
	idx := NewIndex()
	idx.Load([]models.Collection{{
		SourceID: "dataset_base",
		Records: []*models.Record{
			record("What is the CSE semester fee?", "old answer"),
		},
	}})
	idx.Load([]models.Collection{{
		SourceID: "dataset_critical",
		Priority: models.PriorityCritical,
		Records: []*models.Record{
			record("What is the CSE semester fee?", "70000 BDT per semester."),
			record("Where is the library?", "Building A, ground floor."),
		},
	}})

	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (collision across Load calls merged)", idx.Len())
	}
	var merged *Entry
	for _, e := range idx.Entries() {
		if e.QuestionKey == "cse semester fee" {
			merged = e
		}
	}
	if merged == nil {
		t.Fatal("merged entry not found")
	}
	if merged.Record.Answer != "70000 BDT per semester." {
		t.Errorf("Answer = %q, want the second load's answer", merged.Record.Answer)
	}
	if merged.LoadOrder != 0 {
		t.Errorf("LoadOrder = %d, want the original slot 0", merged.LoadOrder)
	}
}

func TestIndexEqualPriorityFirstWins(t *testing.T) {
	idx := NewIndex()
	idx.Load([]models.Collection{
		{SourceID: "a", Records: []*models.Record{record("library opening hours?", "9am-8pm")}},
		{SourceID: "b", Records: []*models.Record{record("Library opening hours!", "10am-5pm")}},
	})
	if idx.Len() != 1 {
		t.Fatalf("Len = %d, want 1", idx.Len())
	}
	if got := idx.Entries()[0].Record.Answer; got != "9am-8pm" {
		t.Errorf("Answer = %q, want the first-loaded answer", got)
	}
}

func TestIndexFit(t *testing.T) {
	idx := NewIndex()
	if err := idx.Fit(); err != ErrEmptyCorpus {
		t.Fatalf("Fit on empty index = %v, want ErrEmptyCorpus", err)
	}

	idx.Load([]models.Collection{{
		SourceID: "dataset_test",
		Records: []*models.Record{
			record("What is the semester fee for CSE?", "70000 BDT."),
			record("Where is the library?", "Building A."),
		},
	}})
	if idx.Fitted() {
		t.Error("Fitted true before Fit")
	}
	if err := idx.Fit(); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !idx.Fitted() {
		t.Error("Fitted false after Fit")
	}

	q := idx.QueryVector([]string{"semester", "fee", "cse"})
	var best *Entry
	bestSim := -1.0
	for _, e := range idx.Entries() {
		if sim := VectorSimilarity(q, e); sim > bestSim {
			bestSim = sim
			best = e
		}
	}
	if best == nil || best.QuestionKey != "semester fee cse" {
		t.Errorf("closest entry = %+v, want the fee record", best)
	}
}

func TestBuildEntryKeywordFallback(t *testing.T) {
	idx := NewIndex()
	idx.Load([]models.Collection{{
		SourceID: "dataset_test",
		Records: []*models.Record{
			record("What is the admission deadline for the CSE program?", "June 30."),
		},
	}})
	e := idx.Entries()[0]
	for _, kw := range []string{"admission", "deadline", "cse", "program"} {
		if !e.KeywordSet[kw] {
			t.Errorf("KeywordSet missing fallback domain keyword %q", kw)
		}
	}
}
