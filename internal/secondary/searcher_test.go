package secondary

import (
	"context"
	"testing"

	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/textproc"
)

func pair(instruction, response string) *models.InstructionPair {
	return &models.InstructionPair{Instruction: instruction, Response: response, Source: "instruction_test"}
}

func newTestSearcher(t *testing.T, pairs ...*models.InstructionPair) *Searcher {
	t.Helper()
	s, err := NewSearcher(pairs)
	if err != nil {
		t.Fatalf("NewSearcher: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSearcherSkipsEmptyPairs(t *testing.T) {
	s := newTestSearcher(t,
		pair("how do I apply for admission", "Submit the online form."),
		pair("", "orphan response"),
		pair("???", "instruction normalizes to nothing"),
		pair("valid instruction text", "   "),
	)
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestSearcherFindsBestMatch(t *testing.T) {
	s := newTestSearcher(t,
		pair("how do I apply for admission", "Submit the online application form before the deadline."),
		pair("what sports clubs are available", "Football, cricket, and chess clubs meet weekly."),
		pair("how do I contact the registrar office", "Email registrar@university.edu."),
	)

	match, err := s.Search(context.Background(), textproc.Normalize("how do I apply for admission"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if match == nil {
		t.Fatal("no match for identical instruction")
	}
	if match.Response != "Submit the online application form before the deadline." {
		t.Errorf("Response = %q, want the admission pair", match.Response)
	}
	// Identical instruction: every signal at full strength.
	if match.Score < 0.99 {
		t.Errorf("Score = %v, want ~1.0 for identical instruction", match.Score)
	}
	if match.Source != "instruction_test" {
		t.Errorf("Source = %q", match.Source)
	}
}

func TestSearcherBelowMinScore(t *testing.T) {
	s := newTestSearcher(t,
		pair("how do I apply for admission", "Submit the online form."),
	)
	match, err := s.Search(context.Background(), textproc.Normalize("library opening hours on friday"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if match != nil {
		t.Errorf("match = %+v, want nil for an unrelated query", match)
	}
}

func TestSearcherEmptyInputs(t *testing.T) {
	s := newTestSearcher(t, pair("how do I apply", "Submit the form."))

	if match, err := s.Search(context.Background(), nil); err != nil || match != nil {
		t.Errorf("Search(nil tokens) = %+v, %v; want nil, nil", match, err)
	}

	empty := newTestSearcher(t)
	if match, err := empty.Search(context.Background(), []string{"apply"}); err != nil || match != nil {
		t.Errorf("Search on empty searcher = %+v, %v; want nil, nil", match, err)
	}
}
