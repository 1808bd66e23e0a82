package textproc

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "stopwords and punctuation stripped",
			in:   "What are the admission requirements?",
			want: []string{"admission", "requirement"},
		},
		{
			name: "domain noise words stripped",
			in:   "Can you please tell me about the university library?",
			want: []string{"tell", "library"},
		},
		{
			name: "lemmatized plurals",
			in:   "tuition fees for courses",
			want: []string{"tuition", "fee", "course"},
		},
		{
			name: "case insensitive",
			in:   "SEMESTER Fee",
			want: []string{"semester", "fee"},
		},
		{
			name: "digits kept",
			in:   "fee is 70000 bdt",
			want: []string{"fee", "70000", "bdt"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "only stopwords",
			in:   "what is the",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	in := "How much is the semester fee for CSE?"
	first := NormalizeJoined(in)
	for i := 0; i < 10; i++ {
		if got := NormalizeJoined(in); got != first {
			t.Fatalf("NormalizeJoined not deterministic: %q vs %q", got, first)
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	tokens := Normalize("What is the admission fee for the CSE program admission?")
	got := ExtractKeywords(tokens)
	want := []string{"admission", "fee", "cse", "program"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords = %v, want %v (first-seen order, no duplicates)", got, want)
	}
}

func TestExtractPhrases(t *testing.T) {
	tokens := []string{"semester", "fee", "cse"}
	got := ExtractPhrases(tokens, 2)
	want := []string{"semester fee", "fee cse"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractPhrases(2) = %v, want %v", got, want)
	}
	if got := ExtractPhrases(tokens, 4); got != nil {
		t.Errorf("ExtractPhrases with n > len = %v, want nil", got)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"a", "b"}, []string{"a", "b"}, 1.0},
		{"disjoint", []string{"a"}, []string{"b"}, 0.0},
		{"partial", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{"both empty", nil, nil, 0.0},
		{"one empty", []string{"a"}, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(TokenSet(tt.a), TokenSet(tt.b))
			if got != tt.want {
				t.Errorf("Jaccard = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapMax(t *testing.T) {
	a := TokenSet([]string{"the", "fee", "is", "70000", "bdt"})
	b := TokenSet([]string{"the", "fee", "is", "70000", "taka"})
	if got := OverlapMax(a, b); got != 0.8 {
		t.Errorf("OverlapMax = %v, want 0.8", got)
	}
	if got := OverlapMax(a, TokenSet(nil)); got != 0 {
		t.Errorf("OverlapMax with empty set = %v, want 0", got)
	}
}
