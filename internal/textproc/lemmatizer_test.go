package textproc

import "testing"

func TestLemmatize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		// Irregular forms.
		{"fees", "fee"},
		{"libraries", "library"},
		{"facilities", "facility"},
		{"criteria", "criterion"},
		{"paid", "pay"},
		{"taught", "teach"},
		// Suffix rules.
		{"requirements", "requirement"},
		{"programs", "program"},
		{"activities", "activity"},
		{"classes", "class"},
		{"branches", "branch"},
		{"boxes", "box"},
		{"courses", "course"},
		// Unchanged.
		{"campus", "campus"},
		{"thesis", "thesis"},
		{"class", "class"},
		{"fee", "fee"},
		{"is", "is"},
		{"gpa", "gpa"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Lemmatize(tt.in); got != tt.want {
				t.Errorf("Lemmatize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
