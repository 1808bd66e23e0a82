package textproc

import "strings"

// irregularLemmas maps irregular word forms to their lemma. Covers the forms
// that actually occur in university Q/A text.
var irregularLemmas = map[string]string{
	"fees":         "fee",
	"children":     "child",
	"men":          "man",
	"women":        "woman",
	"people":       "person",
	"criteria":     "criterion",
	"curricula":    "curriculum",
	"syllabi":      "syllabus",
	"alumni":       "alumnus",
	"faculties":    "faculty",
	"laboratories": "laboratory",
	"libraries":    "library",
	"universities": "university",
	"activities":   "activity",
	"facilities":   "facility",
	"studies":      "study",
	"paid":         "pay",
	"taught":       "teach",
	"took":         "take",
	"taken":        "take",
	"went":         "go",
	"gone":         "go",
	"got":          "get",
	"began":        "begin",
	"begun":        "begin",
	"was":          "be",
	"were":         "be",
	"is":           "be",
	"are":          "be",
	"been":         "be",
	"has":          "have",
	"had":          "have",
	"does":         "do",
	"did":          "do",
}

// Lemmatize reduces an English word to a base form using an irregular table
// plus suffix rules. It is intentionally conservative: when a rule would
// produce an implausibly short stem, the word is returned unchanged.
func Lemmatize(word string) string {
	if len(word) < 3 {
		return word
	}
	if lemma, ok := irregularLemmas[word]; ok {
		return lemma
	}

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "xes") || strings.HasSuffix(word, "ches") || strings.HasSuffix(word, "shes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ss") || strings.HasSuffix(word, "us") || strings.HasSuffix(word, "is"):
		return word
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "es") && len(word) > 3:
		return word[:len(word)-1]
	case strings.HasSuffix(word, "es") && len(word) > 4:
		return word[:len(word)-1]
	}
	return word
}
