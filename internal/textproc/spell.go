package textproc

import "sort"

// Correction only applies to tokens at least this long. Short tokens are
// too easy to miscorrect ("free" is one edit from "fee").
const minCorrectionLength = 5

// sortedVocabulary holds the domain vocabulary in lexical order so that
// correction picks the same candidate on every run.
var sortedVocabulary = func() []string {
	terms := make([]string, 0, len(domainVocabulary))
	for t := range domainVocabulary {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}()

// CorrectToken maps a misspelled token onto the domain vocabulary term one
// edit away, if there is one. Tokens already in the vocabulary, tokens
// shorter than the correction minimum, and tokens with no single-edit
// neighbor come back unchanged.
func CorrectToken(token string) string {
	if len(token) < minCorrectionLength || domainVocabulary[token] {
		return token
	}
	for _, term := range sortedVocabulary {
		if withinOneEdit(token, term) {
			return term
		}
	}
	return token
}

// withinOneEdit reports whether a and b differ by a single substitution,
// adjacent transposition, insertion, or deletion.
func withinOneEdit(a, b string) bool {
	if a == b {
		return true
	}
	ra, rb := []rune(a), []rune(b)
	switch len(ra) - len(rb) {
	case 0:
		// One substitution, or one swap of adjacent runes.
		i := 0
		for i < len(ra) && ra[i] == rb[i] {
			i++
		}
		if i == len(ra) {
			return true
		}
		if equalRunes(ra[i+1:], rb[i+1:]) {
			return true
		}
		return i+1 < len(ra) && ra[i] == rb[i+1] && ra[i+1] == rb[i] &&
			equalRunes(ra[i+2:], rb[i+2:])
	case 1:
		return oneDeletion(ra, rb)
	case -1:
		return oneDeletion(rb, ra)
	default:
		return false
	}
}

// oneDeletion reports whether deleting a single rune from longer yields
// shorter.
func oneDeletion(longer, shorter []rune) bool {
	i := 0
	for i < len(shorter) && longer[i] == shorter[i] {
		i++
	}
	return equalRunes(longer[i+1:], shorter[i:])
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
