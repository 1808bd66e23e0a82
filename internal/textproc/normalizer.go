// Package textproc provides deterministic text normalization, keyword
// extraction, and phrase extraction for queries and records.
package textproc

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, strips non-alphanumeric characters, removes
// stopwords, lemmatizes the remaining tokens, and corrects single-edit
// misspellings of domain vocabulary terms. The same input always yields
// the same token sequence.
func Normalize(text string) []string {
	if text == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if stopwords[w] {
			continue
		}
		if lemma := Lemmatize(w); lemma != "" {
			tokens = append(tokens, CorrectToken(lemma))
		}
	}
	return tokens
}

// NormalizeJoined returns the normalized token sequence joined by single
// spaces, the canonical form used for exact-match comparison and the
// corpus collision key.
func NormalizeJoined(text string) string {
	return strings.Join(Normalize(text), " ")
}

// ExtractKeywords intersects tokens against the fixed domain vocabulary and
// returns the matches in first-seen order without duplicates.
func ExtractKeywords(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var keywords []string
	for _, tok := range tokens {
		if domainVocabulary[tok] && !seen[tok] {
			keywords = append(keywords, tok)
			seen[tok] = true
		}
	}
	return keywords
}

// IsDomainKeyword reports whether a normalized token is part of the fixed
// domain vocabulary.
func IsDomainKeyword(token string) bool {
	return domainVocabulary[token]
}

// ExtractPhrases returns sliding-window n-grams over tokens, keeping only
// phrases of at least 4 characters when joined.
func ExtractPhrases(tokens []string, n int) []string {
	if n < 1 || len(tokens) < n {
		return nil
	}
	phrases := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		phrase := strings.Join(tokens[i:i+n], " ")
		if len(phrase) >= 4 {
			phrases = append(phrases, phrase)
		}
	}
	return phrases
}

// QueryPhrases extracts the 2-gram and 3-gram phrases used by the phrase
// match signals.
func QueryPhrases(tokens []string) []string {
	phrases := ExtractPhrases(tokens, 2)
	return append(phrases, ExtractPhrases(tokens, 3)...)
}

// TokenSet converts a token slice to a set.
func TokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// Jaccard returns the Jaccard similarity of two token sets.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if b[t] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// OverlapMax returns |a ∩ b| / max(|a|, |b|), the similarity used by the
// feedback blocklist.
func OverlapMax(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if b[t] {
			intersection++
		}
	}
	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	return float64(intersection) / float64(denom)
}
