package server

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/campushq/askuni/internal/models"
)

var amountPattern = regexp.MustCompile(`\d[\d,]*`)

// validFeeAnswer cross-checks a retrieved fee answer against the published
// per-semester fee table. Answers outside the fee topic, for unknown
// departments, or without a concrete amount always pass; an answer quoting
// an amount that matches no entry for its department fails.
func validFeeAnswer(result *models.RetrievalResult, fees map[string]int) bool {
	if result == nil || result.Department == "" || len(fees) == 0 {
		return true
	}
	expected, ok := fees[result.Department]
	if !ok {
		return true
	}
	lower := strings.ToLower(result.Answer)
	if !strings.Contains(lower, "fee") && !strings.Contains(lower, "tuition") {
		return true
	}

	found := false
	for _, raw := range amountPattern.FindAllString(lower, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if err != nil || n < 1000 {
			// Small numbers are semester counts, durations, years.
			continue
		}
		found = true
		if n == expected {
			return true
		}
	}
	return !found
}
