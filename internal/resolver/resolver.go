// Package resolver infers the department and category context of a query
// from surface patterns over its normalized tokens.
package resolver

import "strings"

// Context is the resolved per-query context. Department is empty when no
// department was detected or detection was ambiguous; Categories always
// holds at least one entry.
type Context struct {
	Department string
	Categories []string
}

// departmentPatterns maps a department to the surface patterns that signal
// it. Patterns are matched as substrings of the space-joined normalized
// token sequence, so multi-word patterns must also be in normalized form.
type departmentEntry struct {
	name     string
	patterns []string
}

// Order matters for readability only; resolution is by match weight.
var departmentTable = []departmentEntry{
	{"eee", []string{"eee", "electrical", "electronic"}},
	{"cse", []string{"cse", "computer science", "computer engineering", "software", "programming"}},
	{"bba", []string{"bba", "business", "management"}},
	{"textile", []string{"textile", "garment"}},
	{"law", []string{"law", "llb", "legal", "advocate"}},
	{"english", []string{"english", "literature", "linguistics"}},
	{"journalism", []string{"journalism", "media", "communication"}},
	{"sociology", []string{"sociology", "social science"}},
}

type categoryEntry struct {
	name     string
	patterns []string
}

var categoryTable = []categoryEntry{
	{"fees", []string{"fee", "tuition", "cost", "price", "payment"}},
	{"admission", []string{"admission", "requirement", "apply", "enrollment", "deadline"}},
	{"programs", []string{"program", "course", "department", "degree", "curriculum"}},
	{"contact", []string{"contact", "phone", "email", "address", "location"}},
	{"facilities", []string{"facility", "library", "lab", "laboratory", "hostel", "cafeteria", "wifi"}},
	{"scholarships", []string{"scholarship", "merit", "waiver", "financial aid"}},
	{"activities", []string{"club", "society", "extracurricular", "sport"}},
}

// Resolve infers department and categories from normalized tokens.
//
// Department resolution returns at most one value: each department is
// weighted by how many of its patterns match, and the unique heaviest
// department wins. When two departments tie at the top weight the query is
// ambiguous and no department is declared, so callers must not apply any
// department mismatch penalty.
func Resolve(tokens []string) Context {
	joined := " " + strings.Join(tokens, " ") + " "

	var ctx Context
	bestWeight, tied := 0, false
	for _, entry := range departmentTable {
		weight := 0
		for _, p := range entry.patterns {
			if strings.Contains(joined, " "+p+" ") {
				weight++
			}
		}
		switch {
		case weight > bestWeight:
			bestWeight = weight
			ctx.Department = entry.name
			tied = false
		case weight == bestWeight && weight > 0:
			tied = true
		}
	}
	if tied {
		ctx.Department = ""
	}

	// A query may belong to more than one category; collect all matches.
	for _, entry := range categoryTable {
		for _, p := range entry.patterns {
			if strings.Contains(joined, " "+p+" ") {
				ctx.Categories = append(ctx.Categories, entry.name)
				break
			}
		}
	}
	if len(ctx.Categories) == 0 {
		ctx.Categories = []string{"general"}
	}
	return ctx
}

// PrimaryCategory returns the first resolved category, the one used for
// the ledger's advisory pattern lookup.
func (c Context) PrimaryCategory() string {
	if len(c.Categories) == 0 {
		return "general"
	}
	return c.Categories[0]
}
