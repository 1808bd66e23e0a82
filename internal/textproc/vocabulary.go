package textproc

// stopwords is the English stopword list plus domain-specific noise words
// ("university", "please", "can") that carry no signal in this corpus.
var stopwords = buildSet(
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "could", "did", "do",
	"does", "doing", "down", "during", "each", "few", "for", "from",
	"further", "had", "has", "have", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "i", "if", "in", "into", "is",
	"it", "its", "itself", "just", "me", "more", "most", "my", "myself",
	"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
	"other", "our", "ours", "ourselves", "out", "over", "own", "same",
	"she", "should", "so", "some", "such", "than", "that", "the", "their",
	"theirs", "them", "themselves", "then", "there", "these", "they",
	"this", "those", "through", "to", "too", "under", "until", "up",
	"very", "was", "we", "were", "what", "when", "where", "which", "while",
	"who", "whom", "why", "will", "with", "you", "your", "yours",
	"yourself", "yourselves",
	// Domain noise.
	"university", "please", "can",
)

// domainVocabulary is the fixed keyword vocabulary for ExtractKeywords:
// academic terms, department names, and facility names. Entries are in
// lemmatized form since they are matched against normalized tokens.
var domainVocabulary = buildSet(
	// Academic terms.
	"admission", "fee", "tuition", "course", "program", "semester", "gpa",
	"grade", "exam", "credit", "requirement", "apply", "enrollment",
	"deadline", "scholarship", "waiver", "transcript", "syllabus",
	"faculty", "department", "degree", "bachelor", "master", "thesis",
	// Department names.
	"cse", "eee", "bba", "llb", "computer", "science", "software",
	"programming", "engineering", "electrical", "electronic", "business",
	"management", "textile", "garment", "law", "legal", "english",
	"literature", "linguistics", "journalism", "media", "communication",
	"sociology",
	// Facility names.
	"library", "lab", "laboratory", "hostel", "cafeteria", "wifi",
	"sport", "club", "transport", "bus", "gym", "auditorium", "campus",
	// Contact / logistics.
	"contact", "phone", "email", "address", "location", "office",
)

func buildSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
