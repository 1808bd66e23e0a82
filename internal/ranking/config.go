package ranking

// Weights holds the fusion weights and thresholds for the multi-strategy
// scorer. Keeping them as named configuration rather than inline literals
// keeps the fusion formula a single testable pure function.
type Weights struct {
	// Signal weights, sum-combined.
	VectorWeight    float64 `yaml:"vector_weight"`    // default: 0.40
	KeywordWeight   float64 `yaml:"keyword_weight"`   // default: 0.20
	VariationWeight float64 `yaml:"variation_weight"` // default: 0.10
	PhraseWeight    float64 `yaml:"phrase_weight"`    // default: 0.10

	// Department alignment is an additive boost/penalty on top of the
	// weighted sum, not a weighted signal: the full bonus must be able to
	// separate two otherwise identical records and the full penalty must be
	// able to push an off-department record under the floor.
	DepartmentBonus   float64 `yaml:"department_bonus"`   // default: 0.4
	DepartmentPenalty float64 `yaml:"department_penalty"` // default: 0.5 (subtracted)

	// ExactMatchThreshold is the Jaccard similarity above which a query is
	// treated as an exact match of a question or variation.
	ExactMatchThreshold float64 `yaml:"exact_match_threshold"` // default: 0.98

	// MinScore is the confidence floor; candidates below it are not usable
	// matches and the caller defers to generation.
	MinScore float64 `yaml:"min_score"` // default: 0.25
}

// DefaultWeights returns the default fusion configuration.
func DefaultWeights() *Weights {
	return &Weights{
		VectorWeight:        0.40,
		KeywordWeight:       0.20,
		VariationWeight:     0.10,
		PhraseWeight:        0.10,
		DepartmentBonus:     0.4,
		DepartmentPenalty:   0.5,
		ExactMatchThreshold: 0.98,
		MinScore:            0.25,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (w *Weights) ApplyDefaults() {
	defaults := DefaultWeights()
	if w.VectorWeight == 0 {
		w.VectorWeight = defaults.VectorWeight
	}
	if w.KeywordWeight == 0 {
		w.KeywordWeight = defaults.KeywordWeight
	}
	if w.VariationWeight == 0 {
		w.VariationWeight = defaults.VariationWeight
	}
	if w.PhraseWeight == 0 {
		w.PhraseWeight = defaults.PhraseWeight
	}
	if w.DepartmentBonus == 0 {
		w.DepartmentBonus = defaults.DepartmentBonus
	}
	if w.DepartmentPenalty == 0 {
		w.DepartmentPenalty = defaults.DepartmentPenalty
	}
	if w.ExactMatchThreshold == 0 {
		w.ExactMatchThreshold = defaults.ExactMatchThreshold
	}
	if w.MinScore == 0 {
		w.MinScore = defaults.MinScore
	}
}
