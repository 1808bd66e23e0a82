package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatasetDir == "" {
		cfg.Storage.DatasetDir = "./dataset"
	}
	if cfg.Storage.InstructionFile == "" {
		cfg.Storage.InstructionFile = "./dataset/instructions.jsonl"
	}
	if cfg.Storage.LedgerPath == "" {
		cfg.Storage.LedgerPath = "./data/feedback.db"
	}
	if cfg.Retrieval.MaxReferences == 0 {
		cfg.Retrieval.MaxReferences = 3
	}
	cfg.Retrieval.Weights.ApplyDefaults()
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = "llama3"
	}
	if cfg.Generation.APIKeyEnv == "" {
		cfg.Generation.APIKeyEnv = "ASKUNI_API_KEY"
	}
	if cfg.Validation.SemesterFees == nil {
		// Published per-semester fees (BDT) used by the answer sanity check.
		cfg.Validation.SemesterFees = map[string]int{
			"cse":              70000,
			"computer science": 70000,
			"eee":              80000,
			"electrical":       80000,
			"bba":              60000,
			"business":         60000,
			"textile":          65000,
			"law":              55000,
			"llb":              55000,
			"english":          50000,
		}
	}
}
